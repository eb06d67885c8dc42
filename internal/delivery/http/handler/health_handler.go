package handler

import (
	"context"
	"net/http"
	"time"

	"product-catalog/pkg/response"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const readinessTimeout = 2 * time.Second

type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		log:         log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Service is up", map[string]string{"status": "UP"})
}

// Live only reports that the process is serving requests.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Service is alive", map[string]string{"status": "UP"})
}

// Ready pings the database and Redis and answers 503 if either is down.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{
		"database": "UP",
		"redis":    "UP",
	}
	ready := true

	if err := h.pingDatabase(ctx); err != nil {
		h.log.Warnf("Readiness check failed for database: %+v", err)
		checks["database"] = "DOWN"
		ready = false
	}

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Warnf("Readiness check failed for redis: %+v", err)
		checks["redis"] = "DOWN"
		ready = false
	}

	if !ready {
		response.JSON(w, http.StatusServiceUnavailable, response.Response{
			Success: false,
			Message: "Service is not ready",
			Data:    checks,
		})
		return
	}

	response.Success(w, http.StatusOK, "Service is ready", checks)
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
