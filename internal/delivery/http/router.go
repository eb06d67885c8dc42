package http

import (
	"net/http"

	"product-catalog/internal/delivery/http/handler"
	"product-catalog/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	productHandler    *handler.ProductHandler
	auditLogHandler   *handler.AuditLogHandler
	healthHandler     *handler.HealthHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	auditLogHandler *handler.AuditLogHandler,
	healthHandler *handler.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		productHandler:    productHandler,
		auditLogHandler:   auditLogHandler,
		healthHandler:     healthHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
	}
}

// Setup registers all routes. CORS, logging and panic recovery wrap the
// whole router so they also see preflight and unmatched requests.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health checks
	api.HandleFunc("/health", r.healthHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/health/live", r.healthHandler.Live).Methods(http.MethodGet)
	api.HandleFunc("/health/ready", r.healthHandler.Ready).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Product routes (public reads)
	products := api.PathPrefix("/products").Subrouter()
	products.HandleFunc("", r.productHandler.GetAll).Methods(http.MethodGet)
	products.HandleFunc("/search", r.productHandler.Search).Methods(http.MethodGet)
	products.HandleFunc("/filter", r.productHandler.Filter).Methods(http.MethodGet)
	products.HandleFunc("/{id:[0-9]+}", r.productHandler.GetByID).Methods(http.MethodGet)
	products.HandleFunc("/{id:[0-9]+}/availability", r.productHandler.CheckAvailability).Methods(http.MethodGet)

	// Product management (admin only)
	productAdmin := api.PathPrefix("/products").Subrouter()
	productAdmin.Use(r.authMiddleware.Authenticate)
	productAdmin.Use(middleware.RequireAdmin)
	productAdmin.HandleFunc("", r.productHandler.Create).Methods(http.MethodPost)
	productAdmin.HandleFunc("/low-stock", r.productHandler.LowStock).Methods(http.MethodGet)
	productAdmin.HandleFunc("/{id:[0-9]+}", r.productHandler.Update).Methods(http.MethodPut)
	productAdmin.HandleFunc("/{id:[0-9]+}", r.productHandler.Delete).Methods(http.MethodDelete)
	productAdmin.HandleFunc("/{id:[0-9]+}/stock", r.productHandler.SetStock).Methods(http.MethodPut)
	productAdmin.HandleFunc("/{id:[0-9]+}/reserve", r.productHandler.ReserveStock).Methods(http.MethodPost)
	productAdmin.HandleFunc("/{id:[0-9]+}/restock", r.productHandler.RestockStock).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	var h http.Handler = r.router
	h = r.corsMiddleware.Handle(h)
	h = r.loggingMiddleware.Recover(h)
	h = r.loggingMiddleware.Handle(h)
	return h
}
