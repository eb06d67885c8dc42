package handler

import (
	"errors"
	"net/http"
	"strconv"

	"product-catalog/internal/usecase"
	"product-catalog/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	log             *logrus.Logger
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, log *logrus.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		log:             log,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	auditLogID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, r, "Invalid audit log ID")
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		if errors.Is(err, usecase.ErrAuditLogNotFound) {
			response.NotFound(w, r, "Audit log not found")
			return
		}
		h.log.Errorf("Failed to get audit log: %+v", err)
		response.InternalServerError(w, r)
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// GetAllAuditLogs lists newest entries first, ?page= (zero-based) and ?size=.
// ?action= narrows the list to one action or an action prefix such as
// product.stock.
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	auditLogs, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), r.URL.Query().Get("action"), page.Page, page.Size)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidPageRequest) {
			response.BadRequest(w, r, err.Error())
			return
		}
		h.log.Errorf("Failed to get audit logs: %+v", err)
		response.InternalServerError(w, r)
		return
	}

	totalPages := int(auditLogs.Total) / page.Size
	if int(auditLogs.Total)%page.Size > 0 {
		totalPages++
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs.Logs, &response.Meta{
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: auditLogs.Total,
		TotalPages:    totalPages,
	})
}
