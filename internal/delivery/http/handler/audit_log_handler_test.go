package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"product-catalog/internal/delivery/dto"
	"product-catalog/internal/usecase"
	"product-catalog/pkg/response"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuditLogUsecase is a mock implementation of usecase.AuditLogUsecase.
type MockAuditLogUsecase struct {
	mock.Mock
}

func (m *MockAuditLogUsecase) GetAllAuditLogs(ctx context.Context, action string, page, size int) (*dto.AuditLogListResponse, error) {
	args := m.Called(ctx, action, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuditLogListResponse), args.Error(1)
}

func (m *MockAuditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuditLogResponse), args.Error(1)
}

func TestAuditLogHandler(t *testing.T) {
	uc := new(MockAuditLogUsecase)
	uc.On("GetAllAuditLogs", mock.Anything, "product.stock", 0, 20).Return(&dto.AuditLogListResponse{
		Logs:  []dto.AuditLogResponse{{ID: 7, Action: "product.stock.reserve"}},
		Total: 1,
	}, nil)
	uc.On("GetAllAuditLogs", mock.Anything, "", 1, 2).Return(&dto.AuditLogListResponse{
		Logs:  []dto.AuditLogResponse{{ID: 3, Action: "product.update"}, {ID: 2, Action: "product.create"}},
		Total: 5,
	}, nil)
	uc.On("GetAuditLog", mock.Anything, int64(3)).Return(&dto.AuditLogResponse{ID: 3, Action: "product.update"}, nil)
	uc.On("GetAuditLog", mock.Anything, int64(4)).Return(nil, usecase.ErrAuditLogNotFound)

	h := NewAuditLogHandler(uc, newTestLogger())
	r := mux.NewRouter()
	r.HandleFunc("/admin/audit-logs", h.GetAllAuditLogs).Methods(http.MethodGet)
	r.HandleFunc("/admin/audit-logs/{id}", h.GetAuditLog).Methods(http.MethodGet)

	w := serve(r, http.MethodGet, "/admin/audit-logs?page=1&size=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []dto.AuditLogResponse `json:"data"`
		Meta response.Meta          `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 3, body.Meta.TotalPages)

	w = serve(r, http.MethodGet, "/admin/audit-logs?action=product.stock", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "product.stock.reserve", body.Data[0].Action)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin/audit-logs/3", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/admin/audit-logs/4", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodGet, "/admin/audit-logs/x", "").Code)

	uc.AssertExpectations(t)
}
