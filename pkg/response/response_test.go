package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()

	SuccessWithMeta(rec, http.StatusOK, "ok", []string{"a"}, &Meta{Page: 1, Size: 2, TotalElements: 3, TotalPages: 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["totalElements"])
	assert.Equal(t, float64(2), meta["totalPages"])
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter, r *http.Request)
		wantStatus int
		wantLabel  string
		wantMsg    string
	}{
		{
			name:       "not found",
			write:      func(w http.ResponseWriter, r *http.Request) { NotFound(w, r, "Product not found with id: 7") },
			wantStatus: http.StatusNotFound,
			wantLabel:  "Resource Not Found",
			wantMsg:    "Product not found with id: 7",
		},
		{
			name:       "bad request",
			write:      func(w http.ResponseWriter, r *http.Request) { BadRequest(w, r, "Quantity must be positive") },
			wantStatus: http.StatusBadRequest,
			wantLabel:  "Bad Request",
			wantMsg:    "Quantity must be positive",
		},
		{
			name:       "internal error hides detail",
			write:      func(w http.ResponseWriter, r *http.Request) { InternalServerError(w, r) },
			wantStatus: http.StatusInternalServerError,
			wantLabel:  "Internal Server Error",
			wantMsg:    "An unexpected error occurred",
		},
		{
			name:       "unauthorized default message",
			write:      func(w http.ResponseWriter, r *http.Request) { Unauthorized(w, r, "") },
			wantStatus: http.StatusUnauthorized,
			wantLabel:  "Unauthorized",
			wantMsg:    "Unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/7", nil)

			tt.write(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantLabel, body.Error)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, "/api/v1/products/7", body.Path)
			assert.False(t, body.Timestamp.IsZero())
			assert.Nil(t, body.FieldErrors)
		})
	}
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)

	ValidationError(rec, req, map[string]string{"name": "name is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation Failed", body.Error)
	assert.Equal(t, "name is required", body.FieldErrors["name"])
}
