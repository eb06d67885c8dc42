package response

import (
	"encoding/json"
	"net/http"
	"time"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta describes one page of a zero-based paginated listing.
type Meta struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// ErrorBody is the shape of every non-2xx response.
type ErrorBody struct {
	Timestamp   time.Time         `json:"timestamp"`
	Status      int               `json:"status"`
	Error       string            `json:"error"`
	Message     string            `json:"message"`
	Path        string            `json:"path"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(w http.ResponseWriter, statusCode int, message string, data interface{}, meta *Meta) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an ErrorBody. label is the short error name, message the detail.
func Error(w http.ResponseWriter, r *http.Request, statusCode int, label, message string) {
	JSON(w, statusCode, newErrorBody(r, statusCode, label, message))
}

func newErrorBody(r *http.Request, statusCode int, label, message string) ErrorBody {
	path := ""
	if r != nil {
		path = r.URL.Path
	}
	return ErrorBody{
		Timestamp: time.Now().UTC(),
		Status:    statusCode,
		Error:     label,
		Message:   message,
		Path:      path,
	}
}

func ValidationError(w http.ResponseWriter, r *http.Request, fieldErrors map[string]string) {
	body := newErrorBody(r, http.StatusBadRequest, "Validation Failed", "Invalid input data")
	body.FieldErrors = fieldErrors
	JSON(w, http.StatusBadRequest, body)
}

func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusBadRequest, "Bad Request", message)
}

func Unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, r, http.StatusUnauthorized, "Unauthorized", message)
}

func Forbidden(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, r, http.StatusForbidden, "Forbidden", message)
}

func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, r, http.StatusNotFound, "Resource Not Found", message)
}

func Conflict(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusConflict, "Conflict", message)
}

// InternalServerError never exposes the cause; log it before calling.
func InternalServerError(w http.ResponseWriter, r *http.Request) {
	Error(w, r, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
}
