package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"product-catalog/internal/delivery/dto"
	"product-catalog/internal/delivery/http/middleware"
	"product-catalog/internal/usecase"
	"product-catalog/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthUsecase is a mock implementation of usecase.AuthUsecase.
type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, refreshToken string) error {
	args := m.Called(ctx, userID, accessTokenID, refreshToken)
	return args.Error(0)
}

func (m *MockAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockAuthUsecase) EnsureAdmin(ctx context.Context, email, password, fullName string) error {
	args := m.Called(ctx, email, password, fullName)
	return args.Error(0)
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockError      error
		expectUsecase  bool
		expectedStatus int
	}{
		{name: "Success", body: `{"email":"jane@example.com","password":"password123","fullName":"Jane"}`, expectUsecase: true, expectedStatus: http.StatusCreated},
		{name: "Duplicate email", body: `{"email":"jane@example.com","password":"password123","fullName":"Jane"}`, mockError: usecase.ErrEmailAlreadyExists, expectUsecase: true, expectedStatus: http.StatusConflict},
		{name: "Short password", body: `{"email":"jane@example.com","password":"short","fullName":"Jane"}`, expectedStatus: http.StatusBadRequest},
		{name: "Invalid email", body: `{"email":"jane","password":"password123","fullName":"Jane"}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockAuthUsecase)
			if tt.expectUsecase {
				if tt.mockError != nil {
					uc.On("Register", mock.Anything, mock.Anything).Return(nil, tt.mockError)
				} else {
					uc.On("Register", mock.Anything, mock.Anything).Return(&dto.UserResponse{Email: "jane@example.com", Role: "customer"}, nil)
				}
			}
			h := NewAuthHandler(uc, validator.NewValidator(), newTestLogger())

			w := httptest.NewRecorder()
			h.Register(w, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
			uc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_LoginAndRefresh(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("Login", mock.Anything, mock.MatchedBy(func(req *dto.LoginRequest) bool { return req.Password == "password123" })).
		Return(&dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}, nil)
	uc.On("Login", mock.Anything, mock.Anything).Return(nil, usecase.ErrInvalidCredentials)
	uc.On("RefreshToken", mock.Anything, mock.Anything).Return(nil, usecase.ErrTokenRevoked)
	h := NewAuthHandler(uc, validator.NewValidator(), newTestLogger())

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"jane@example.com","password":"password123"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accessToken":"a"`)

	w = httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"jane@example.com","password":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.RefreshToken(w, httptest.NewRequest(http.MethodPost, "/auth/refresh-token", strings.NewReader(`{"refreshToken":"old"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.RefreshToken(w, httptest.NewRequest(http.MethodPost, "/auth/refresh-token", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LogoutAndMe(t *testing.T) {
	userID := uuid.New()
	uc := new(MockAuthUsecase)
	uc.On("Logout", mock.Anything, userID, "token-1", "").Return(nil)
	uc.On("GetCurrentUser", mock.Anything, userID).Return(nil, errors.New("db down"))
	h := NewAuthHandler(uc, validator.NewValidator(), newTestLogger())

	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.TokenIDKey, "token-1")

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil).WithContext(ctx))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.GetCurrentUser(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil).WithContext(ctx))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	uc.AssertExpectations(t)
}
