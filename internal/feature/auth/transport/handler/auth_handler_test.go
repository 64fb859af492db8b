package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"parking_control/internal/feature/auth/usecase"
	jwtmw "parking_control/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	SignupFunc func(ctx context.Context, username, password string) error
	LoginFunc  func(ctx context.Context, username, password string) (string, error)
	LogoutFunc func(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// Signup is the mock implementation of the Signup method.
func (m *mockAuthUsecase) Signup(ctx context.Context, username, password string) error {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, username, password)
	}
	return nil // Default: success
}

// Login is the mock implementation of the Login method.
func (m *mockAuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return "", usecase.ErrInvalidCredentials // Default: failure
}

// Logout is the mock implementation of the Logout method.
func (m *mockAuthUsecase) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, tokenID, expiresAt)
	}
	return nil
}

func postJSON(router *gin.Engine, path string, body gin.H) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    gin.H
		mockSignupFunc func(ctx context.Context, username, password string) error
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:           "success: user registration",
			requestBody:    gin.H{"username": "alice", "password": "password123"},
			mockSignupFunc: func(ctx context.Context, username, password string) error { return nil },
			expectedStatus: http.StatusCreated,
			expectedBody:   gin.H{"message": "ok"},
		},
		{
			name:           "failure: missing username",
			requestBody:    gin.H{"password": "password123"},
			mockSignupFunc: nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "Key: 'SignupReq.Username' Error:Field validation for 'Username' failed on the 'required' tag"},
		},
		{
			name:           "failure: short password",
			requestBody:    gin.H{"username": "alice", "password": "short"},
			mockSignupFunc: nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "Key: 'SignupReq.Password' Error:Field validation for 'Password' failed on the 'min' tag"},
		},
		{
			name:        "failure: weak password (usecase error)",
			requestBody: gin.H{"username": "alice", "password": "password123"},
			mockSignupFunc: func(ctx context.Context, username, password string) error {
				return usecase.ErrWeakPassword
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "password too weak"},
		},
		{
			name:        "failure: duplicate username (usecase error)",
			requestBody: gin.H{"username": "existing", "password": "password123"},
			mockSignupFunc: func(ctx context.Context, username, password string) error {
				return usecase.ErrUsernameAlreadyExists
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   gin.H{"error": "signup failed"},
		},
		{
			name:        "failure: storage error",
			requestBody: gin.H{"username": "alice", "password": "password123"},
			mockSignupFunc: func(ctx context.Context, username, password string) error {
				return errors.New("connection refused")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{SignupFunc: tt.mockSignupFunc}
			handler := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/signup", handler.Signup)

			w := postJSON(router, "/signup", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			err := json.Unmarshal(w.Body.Bytes(), &responseBody)
			assert.NoError(t, err)

			// Error messages include Gin validation error details, so check partial match
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Contains(t, responseBody["error"], tt.expectedBody["error"])
			} else {
				assert.Equal(t, tt.expectedBody, responseBody)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    gin.H
		mockLoginFunc  func(ctx context.Context, username, password string) (string, error)
		expectedStatus int
		expectedBody   gin.H
	}{
		{
			name:           "success: user login",
			requestBody:    gin.H{"username": "admin", "password": "password123"},
			mockLoginFunc:  func(ctx context.Context, username, password string) (string, error) { return "dummy-jwt-token", nil },
			expectedStatus: http.StatusOK,
			expectedBody:   gin.H{"token": "dummy-jwt-token"},
		},
		{
			name:           "failure: missing password",
			requestBody:    gin.H{"username": "admin"},
			mockLoginFunc:  nil, // Usecase is not called
			expectedStatus: http.StatusBadRequest,
			expectedBody:   gin.H{"error": "Key: 'LoginReq.Password' Error:Field validation for 'Password' failed on the 'required' tag"},
		},
		{
			name:        "failure: invalid credentials (usecase error)",
			requestBody: gin.H{"username": "admin", "password": "wrong-password"},
			mockLoginFunc: func(ctx context.Context, username, password string) (string, error) {
				return "", usecase.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   gin.H{"error": "invalid username or password"},
		},
		{
			name:        "failure: token signing error is hidden",
			requestBody: gin.H{"username": "admin", "password": "password123"},
			mockLoginFunc: func(ctx context.Context, username, password string) (string, error) {
				return "", errors.New("failed to generate token: key is invalid")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   gin.H{"error": "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockAuthUsecase{LoginFunc: tt.mockLoginFunc}
			handler := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/login", handler.Login)

			w := postJSON(router, "/login", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var responseBody gin.H
			err := json.Unmarshal(w.Body.Bytes(), &responseBody)
			assert.NoError(t, err)

			if tt.expectedStatus == http.StatusBadRequest {
				assert.Contains(t, responseBody["error"], tt.expectedBody["error"])
			} else {
				assert.Equal(t, tt.expectedBody, responseBody)
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		tokenID        string
		setExpiry      bool
		logoutErr      error
		expectedStatus int
	}{
		{name: "success", tokenID: "jti-1", setExpiry: true, expectedStatus: http.StatusOK},
		{name: "no token data in context", expectedStatus: http.StatusUnauthorized},
		{name: "token without id", setExpiry: true, logoutErr: usecase.ErrTokenNotRevocable, expectedStatus: http.StatusBadRequest},
		{name: "blocklist error", tokenID: "jti-1", setExpiry: true, logoutErr: errors.New("redis down"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			var gotExpiry time.Time
			mockUC := &mockAuthUsecase{
				LogoutFunc: func(ctx context.Context, tokenID string, expiresAt time.Time) error {
					gotID, gotExpiry = tokenID, expiresAt
					return tt.logoutErr
				},
			}
			handler := NewAuthHandler(mockUC)

			router := gin.New()
			router.POST("/logout", func(c *gin.Context) {
				c.Set(jwtmw.ContextTokenID, tt.tokenID)
				if tt.setExpiry {
					c.Set(jwtmw.ContextTokenExpiry, expiry)
				}
				c.Next()
			}, handler.Logout)

			w := postJSON(router, "/logout", nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"message":"logged out"}`, w.Body.String())
				assert.Equal(t, "jti-1", gotID)
				assert.True(t, expiry.Equal(gotExpiry))
			}
		})
	}
}
