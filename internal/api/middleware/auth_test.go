package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-progress/internal/api/shared"
	"github.com/phrazzld/lingo-progress/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockJWTService is a mock implementation of auth.JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(ctx context.Context, studentID uuid.UUID) (string, error) {
	args := m.Called(ctx, studentID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	studentID := uuid.New()

	tests := []struct {
		name              string
		authHeader        string
		token             string
		validateErr       error
		claims            *auth.Claims
		expectedStatus    int
		expectedStudentID uuid.UUID
	}{
		{
			name:              "valid token",
			authHeader:        "Bearer valid-token",
			token:             "valid-token",
			claims:            &auth.Claims{StudentID: studentID},
			expectedStatus:    http.StatusOK,
			expectedStudentID: studentID,
		},
		{
			name:              "scheme is case insensitive",
			authHeader:        "bearer valid-token",
			token:             "valid-token",
			claims:            &auth.Claims{StudentID: studentID},
			expectedStatus:    http.StatusOK,
			expectedStudentID: studentID,
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			token:          "expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			token:          "invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer some-token",
			token:          "some-token",
			validateErr:    errors.New("key store offline"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &MockJWTService{}
			if tt.token != "" {
				jwtService.On("ValidateToken", mock.Anything, tt.token).Return(tt.claims, tt.validateErr)
			}

			var gotStudentID uuid.UUID
			handler := NewAuthMiddleware(jwtService).Authenticate(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gotStudentID, _ = shared.StudentIDFromContext(r.Context())
					w.WriteHeader(http.StatusOK)
				}),
			)

			req := httptest.NewRequest(http.MethodGet, "/api/adaptive/state", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedStudentID, gotStudentID)
			jwtService.AssertExpectations(t)
		})
	}
}

func TestNewAuthMiddleware_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewAuthMiddleware(nil) })
}
