package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fitcoach/workout-api/internal/domain"
	"fitcoach/workout-api/internal/service"
	"fitcoach/workout-api/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// scriptedAuthService returns canned results for handler tests.
type scriptedAuthService struct {
	registerUser *domain.User
	registerErr  error
	loginToken   string
	loginUser    *domain.User
	loginErr     error
}

func (s *scriptedAuthService) Register(context.Context, string, string, domain.Role) (*domain.User, error) {
	return s.registerUser, s.registerErr
}

func (s *scriptedAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	return s.loginToken, s.loginUser, s.loginErr
}

func (s *scriptedAuthService) VerifyToken(string) (token.Identity, error) {
	return token.Identity{}, domain.NewUnauthenticated("invalid token")
}

func newAuthHandlerRouter(svc service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(svc)
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register_Created(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID(), Email: "a@x.com", Role: domain.RoleClient}
	router := newAuthHandlerRouter(&scriptedAuthService{registerUser: user})

	w := postJSON(router, "/register", `{"email":"a@x.com","password":"secret-password","role":"CLIENT"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"a@x.com"`)
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	router := newAuthHandlerRouter(&scriptedAuthService{})

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email","password":"secret-password","role":"CLIENT"}`},
		{"short password", `{"email":"a@x.com","password":"short","role":"CLIENT"}`},
		{"bad role", `{"email":"a@x.com","password":"secret-password","role":"ADMIN"}`},
		{"missing fields", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	router := newAuthHandlerRouter(&scriptedAuthService{registerErr: service.ErrUserAlreadyExists})

	w := postJSON(router, "/register", `{"email":"a@x.com","password":"secret-password","role":"CLIENT"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestAuthHandler_Login_OK(t *testing.T) {
	user := &domain.User{ID: primitive.NewObjectID(), Email: "a@x.com", Role: domain.RoleTrainer}
	router := newAuthHandlerRouter(&scriptedAuthService{loginToken: "signed-token", loginUser: user})

	w := postJSON(router, "/login", `{"email":"a@x.com","password":"secret-password"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"signed-token"`)
}

func TestAuthHandler_Login_Unauthenticated(t *testing.T) {
	router := newAuthHandlerRouter(&scriptedAuthService{loginErr: service.ErrAuthenticationFailed})

	w := postJSON(router, "/login", `{"email":"a@x.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")
}
