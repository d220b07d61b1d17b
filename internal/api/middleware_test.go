package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitcoach/workout-api/internal/domain"
	"fitcoach/workout-api/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthService backs the middleware with a real token manager; the
// credential operations are not under test here.
type stubAuthService struct {
	tokens *token.Manager
}

func (s *stubAuthService) Register(context.Context, string, string, domain.Role) (*domain.User, error) {
	panic("not used")
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	panic("not used")
}

func (s *stubAuthService) VerifyToken(tokenString string) (token.Identity, error) {
	return s.tokens.Verify(tokenString)
}

func newAuthTestRouter(t *testing.T, roles ...domain.Role) (*gin.Engine, *token.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := token.NewManager("test-secret", time.Hour)
	router := gin.New()

	handlers := []gin.HandlerFunc{AuthMiddleware(&stubAuthService{tokens: tokens})}
	if len(roles) > 0 {
		handlers = append(handlers, RoleMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		identity, err := getIdentityFromContext(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"userId": identity.UserID, "role": identity.Role})
	})
	router.GET("/secure", handlers...)
	return router, tokens
}

func doSecureRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := doSecureRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadFormat(t *testing.T) {
	router, tokens := newAuthTestRouter(t)
	tok, err := tokens.Issue(token.Identity{UserID: "u1", Email: "a@x.com", Role: domain.RoleClient})
	require.NoError(t, err)

	w := doSecureRequest(router, tok) // no "Bearer " prefix
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := doSecureRequest(router, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router, tokens := newAuthTestRouter(t)
	tok, err := tokens.Issue(token.Identity{UserID: "u1", Email: "a@x.com", Role: domain.RoleClient})
	require.NoError(t, err)

	w := doSecureRequest(router, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"u1"`)
}

func TestRoleMiddleware(t *testing.T) {
	router, tokens := newAuthTestRouter(t, domain.RoleTrainer)

	clientTok, err := tokens.Issue(token.Identity{UserID: "u1", Email: "c@x.com", Role: domain.RoleClient})
	require.NoError(t, err)
	trainerTok, err := tokens.Issue(token.Identity{UserID: "u2", Email: "t@x.com", Role: domain.RoleTrainer})
	require.NoError(t, err)

	w := doSecureRequest(router, "Bearer "+clientTok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doSecureRequest(router, "Bearer "+trainerTok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind domain.ErrorKind
		want int
	}{
		{domain.KindInvalidInput, http.StatusBadRequest},
		{domain.KindUnauthenticated, http.StatusUnauthorized},
		{domain.KindForbidden, http.StatusForbidden},
		{domain.KindNotFound, http.StatusNotFound},
		{domain.KindConflict, http.StatusConflict},
		{domain.KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForKind(tt.kind), string(tt.kind))
	}
}
