package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pipespec/internal/app/apperr"
	"pipespec/internal/app/auth"
	"pipespec/internal/app/config"
	"pipespec/internal/app/ds"
	"pipespec/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBlacklist struct {
	revoked map[string]bool
	err     error
}

func (b stubBlacklist) CheckJWTInBlacklist(_ context.Context, token string) (bool, error) {
	return b.revoked[token], b.err
}

type stubAccounts struct {
	deleted map[uint]bool
	err     error
}

func (a stubAccounts) Profile(_ context.Context, userID uint) (*ds.User, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.deleted[userID] {
		return nil, apperr.ErrNotFoundOrDenied
	}
	return &ds.User{ID: userID}, nil
}

func newTokens() *auth.TokenManager {
	return auth.NewTokenManager(config.JWTConfig{Token: "mw-secret", ExpiresIn: time.Hour, Issuer: "test"})
}

func issue(t *testing.T, tokens *auth.TokenManager, id uint, r role.Role) string {
	t.Helper()
	user := &ds.User{ID: id, Email: "u@example.com", Role: r}
	token, _, err := tokens.Issue(user)
	require.NoError(t, err)
	return token
}

func newRouter(am *AuthMiddleware, roles ...role.Role) *gin.Engine {
	r := gin.New()
	r.GET("/private", am.WithAuthCheck(roles...), func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role})
	})
	return r
}

func request(r *gin.Engine, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWithAuthCheck(t *testing.T) {
	tokens := newTokens()
	userToken := issue(t, tokens, 1, role.User)
	adminToken := issue(t, tokens, 2, role.Admin)
	revokedToken := issue(t, tokens, 3, role.User)

	bl := stubBlacklist{revoked: map[string]bool{}}
	anyRole := newRouter(NewAuthMiddleware(tokens, bl, nil, "auth_token"))
	adminOnly := newRouter(NewAuthMiddleware(tokens, bl, nil, "auth_token"), role.Admin)

	tests := []struct {
		name   string
		router *gin.Engine
		setup  func(*http.Request)
		status int
	}{
		{name: "no token", router: anyRole, status: http.StatusUnauthorized},
		{
			name:   "bearer",
			router: anyRole,
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+userToken) },
			status: http.StatusOK,
		},
		{
			name:   "cookie",
			router: anyRole,
			setup:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "auth_token", Value: userToken}) },
			status: http.StatusOK,
		},
		{
			name:   "garbage",
			router: anyRole,
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
			status: http.StatusUnauthorized,
		},
		{
			name:   "role mismatch",
			router: adminOnly,
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+userToken) },
			status: http.StatusForbidden,
		},
		{
			name:   "admin",
			router: adminOnly,
			setup:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+adminToken) },
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(tt.router, tt.setup)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	bl.revoked[revokedToken] = true
	w := request(anyRole, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+revokedToken) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithAuthCheckBlacklistFailure(t *testing.T) {
	tokens := newTokens()
	token := issue(t, tokens, 1, role.User)
	r := newRouter(NewAuthMiddleware(tokens, stubBlacklist{err: errors.New("redis down")}, nil, "auth_token"))

	w := request(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWithAuthCheckDeletedAccount(t *testing.T) {
	tokens := newTokens()
	live := issue(t, tokens, 1, role.User)
	deleted := issue(t, tokens, 2, role.User)
	bl := stubBlacklist{}

	r := newRouter(NewAuthMiddleware(tokens, bl, stubAccounts{deleted: map[uint]bool{2: true}}, "auth_token"))

	w := request(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+live) })
	assert.Equal(t, http.StatusOK, w.Code)
	w = request(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+deleted) })
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	broken := newRouter(NewAuthMiddleware(tokens, bl, stubAccounts{err: errors.New("db down")}, "auth_token"))
	w = request(broken, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+live) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
