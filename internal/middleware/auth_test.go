package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/pkg/logger"
)

func authRouter(jwtManager *JWTManager, users fakeUsers, gates ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{NewJWTAuth(jwtManager, users, logger.Discard())}, gates...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c).String(), "username": CurrentUser(c).Username})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestJWTAuth(t *testing.T) {
	jwtManager := NewJWTManager("secret", time.Hour)
	active := &models.User{ID: uuid.New(), Username: "alice", Role: models.RoleUser, IsActive: true}
	inactive := &models.User{ID: uuid.New(), Username: "gone", Role: models.RoleUser}
	users := fakeUsers{active.ID: active, inactive.ID: inactive}
	router := authRouter(jwtManager, users)

	token := func(id uuid.UUID) string {
		s, err := jwtManager.GenerateToken(id)
		require.NoError(t, err)
		return s
	}
	expired, err := NewJWTManager("secret", -time.Minute).GenerateToken(active.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		status  int
		message string
	}{
		{"missing token", "", http.StatusUnauthorized, "Not authorized, no token provided"},
		{"garbage token", "garbage", http.StatusUnauthorized, "Not authorized, token failed"},
		{"expired token", expired, http.StatusUnauthorized, "Token expired"},
		{"unknown user", token(uuid.New()), http.StatusUnauthorized, "User not found"},
		{"deactivated user", token(inactive.ID), http.StatusUnauthorized, "User account is deactivated"},
		{"active user", token(active.ID), http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodGet, "/protected", tt.token)
			assert.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				body := decode(t, w)
				assert.False(t, body.Success)
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestRoleGates(t *testing.T) {
	jwtManager := NewJWTManager("secret", time.Hour)
	user := &models.User{ID: uuid.New(), Username: "u", Role: models.RoleUser, IsActive: true}
	admin := &models.User{ID: uuid.New(), Username: "a", Role: "ADMIN ", IsActive: true}
	owner := &models.User{ID: uuid.New(), Username: "o", Role: models.RoleOwner, IsActive: true}
	odd := &models.User{ID: uuid.New(), Username: "x", Role: "superuser", IsActive: true}
	users := fakeUsers{user.ID: user, admin.ID: admin, owner.ID: owner, odd.ID: odd}

	tokens := map[string]string{}
	for name, u := range map[string]*models.User{"user": user, "admin": admin, "owner": owner, "odd": odd} {
		s, err := jwtManager.GenerateToken(u.ID)
		require.NoError(t, err)
		tokens[name] = s
	}

	tests := []struct {
		name   string
		gate   gin.HandlerFunc
		caller string
		status int
	}{
		{"admin gate rejects user", IsAdmin(), "user", http.StatusForbidden},
		{"admin gate admits admin", IsAdmin(), "admin", http.StatusOK},
		{"admin gate admits owner", IsAdmin(), "owner", http.StatusOK},
		{"owner gate rejects admin", IsOwner(), "admin", http.StatusForbidden},
		{"owner gate admits owner", IsOwner(), "owner", http.StatusOK},
		{"require admin rejects unknown role", RequireRole(models.RoleAdmin), "odd", http.StatusForbidden},
		{"require user rejects unknown role", RequireRole(models.RoleUser), "odd", http.StatusForbidden},
		{"authorize exact set excludes owner", Authorize(models.RoleAdmin), "owner", http.StatusForbidden},
		{"authorize exact set admits member", Authorize(models.RoleUser, models.RoleOwner), "owner", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(authRouter(jwtManager, users, tt.gate), http.MethodGet, "/protected", tokens[tt.caller])
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRoleGateMessages(t *testing.T) {
	jwtManager := NewJWTManager("secret", time.Hour)
	user := &models.User{ID: uuid.New(), Username: "u", Role: models.RoleUser, IsActive: true}
	token, err := jwtManager.GenerateToken(user.ID)
	require.NoError(t, err)
	users := fakeUsers{user.ID: user}

	w := do(authRouter(jwtManager, users, RequireRole(models.RoleAdmin)), http.MethodGet, "/protected", token)
	assert.Equal(t, "User role 'user' is not authorized to access this route", decode(t, w).Message)

	w = do(authRouter(jwtManager, users, IsAdmin()), http.MethodGet, "/protected", token)
	assert.Equal(t, "Access denied. Admin privileges required.", decode(t, w).Message)

	w = do(authRouter(jwtManager, users, IsOwner()), http.MethodGet, "/protected", token)
	assert.Equal(t, "Access denied. Owner privileges required.", decode(t, w).Message)
}

func TestRoleGateWithoutAuthenticatedUser(t *testing.T) {
	r := gin.New()
	r.GET("/admin", IsAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
