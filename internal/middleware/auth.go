package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/pkg/response"
)

const (
	ContextUserIDKey = "user_id"
	ContextUserKey   = "user"
)

// UserFinder returns nil, nil when the user does not exist.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// NewJWTAuth 校验 Bearer token 并把当前用户注入上下文
func NewJWTAuth(jwtManager *JWTManager, users UserFinder, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c.GetHeader("Authorization"))
		if tokenStr == "" {
			response.Fail(c, http.StatusUnauthorized, "Not authorized, no token provided")
			return
		}

		userID, err := jwtManager.ParseToken(tokenStr)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				response.Fail(c, http.StatusUnauthorized, "Token expired")
				return
			}
			response.Fail(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		if user == nil {
			response.Fail(c, http.StatusUnauthorized, "User not found")
			return
		}
		if !user.IsActive {
			response.Fail(c, http.StatusUnauthorized, "User account is deactivated")
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func GetUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// CurrentUser 未经过认证中间件时返回 nil
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
