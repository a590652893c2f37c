package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sequence-server/internal/models"
)

// TokenVerifier - сигнатура функции проверки токена (authutils.JWTVerifier.VerifyToken).
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// AuthMiddleware проверяет Bearer-токен и кладет UserID и роли в контекст
// запроса. Невалидный токен обрывает запрос с 401.
func AuthMiddleware(verify TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("AuthMiddleware")
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing", zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c, "Authorization header missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			abortUnauthorized(c, "Invalid Authorization header format")
			return
		}

		claims, err := verify(c.Request.Context(), parts[1])
		if err != nil {
			log.Warn("Token verification failed", zap.Error(err))
			if errors.Is(err, models.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
					Code: models.ErrCodeTokenExpired, Message: "Token has expired",
				})
				return
			}
			abortUnauthorized(c, "Token is invalid")
			return
		}

		// Кладем данные и в gin-контекст, и в request context:
		// сервисный слой читает их через models.GetUserIDFromContext.
		c.Set(string(models.UserContextKey), claims.UserID)
		ctx := context.WithValue(c.Request.Context(), models.UserContextKey, claims.UserID)
		ctx = context.WithValue(ctx, models.RolesContextKey, claims.Roles)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetUserID извлекает UserID, установленный AuthMiddleware.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(string(models.UserContextKey))
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Code: models.ErrCodeTokenInvalid, Message: message,
	})
}
