package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mycoach-backend/internal/pkg/ctxutil"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/services"
)

// AuthMiddleware guards /api/* with a bearer token: either the static API
// token or a JWT minted by the token exchange. On success the deployment's
// user id is attached to the request context.
type AuthMiddleware struct {
	log    *logger.Logger
	tokens services.TokenService
	userID uuid.UUID
}

func NewAuthMiddleware(log *logger.Logger, tokens services.TokenService, userID uuid.UUID) *AuthMiddleware {
	return &AuthMiddleware{
		log:    log.With("middleware", "AuthMiddleware"),
		tokens: tokens,
		userID: userID,
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		if err := am.tokens.VerifyBearer(tokenString); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: am.userID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// extractToken allows ?token= for EventSource clients that cannot set
// headers.
func extractToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
