package middleware

import (
	"backend/internal/app/config"
	"backend/internal/app/ds"
	"backend/internal/app/redis"
	"backend/internal/app/role"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

type AuthMiddleware struct {
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthMiddleware(redisClient *redis.Client, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// WithAuthCheck проверяет Bearer-токен и роль участника.
// Валидный токен превращается в request-scoped Principal в контексте.
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return gin.HandlerFunc(func(gCtx *gin.Context) {
		jwtStr := gCtx.GetHeader("Authorization")
		if jwtStr == "" {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if strings.HasPrefix(jwtStr, "Bearer ") {
			jwtStr = jwtStr[len("Bearer "):]
		}

		// Токены, отозванные через logout, лежат в blacklist Redis
		if am.RedisClient != nil {
			err := am.RedisClient.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr)
			if err == nil {
				gCtx.AbortWithStatus(http.StatusUnauthorized)
				return
			}
		}

		token, err := am.parseJWTToken(jwtStr)
		if err != nil {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(*ds.JWTClaims)
		if !ok || !token.Valid {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if len(assignedRoles) > 0 && !am.hasRequiredRole(claims.Role, assignedRoles) {
			gCtx.AbortWithStatus(http.StatusForbidden)
			return
		}

		setPrincipal(gCtx, &Principal{
			ID:          claims.UserID,
			DisplayName: claims.DisplayName,
			Role:        claims.Role,
		})

		gCtx.Next()
	})
}

func (am *AuthMiddleware) parseJWTToken(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(am.Config.JWT.Token), nil
	})
}

func (am *AuthMiddleware) hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}
