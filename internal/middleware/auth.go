package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/projethon/projethon/db"
	"github.com/projethon/projethon/internal/auth"
	"github.com/projethon/projethon/internal/models"
	"github.com/projethon/projethon/internal/types"
)

type AuthenticatedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthMiddleware rejects requests without a valid bearer token and places
// the caller's identity in the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := bearerToken(ctx)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		user, ok := resolveToken(ctx, tokenString)

		if !ok {
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// resolveToken verifies the token and loads the account it names. Aborts
// the request and returns false on any failure.
func resolveToken(ctx *gin.Context, tokenString string) (AuthenticatedUser, bool) {
	token, err := auth.VerifyJWT(tokenString)

	if err != nil || !token.Valid {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return AuthenticatedUser{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return AuthenticatedUser{}, false
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return AuthenticatedUser{}, false
	}

	conn, err := db.Conn()

	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "database is unavailable"})
		return AuthenticatedUser{}, false
	}

	var user models.User

	if err := conn.Where("id = ?", uint(userIDFloat)).First(&user).Error; err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return AuthenticatedUser{}, false
	}

	return AuthenticatedUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, true
}
