package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	userRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/user"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/gin-gonic/gin"
)

const authCacheTTL = 5 * time.Minute

// authCacheEntry is the account state the middleware needs per request,
// cheap enough to keep in Redis so every call does not hit Mongo.
type authCacheEntry struct {
	TokenHash string `json:"tokenHash"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
}

// JWTAuthMiddleware authenticates any logged-in user and puts userID, email
// and role into the gin context. The stored token hash is rotated on logout,
// so a stale token is rejected even if its signature still verifies.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, email, _, err := utils.ExtractClaimsFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		entry, ok := cachedAuth(c.Request.Context(), subject)
		if !ok {
			user, err := users.GetByID(c.Request.Context(), subject)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
				return
			}
			entry = authCacheEntry{TokenHash: user.TokenHash, Role: string(user.Role), Active: user.IsActive}
			storeAuth(c.Request.Context(), subject, entry)
		}

		if !entry.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account inactive"})
			return
		}
		if entry.TokenHash == "" || entry.TokenHash != utils.HashToken(tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token revoked"})
			return
		}

		c.Set("userID", subject)
		c.Set("email", email)
		c.Set("role", entry.Role)
		c.Next()
	}
}

func authCacheKey(userID string) string {
	return "auth:user:" + userID
}

func cachedAuth(ctx context.Context, userID string) (authCacheEntry, bool) {
	raw, err := utils.GetAuthCacheClient().Get(ctx, authCacheKey(userID)).Result()
	if err != nil {
		return authCacheEntry{}, false
	}
	var entry authCacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return authCacheEntry{}, false
	}
	return entry, true
}

func storeAuth(ctx context.Context, userID string, entry authCacheEntry) {
	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	utils.GetAuthCacheClient().Set(ctx, authCacheKey(userID), b, authCacheTTL)
}

// InvalidateAuthCache drops the cached auth state so a login or logout takes
// effect immediately.
func InvalidateAuthCache(ctx context.Context, userID string) {
	utils.GetAuthCacheClient().Del(ctx, authCacheKey(userID))
}
