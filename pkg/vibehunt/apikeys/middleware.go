package apikeys

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/vibehunt/pkg/vibehunt/auth"
	"github.com/mikepea/vibehunt/pkg/vibehunt/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errInvalidCredentials = errors.New("invalid credentials")

// resolveIdentity authenticates a bearer token that is either a JWT or an API key.
// JWTs contain dots, API keys are hex strings without dots.
func resolveIdentity(db *gorm.DB, logger *zap.Logger, token string) (auth.Identity, error) {
	if strings.Contains(token, ".") {
		claims, err := auth.ValidateToken(token)
		if err != nil {
			return auth.Identity{}, err
		}
		return auth.Identity{UserID: claims.UserID, Email: claims.Email, SystemRole: claims.SystemRole}, nil
	}

	apiKey, err := ValidateAPIKey(db, token)
	if err != nil {
		return auth.Identity{}, errInvalidCredentials
	}

	var user models.User
	if err := db.First(&user, apiKey.UserID).Error; err != nil {
		return auth.Identity{}, errInvalidCredentials
	}

	if err := UpdateLastUsed(db, apiKey.ID); err != nil {
		logger.Warn("update api key last_used_at failed", zap.Uint("api_key_id", apiKey.ID), zap.Error(err))
	}

	return auth.Identity{UserID: user.ID, Email: user.Email, SystemRole: string(user.SystemRole)}, nil
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "status": http.StatusUnauthorized})
}

// CombinedAuthMiddleware authenticates via JWT or API key and rejects
// requests without credentials.
func CombinedAuthMiddleware(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c)
		if err != nil {
			if errors.Is(err, auth.ErrNoCredentials) {
				abortUnauthorized(c, "Authorization header required")
			} else {
				abortUnauthorized(c, "Invalid authorization header format")
			}
			return
		}

		id, err := resolveIdentity(db, logger, token)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}

// OptionalAuthMiddleware authenticates when credentials are present and
// otherwise lets the request through as anonymous. Bad credentials are still
// rejected so a client never silently acts as the wrong caller.
func OptionalAuthMiddleware(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c)
		if errors.Is(err, auth.ErrNoCredentials) {
			c.Next()
			return
		}
		if err != nil {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		id, err := resolveIdentity(db, logger, token)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		auth.SetIdentity(c, id)
		c.Next()
	}
}
