package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourname/sleepsense/internal"
	"github.com/yourname/sleepsense/internal/config"
	"github.com/yourname/sleepsense/internal/response"
)

// UserKey is the gin context key holding the authenticated *internal.User.
const UserKey = "user"

func AuthMiddleware(provider Provider, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			var user *internal.User
			var err error
			if cfg.Env == "development" {
				user, err = provider.ValidateTokenLocal(token)
			} else {
				user, err = provider.ValidateTokenRemote(c.Request.Context(), token)
			}
			if err == nil {
				c.Set(UserKey, user)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.NewAppError(http.StatusUnauthorized, "Unauthorized"))
	}
}

// NewProvider picks the local provider in development and the remote one
// elsewhere.
func NewProvider(cfg *config.Config, logger internal.Logger) Provider {
	if cfg.Env == "development" {
		return NewLocalAuthProvider(cfg.AuthToken, logger)
	}
	return NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
}
