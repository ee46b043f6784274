package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"claif-api/entities"
	"claif-api/service"
)

// Identity headers set by the gateway after token validation; this service
// never sees the token itself.
const (
	HeaderSubject  = "X-Claif-Subject"
	HeaderUsername = "X-Claif-Username"
)

const userKey = "currentUser"

// RequestContext tags every request with an id and threads a request-scoped
// logger through the request context.
func RequestContext(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLogger := logger.With().Str("request_id", uuid.New().String()).Logger()
		c.Request = c.Request.WithContext(reqLogger.WithContext(c.Request.Context()))
		c.Next()
	}
}

// Authenticated resolves the local user for the identity subject carried on
// the request, creating the row on first sight.
func Authenticated(users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetHeader(HeaderSubject)
		if subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity subject"})
			return
		}
		user, err := users.GetOrCreate(c.Request.Context(), subject, c.GetHeader(HeaderUsername))
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to resolve user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *entities.User {
	value, _ := c.Get(userKey)
	user, _ := value.(*entities.User)
	return user
}
