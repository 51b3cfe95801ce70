package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// actorIDKey is the key used to store the acting user's ID in the context.
// Using a custom type prevents collisions.
const actorIDKey = contextKey("actorID")

// actorIDHeader names the header POS clients send to attribute writes.
const actorIDHeader = "X-Actor-ID"

// defaultActorID attributes writes that arrive without a header, such as
// entries generated by the recurring scheduler.
const defaultActorID = "system"

// ActorMiddleware resolves the acting user from the request header and
// stores it in the context. Every write path stamps audit fields with it.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(actorIDHeader)
		if actorID == "" {
			actorID = defaultActorID
		}

		c.Set(string(actorIDKey), actorID)
		ctx := context.WithValue(c.Request.Context(), actorIDKey, actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user ID from the Gin context.
// It returns the actor ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(actorIDKey)
		if ctxVal != nil {
			return ctxVal.(string), true
		}
		return "", false
	}

	actorID, ok := actorIDVal.(string)
	if !ok {
		return "", false
	}

	return actorID, true
}
