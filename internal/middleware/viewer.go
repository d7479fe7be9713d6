package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mr-deepansh/endlessChat-client-sub002/internal/response"
)

// UserIDHeader names the viewer on every request. There is no authentication;
// the header is trusted as given.
const UserIDHeader = "X-User-ID"

const viewerKey = "user_id"

// Viewer reads the viewer id from UserIDHeader. When required is false a
// missing header leaves the request anonymous.
func Viewer(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			if required {
				response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, UserIDHeader+" header is required")
				c.Abort()
				return
			}
			c.Next()
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+UserIDHeader+" header")
			c.Abort()
			return
		}

		c.Set(viewerKey, userID)
		c.Next()
	}
}

// ViewerID returns the viewer stored by Viewer
func ViewerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(viewerKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
