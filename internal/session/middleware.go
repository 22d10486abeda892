package session

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/t0mb36/veloApp-sub001/internal/api"
)

const (
	HeaderName = "X-Session-ID"
	CookieName = "velo_session"

	contextKey = "session"
)

// Middleware attaches the caller's session to the request. The id is read
// from the X-Session-ID header, then the velo_session cookie; a new one is
// minted when neither carries a valid uuid. The id is echoed back in both.
func Middleware(reg *Registry) gin.HandlerFunc {
	maxAge := int(reg.TTL().Seconds())

	return func(c *gin.Context) {
		id := requestedID(c)
		if id == "" {
			id = uuid.NewString()
		}

		s := reg.Get(id)

		c.Header(HeaderName, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, id, maxAge, "/", "", false, true)
		c.Set(contextKey, s)

		c.Next()
	}
}

func requestedID(c *gin.Context) string {
	candidates := []string{strings.TrimSpace(c.GetHeader(HeaderName))}
	if cookie, err := c.Cookie(CookieName); err == nil {
		candidates = append(candidates, strings.TrimSpace(cookie))
	}

	for _, id := range candidates {
		if id == "" {
			continue
		}
		if parsed, err := uuid.Parse(id); err == nil {
			return parsed.String()
		}
	}
	return ""
}

func FromContext(c *gin.Context) (*Session, bool) {
	v, exists := c.Get(contextKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok
}

// Require aborts with 500 when no session was attached. Handlers behind
// Middleware never hit this.
func Require(c *gin.Context) (*Session, bool) {
	s, ok := FromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Session not found"})
		c.Abort()
		return nil, false
	}
	return s, true
}
