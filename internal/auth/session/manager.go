package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const CookieName = "_sid"

// Manager reads and writes the session token on HTTP exchanges. Tokens
// travel either in the session cookie or an Authorization bearer header.
type Manager struct {
	secure bool
}

func NewManager(secure bool) *Manager {
	return &Manager{secure: secure}
}

// Token extracts the raw session token from the request, preferring the
// Authorization header over the cookie. Empty when neither is present.
func (m *Manager) Token(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	token, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return token
}

func (m *Manager) Set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", m.secure, true)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}
