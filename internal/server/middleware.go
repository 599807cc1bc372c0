package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/internal/principal"
)

const contextUserKey = "auth_user"

// AuthRequired resolves the session token into a principal and stores it on
// the request context. Requests without a valid session never reach the
// services.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := s.sessions.Token(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserKey, user)
		ctx := principal.WithPrincipal(c.Request.Context(), principalFor(user))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func principalFor(user *authdomain.User) principal.Principal {
	p := principal.Principal{UserID: user.ID}
	if user.EnterpriseID != nil {
		id := snowflake.ID(*user.EnterpriseID)
		p.EnterpriseID = &id
	}
	if user.StoreID != nil {
		id := snowflake.ID(*user.StoreID)
		p.StoreID = &id
	}
	return p
}

func currentUser(c *gin.Context) (*authdomain.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*authdomain.User)
	return user, ok
}
