package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/internal/authz"
	enterprisedomain "github.com/storekeep/storekeep/internal/enterprise/domain"
	"github.com/storekeep/storekeep/internal/resource"
	"github.com/storekeep/storekeep/pkg/validation"
	"gorm.io/gorm"
)

// ErrUnauthorized covers requests with no usable session at all.
var ErrUnauthorized = errors.New("unauthorized")

type errorResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Message string                 `json:"message"`
	Errors  validation.FieldErrors `json:"errors"`
}

// ErrorHandlingMiddleware renders the last error a handler recorded. Handlers
// never write error bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, body := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, body)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, any) {
	var fieldErrs validation.FieldErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusUnprocessableEntity, validationResponse{
			Message: "validation failed",
			Errors:  fieldErrs,
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, resource.ErrNoPrincipal),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorResponse{Message: "unauthorized"}

	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden, errorResponse{Message: "forbidden"}

	case errors.Is(err, resource.ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorResponse{Message: "not found"}

	case errors.Is(err, authdomain.ErrUserExists):
		return http.StatusUnprocessableEntity, validationResponse{
			Message: "validation failed",
			Errors:  validation.FieldErrors{"email": "already taken"},
		}

	case errors.Is(err, authdomain.ErrInvalidAffiliation):
		return http.StatusUnprocessableEntity, validationResponse{
			Message: "validation failed",
			Errors:  validation.FieldErrors{"store_id": "invalid affiliation"},
		}

	case errors.Is(err, enterprisedomain.ErrSlugTaken):
		return http.StatusUnprocessableEntity, validationResponse{
			Message: "validation failed",
			Errors:  validation.FieldErrors{"name": "already taken"},
		}

	default:
		return http.StatusInternalServerError, errorResponse{Message: "internal server error"}
	}
}
