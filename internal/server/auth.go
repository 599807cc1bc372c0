package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/storekeep/storekeep/internal/auth/domain"
	"github.com/storekeep/storekeep/pkg/validation"
)

type registerRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email" binding:"required"`
	Password     string  `json:"password" binding:"required"`
	EnterpriseID *string `json:"enterprise_id"`
	StoreID      *string `json:"store_id"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	EnterpriseID *string   `json:"enterprise_id"`
	StoreID      *string   `json:"store_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type loginResponse struct {
	User      userResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, validation.FieldErrors{"request": "invalid body"})
		return
	}

	fieldErrs := validation.FieldErrors{}
	enterpriseID, ok := parseOptionalID(req.EnterpriseID)
	if !ok {
		fieldErrs.Add("enterprise_id", "does not exist")
	}
	storeID, ok := parseOptionalID(req.StoreID)
	if !ok {
		fieldErrs.Add("store_id", "does not exist")
	}
	if fieldErrs.Any() {
		AbortWithError(c, fieldErrs)
		return
	}

	user, err := s.authSvc.Register(c.Request.Context(), authdomain.RegisterRequest{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		EnterpriseID: enterpriseID,
		StoreID:      storeID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, validation.FieldErrors{"request": "invalid body"})
		return
	}

	result, err := s.authSvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.JSON(http.StatusOK, loginResponse{
		User:      toUserResponse(result.User),
		Token:     result.RawToken,
		ExpiresAt: result.ExpiresAt,
	})
}

func (s *Server) Logout(c *gin.Context) {
	token := s.sessions.Token(c)
	if err := s.authSvc.Logout(c.Request.Context(), token); err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// parseOptionalID reports ok=false only for a present but malformed value.
func parseOptionalID(raw *string) (*int64, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	id, err := snowflake.ParseString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, false
	}
	value := id.Int64()
	return &value, true
}

func toUserResponse(user *authdomain.User) userResponse {
	resp := userResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
	if user.EnterpriseID != nil {
		id := snowflake.ID(*user.EnterpriseID).String()
		resp.EnterpriseID = &id
	}
	if user.StoreID != nil {
		id := snowflake.ID(*user.StoreID).String()
		resp.StoreID = &id
	}
	return resp
}
