package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/storekeep/storekeep/internal/order/domain"
	"github.com/storekeep/storekeep/pkg/validation"
)

func (s *Server) ListOrders(c *gin.Context) {
	page, err := s.orderSvc.List(c.Request.Context(), pagingParams(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) GetOrder(c *gin.Context) {
	resp, err := s.orderSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateOrder takes the request body as a bare array of lines, so the
// field errors key naturally by line index.
func (s *Server) CreateOrder(c *gin.Context) {
	var lines []orderdomain.LineRequest
	if err := c.ShouldBindJSON(&lines); err != nil {
		AbortWithError(c, validation.FieldErrors{"order": "at least one line is required"})
		return
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), lines)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
