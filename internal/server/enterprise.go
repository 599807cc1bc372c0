package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	enterprisedomain "github.com/storekeep/storekeep/internal/enterprise/domain"
	"github.com/storekeep/storekeep/pkg/validation"
)

func (s *Server) ListEnterprises(c *gin.Context) {
	page, err := s.enterpriseSvc.List(c.Request.Context(), pagingParams(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) GetEnterprise(c *gin.Context) {
	resp, err := s.enterpriseSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateEnterprise(c *gin.Context) {
	var req enterprisedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, validation.FieldErrors{"name": "required"})
		return
	}

	resp, err := s.enterpriseSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateEnterprise(c *gin.Context) {
	var req enterprisedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, validation.FieldErrors{"request": "invalid body"})
		return
	}

	resp, err := s.enterpriseSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteEnterprise(c *gin.Context) {
	if err := s.enterpriseSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
