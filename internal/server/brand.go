package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	branddomain "github.com/storekeep/storekeep/internal/brand/domain"
	"github.com/storekeep/storekeep/pkg/validation"
)

func (s *Server) ListBrands(c *gin.Context) {
	page, err := s.brandSvc.List(c.Request.Context(), pagingParams(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) GetBrand(c *gin.Context) {
	resp, err := s.brandSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateBrand(c *gin.Context) {
	var req branddomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, validation.FieldErrors{"name": "required"})
		return
	}

	resp, err := s.brandSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateBrand(c *gin.Context) {
	var req branddomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, validation.FieldErrors{"request": "invalid body"})
		return
	}

	resp, err := s.brandSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteBrand(c *gin.Context) {
	if err := s.brandSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
