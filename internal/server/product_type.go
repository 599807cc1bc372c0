package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	producttypedomain "github.com/storekeep/storekeep/internal/producttype/domain"
	"github.com/storekeep/storekeep/pkg/validation"
)

func (s *Server) ListProductTypes(c *gin.Context) {
	page, err := s.productTypeSvc.List(c.Request.Context(), pagingParams(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) GetProductType(c *gin.Context) {
	resp, err := s.productTypeSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateProductType(c *gin.Context) {
	var req producttypedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, validation.FieldErrors{"name": "required"})
		return
	}

	resp, err := s.productTypeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateProductType(c *gin.Context) {
	var req producttypedomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, validation.FieldErrors{"request": "invalid body"})
		return
	}

	resp, err := s.productTypeSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteProductType(c *gin.Context) {
	if err := s.productTypeSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
