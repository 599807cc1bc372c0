package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	stockdomain "github.com/storekeep/storekeep/internal/storestock/domain"
	"github.com/storekeep/storekeep/pkg/validation"
)

// UpsertStoreStock serves both POST /store-stock and POST /store-stock/:id.
// With an ID the row is updated in place; without one the ledger row is
// created or overwritten by (store, product).
func (s *Server) UpsertStoreStock(c *gin.Context) {
	var req stockdomain.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, validation.FieldErrors{"request": "invalid body"})
		return
	}

	resp, err := s.storeStockSvc.Upsert(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	if c.Param("id") == "" {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}
