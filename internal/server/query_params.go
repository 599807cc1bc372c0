package server

import (
	"github.com/gin-gonic/gin"
	"github.com/storekeep/storekeep/pkg/db/pagination"
)

func pagingParams(c *gin.Context) pagination.Params {
	var params pagination.Params
	_ = c.ShouldBindQuery(&params)
	return params
}
