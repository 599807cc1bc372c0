package domain

import (
	"context"
	"time"

	"github.com/storekeep/storekeep/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[Response], error)
	Get(ctx context.Context, id string) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name          string         `json:"name" binding:"required"`
	Price         *int64         `json:"price" binding:"required"`
	BrandID       string         `json:"brand_id" binding:"required"`
	VendorID      string         `json:"vendor_id" binding:"required"`
	ProductTypeID string         `json:"product_type_id" binding:"required"`
	Metadata      map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	Name          *string        `json:"name"`
	Price         *int64         `json:"price"`
	BrandID       *string        `json:"brand_id"`
	VendorID      *string        `json:"vendor_id"`
	ProductTypeID *string        `json:"product_type_id"`
	Metadata      map[string]any `json:"metadata"`
}

type Response struct {
	ID            string         `json:"id"`
	EnterpriseID  string         `json:"enterprise_id"`
	BrandID       string         `json:"brand_id"`
	VendorID      string         `json:"vendor_id"`
	ProductTypeID string         `json:"product_type_id"`
	Name          string         `json:"name"`
	Price         int64          `json:"price"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
