package domain

import (
	"context"
	"time"
)

type Service interface {
	// Upsert sets a product's stock for the caller's store. With an ID it
	// updates that row; without one it upserts by (store, product).
	Upsert(ctx context.Context, id string, req UpsertRequest) (*Response, error)
}

type UpsertRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Stock     *int64 `json:"stock" binding:"required"`
}

type Response struct {
	ID           string    `json:"id"`
	EnterpriseID string    `json:"enterprise_id"`
	StoreID      string    `json:"store_id"`
	ProductID    string    `json:"product_id"`
	Stock        int64     `json:"stock"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
