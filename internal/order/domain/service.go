package domain

import (
	"context"
	"time"

	"github.com/storekeep/storekeep/pkg/db/pagination"
)

type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[Response], error)
	Get(ctx context.Context, id string) (*Response, error)
	// Create places a multi-line order, consuming stock atomically. Line
	// failures are accumulated and reported together.
	Create(ctx context.Context, lines []LineRequest) (*Response, error)
}

// LineRequest is one requested (product, amount) pair. Pointer fields
// distinguish a missing value from a zero one.
type LineRequest struct {
	ProductID *string `json:"product_id"`
	Amount    *int64  `json:"amount"`
}

type Response struct {
	ID           string         `json:"id"`
	EnterpriseID string         `json:"enterprise_id"`
	StoreID      string         `json:"store_id"`
	UserID       string         `json:"user_id"`
	Total        int64          `json:"total"`
	CreatedAt    time.Time      `json:"created_at"`
	Items        []ItemResponse `json:"items"`
}

type ItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Amount    int64  `json:"amount"`
	Subtotal  int64  `json:"subtotal"`
}
