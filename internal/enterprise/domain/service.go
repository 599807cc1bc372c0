package domain

import (
	"context"
	"errors"
	"time"

	"github.com/storekeep/storekeep/pkg/db/pagination"
)

var ErrSlugTaken = errors.New("enterprise slug already taken")

type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[Response], error)
	Get(ctx context.Context, id string) (*Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateRequest struct {
	Name *string `json:"name"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
