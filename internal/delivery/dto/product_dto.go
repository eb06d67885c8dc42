package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateProductRequest is the body of POST /products. A client-supplied id
// is accepted and ignored.
type CreateProductRequest struct {
	ID            *int64           `json:"id,omitempty"`
	Name          string           `json:"name" validate:"required,notblank,max=255"`
	Description   *string          `json:"description" validate:"omitempty,max=1000"`
	Price         *decimal.Decimal `json:"price" validate:"required,price"`
	StockQuantity *int             `json:"stockQuantity" validate:"required,gte=0"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Brand         *string          `json:"brand" validate:"omitempty,max=100"`
	ImageURL      *string          `json:"imageUrl"`
	Active        *bool            `json:"active"`
}

// UpdateProductRequest is a merge patch: nil fields keep their stored value.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,notblank,max=255"`
	Description   *string          `json:"description" validate:"omitempty,max=1000"`
	Price         *decimal.Decimal `json:"price" validate:"omitempty,price"`
	StockQuantity *int             `json:"stockQuantity" validate:"omitempty,gte=0"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Brand         *string          `json:"brand" validate:"omitempty,max=100"`
	ImageURL      *string          `json:"imageUrl"`
	Active        *bool            `json:"active"`
}

// StockRequest carries the quantity for stock set, reserve and restock.
type StockRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// Response DTOs

type ProductResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Price         string    `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	Category      *string   `json:"category"`
	Brand         *string   `json:"brand"`
	ImageURL      *string   `json:"imageUrl"`
	Active        bool      `json:"active"`
	InStock       bool      `json:"inStock"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ProductListResponse struct {
	Products      []ProductResponse `json:"products"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

type AvailabilityResponse struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
	Available bool  `json:"available"`
}
