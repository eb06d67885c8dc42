package converter

import (
	"product-catalog/internal/delivery/dto"
	"product-catalog/internal/domain/entity"
)

// ProductToResponse converts a Product entity to ProductResponse DTO
func ProductToResponse(product *entity.Product) *dto.ProductResponse {
	if product == nil {
		return nil
	}

	return &dto.ProductResponse{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price.StringFixed(2),
		StockQuantity: product.StockQuantity,
		Category:      product.Category,
		Brand:         product.Brand,
		ImageURL:      product.ImageURL,
		Active:        product.Active,
		InStock:       product.InStock(),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// ProductsToResponses converts a slice of Product entities to slice of ProductResponse DTOs
func ProductsToResponses(products []entity.Product) []dto.ProductResponse {
	responses := make([]dto.ProductResponse, len(products))
	for i := range products {
		responses[i] = *ProductToResponse(&products[i])
	}
	return responses
}

func ProductPageToResponse(page *entity.ProductPage) *dto.ProductListResponse {
	return &dto.ProductListResponse{
		Products:      ProductsToResponses(page.Items),
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}

// CreateRequestToProduct builds a new, unsaved Product. The request id is
// dropped and active defaults to true.
func CreateRequestToProduct(req *dto.CreateProductRequest) *entity.Product {
	product := &entity.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	return product
}
