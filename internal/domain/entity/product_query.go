package entity

import "github.com/shopspring/decimal"

// Sortable product columns, keyed by their wire name.
var ProductSortColumns = map[string]string{
	"id":            "id",
	"name":          "name",
	"price":         "price",
	"stockQuantity": "stock_quantity",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageRequest is a zero-based page index plus page size and an optional sort.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    string // wire name, see ProductSortColumns
	Direction string // SortAsc or SortDesc
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// OrderClause returns the SQL ordering for the request, defaulting to id ascending.
// Unknown columns fall back to id so callers never inject raw input.
func (p PageRequest) OrderClause() string {
	column, ok := ProductSortColumns[p.SortBy]
	if !ok {
		column = "id"
	}
	direction := SortAsc
	if p.Direction == SortDesc {
		direction = SortDesc
	}
	if column == "id" {
		return "id " + direction
	}
	return column + " " + direction + ", id asc"
}

// ProductPage is one page of an ordered product result set.
type ProductPage struct {
	Items         []Product `json:"items"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	TotalElements int64     `json:"total_elements"`
	TotalPages    int       `json:"total_pages"`
}

func NewProductPage(items []Product, req PageRequest, total int64) *ProductPage {
	if items == nil {
		items = []Product{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int(total) / req.Size
		if int(total)%req.Size > 0 {
			totalPages++
		}
	}
	return &ProductPage{
		Items:         items,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// ProductFilter narrows a product listing. Nil fields are not applied.
type ProductFilter struct {
	Name     string
	Category *string
	Brand    *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Active   *bool
	InStock  *bool
}
