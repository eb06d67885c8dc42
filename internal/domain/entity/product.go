package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description   *string         `gorm:"type:varchar(1000)" json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	Category      *string         `gorm:"type:varchar(100);index" json:"category"`
	Brand         *string         `gorm:"type:varchar(100);index" json:"brand"`
	ImageURL      *string         `gorm:"type:text" json:"image_url"`
	Active        bool            `gorm:"not null;index" json:"active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime;not null" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}
