package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TrendingOrderThreshold is the cumulative order count at which a product
// is latched as trending. The flag is never reset once set.
const TrendingOrderThreshold = 5

// Product represents a product listed by a seller.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	SellerID      string          `json:"seller_id" gorm:"index;type:varchar(36)" validate:"required"`
	Name          string          `json:"name" validate:"required,min=3,max=100"`
	Description   string          `json:"description" validate:"omitempty,max=2000"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(18,2)"`
	Category      string          `json:"category"`
	Tags          string          `json:"tags"` // Comma separated, e.g. "clay, vintage"
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	OrderCount    int             `json:"order_count"`
	IsTrending    bool            `json:"is_trending"`
	gorm.Model    // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
