package models

import "gorm.io/gorm"

// Seller is the shop profile attached to an externally-issued user identity.
// Fulfillment operations are authorized against the seller owning the
// order's product.
type Seller struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID     string `json:"user_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required"`
	ShopName   string `json:"shop_name" validate:"required,min=2,max=100"`
	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
