package models

import "gorm.io/gorm"

// Customer is the purchaser profile attached to an externally-issued user
// identity. Checkout requires one to exist for the buyer.
type Customer struct {
	ID              string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID          string `json:"user_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required"`
	FullName        string `json:"full_name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	ShippingAddress string `json:"shipping_address" validate:"omitempty,max=500"`
	gorm.Model      // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
