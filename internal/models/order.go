package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of states an order can be in.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// orderTransitions maps each status to the statuses it may move to.
// Delivered and Cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal
// fulfillment step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order represents a single purchased line item. Orders are created only by
// checkout and are never deleted; they form the audit trail of purchases.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BuyerID       string          `json:"buyer_id" gorm:"index;type:varchar(36)"`
	ProductID     string          `json:"product_id" gorm:"index;type:varchar(36)"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:decimal(18,2)"` // Price at the time of purchase
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(18,2)"`
	Status        OrderStatus     `json:"status" gorm:"type:varchar(20)"`
	SelectedColor string          `json:"selected_color"`
	SelectedSize  string          `json:"selected_size"`
	OrderDate     time.Time       `json:"order_date"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
