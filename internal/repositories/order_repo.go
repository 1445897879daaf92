package repositories

import (
	"craftmarket/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// never deleted; status is the only mutable field.
type OrderRepository interface {
	GetByID(id string) (*models.Order, error)
	ListByBuyer(buyerID string) ([]models.Order, error)
	ListByProducts(productIDs []string) ([]models.Order, error)
	CreateBatch(orders []models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
}
