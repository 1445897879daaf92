package repositories

import (
	"errors"
	"fmt"
	"time"

	"craftmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ListByBuyer retrieves a buyer's orders, newest first.
func (r *GORMOrderRepository) ListByBuyer(buyerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Order("order_date desc").Find(&orders, "buyer_id = ?", buyerID).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for buyer %s: %w", buyerID, err)
	}
	return orders, nil
}

// ListByProducts retrieves the orders placed against any of the given
// products, newest first.
func (r *GORMOrderRepository) ListByProducts(productIDs []string) ([]models.Order, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var orders []models.Order
	if err := r.db.Order("order_date desc").Find(&orders, "product_id IN ?", productIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders by products: %w", err)
	}
	return orders, nil
}

// CreateBatch inserts all orders in one transaction.
func (r *GORMOrderRepository) CreateBatch(orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	for i := range orders {
		if orders[i].ID == "" {
			orders[i].ID = uuid.New().String()
		}
		if orders[i].OrderDate.IsZero() {
			orders[i].OrderDate = time.Now().UTC()
		}
	}
	if err := r.db.Create(&orders).Error; err != nil {
		return fmt.Errorf("failed to create orders: %w", err)
	}
	return nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s for status update: %w", id, ErrNotFound)
	}
	return nil
}
