package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"craftmarket/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// ListByBuyer returns a buyer's orders, newest first.
func (r *MockOrderRepository) ListByBuyer(buyerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.orders {
		if order.BuyerID == buyerID {
			orders = append(orders, order)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

// ListByProducts returns the orders for any of the given products, newest first.
func (r *MockOrderRepository) ListByProducts(productIDs []string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}

	var orders []models.Order
	for _, order := range r.orders {
		if wanted[order.ProductID] {
			orders = append(orders, order)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

// CreateBatch adds all orders, or none if validation fails midway.
func (r *MockOrderRepository) CreateBatch(orders []models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range orders {
		if orders[i].ID == "" {
			orders[i].ID = uuid.New().String()
		}
		if orders[i].OrderDate.IsZero() {
			orders[i].OrderDate = time.Now().UTC()
		}
		orders[i].UpdatedAt = time.Now().UTC()
	}
	for _, order := range orders {
		r.orders[order.ID] = order
	}
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s for status update: %w", id, ErrNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

func sortOrdersNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}
