package repositories

import (
	"fmt"
	"sync"

	"craftmarket/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// All operations serialize under one mutex, which also makes reservations
// atomic with respect to each other.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &product, nil
}

// ListBySeller returns all products belonging to a seller.
func (r *MockProductRepository) ListBySeller(sellerID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []models.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			products = append(products, p)
		}
	}
	return products, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s for update: %w", product.ID, ErrNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s for deletion: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// Reserve atomically decrements stock for one product.
func (r *MockProductRepository) Reserve(productID string, quantity int) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, err := r.reserveLocked(ReservationLine{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ReserveAll validates every line, then applies every line, all under the
// repository lock. Any failure leaves stock untouched.
func (r *MockProductRepository) ReserveAll(lines []ReservationLine) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate first so a later line cannot fail after earlier decrements.
	// Lines for the same product accumulate against the same stock.
	requested := make(map[string]int, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, &LineError{ProductID: line.ProductID, Err: ErrInvalidQuantity}
		}
		product, ok := r.products[line.ProductID]
		if !ok {
			return nil, &LineError{ProductID: line.ProductID, Err: ErrNotFound}
		}
		requested[line.ProductID] += line.Quantity
		if requested[line.ProductID] > product.StockQuantity {
			return nil, &LineError{ProductID: line.ProductID, Err: ErrInsufficientStock}
		}
	}

	products := make([]models.Product, 0, len(lines))
	for _, line := range lines {
		product, err := r.reserveLocked(line)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

// reserveLocked performs one decrement. Caller must hold r.mu.
func (r *MockProductRepository) reserveLocked(line ReservationLine) (*models.Product, error) {
	if line.Quantity < 1 {
		return nil, &LineError{ProductID: line.ProductID, Err: ErrInvalidQuantity}
	}
	product, ok := r.products[line.ProductID]
	if !ok {
		return nil, &LineError{ProductID: line.ProductID, Err: ErrNotFound}
	}
	if product.StockQuantity < line.Quantity {
		return nil, &LineError{ProductID: line.ProductID, Err: ErrInsufficientStock}
	}

	product.StockQuantity -= line.Quantity
	product.OrderCount += line.Quantity
	if product.OrderCount >= models.TrendingOrderThreshold {
		product.IsTrending = true
	}
	r.products[line.ProductID] = product
	return &product, nil
}
