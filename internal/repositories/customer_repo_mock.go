package repositories

import (
	"fmt"
	"sync"

	"craftmarket/internal/models"

	"github.com/google/uuid"
)

// MockCustomerRepository is an in-memory implementation of CustomerRepository.
type MockCustomerRepository struct {
	customers map[string]models.Customer // keyed by ID
	mu        sync.RWMutex
}

// NewMockCustomerRepository creates a new instance of MockCustomerRepository.
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[string]models.Customer),
	}
}

// Create adds a new customer profile.
func (r *MockCustomerRepository) Create(customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	r.customers[customer.ID] = *customer
	return nil
}

// GetByID returns a customer profile by its ID.
func (r *MockCustomerRepository) GetByID(id string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer with ID %s: %w", id, ErrNotFound)
	}
	return &customer, nil
}

// GetByUserID returns the customer profile attached to a user identity.
func (r *MockCustomerRepository) GetByUserID(userID string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.UserID == userID {
			customer := c
			return &customer, nil
		}
	}
	return nil, fmt.Errorf("customer for user %s: %w", userID, ErrNotFound)
}

// MockSellerRepository is an in-memory implementation of SellerRepository.
type MockSellerRepository struct {
	sellers map[string]models.Seller // keyed by ID
	mu      sync.RWMutex
}

// NewMockSellerRepository creates a new instance of MockSellerRepository.
func NewMockSellerRepository() *MockSellerRepository {
	return &MockSellerRepository{
		sellers: make(map[string]models.Seller),
	}
}

// Create adds a new seller profile.
func (r *MockSellerRepository) Create(seller *models.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seller.ID == "" {
		seller.ID = uuid.New().String()
	}
	r.sellers[seller.ID] = *seller
	return nil
}

// GetByID returns a seller profile by its ID.
func (r *MockSellerRepository) GetByID(id string) (*models.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seller, ok := r.sellers[id]
	if !ok {
		return nil, fmt.Errorf("seller with ID %s: %w", id, ErrNotFound)
	}
	return &seller, nil
}

// GetByUserID returns the seller profile attached to a user identity.
func (r *MockSellerRepository) GetByUserID(userID string) (*models.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sellers {
		if s.UserID == userID {
			seller := s
			return &seller, nil
		}
	}
	return nil, fmt.Errorf("seller for user %s: %w", userID, ErrNotFound)
}
