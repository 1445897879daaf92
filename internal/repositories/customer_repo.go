package repositories

import "craftmarket/internal/models"

// CustomerRepository defines the interface for customer profile data access.
type CustomerRepository interface {
	Create(customer *models.Customer) error
	GetByID(id string) (*models.Customer, error)
	GetByUserID(userID string) (*models.Customer, error)
}

// SellerRepository defines the interface for seller profile data access.
type SellerRepository interface {
	Create(seller *models.Seller) error
	GetByID(id string) (*models.Seller, error)
	GetByUserID(userID string) (*models.Seller, error)
}
