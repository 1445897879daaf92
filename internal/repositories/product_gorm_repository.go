package repositories

import (
	"errors"
	"fmt"

	"craftmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// ListBySeller retrieves all products belonging to a seller.
func (r *GORMProductRepository) ListBySeller(sellerID string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products, "seller_id = ?", sellerID).Error; err != nil {
		return nil, fmt.Errorf("failed to list products for seller %s: %w", sellerID, err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// Reserve atomically decrements stock for one product. The decrement is a
// conditional UPDATE guarded by stock_quantity >= quantity, so concurrent
// reservations serialize at the row and stock can never go negative.
func (r *GORMProductRepository) Reserve(productID string, quantity int) (*models.Product, error) {
	var product models.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		p, err := reserveLine(tx, ReservationLine{ProductID: productID, Quantity: quantity})
		if err != nil {
			return err
		}
		product = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReserveAll applies every line inside one transaction. Any failure rolls the
// whole reservation back with no stock effects.
func (r *GORMProductRepository) ReserveAll(lines []ReservationLine) ([]models.Product, error) {
	products := make([]models.Product, 0, len(lines))
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			p, err := reserveLine(tx, line)
			if err != nil {
				return err
			}
			products = append(products, *p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// reserveLine performs the conditional decrement for a single line inside tx
// and latches the trending flag.
func reserveLine(tx *gorm.DB, line ReservationLine) (*models.Product, error) {
	if line.Quantity < 1 {
		return nil, &LineError{ProductID: line.ProductID, Err: ErrInvalidQuantity}
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", line.ProductID, line.Quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", line.Quantity),
			"order_count":    gorm.Expr("order_count + ?", line.Quantity),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to reserve stock for product %s: %w", line.ProductID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing product from one that is out of stock.
		var count int64
		if err := tx.Model(&models.Product{}).Where("id = ?", line.ProductID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check product %s: %w", line.ProductID, err)
		}
		if count == 0 {
			return nil, &LineError{ProductID: line.ProductID, Err: ErrNotFound}
		}
		return nil, &LineError{ProductID: line.ProductID, Err: ErrInsufficientStock}
	}

	// One-way trending latch.
	if err := tx.Model(&models.Product{}).
		Where("id = ? AND order_count >= ?", line.ProductID, models.TrendingOrderThreshold).
		Update("is_trending", true).Error; err != nil {
		return nil, fmt.Errorf("failed to update trending flag for product %s: %w", line.ProductID, err)
	}

	var product models.Product
	if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product %s after reservation: %w", line.ProductID, err)
	}
	return &product, nil
}
