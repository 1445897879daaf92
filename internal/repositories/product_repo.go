package repositories

import (
	"errors"
	"fmt"

	"craftmarket/internal/models"
)

// Sentinel errors shared by all repository implementations. Callers match
// with errors.Is and wrap with their own context.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned by a reservation whose requested
	// quantity exceeds the available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned by a reservation for less than one unit.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// LineError attaches the offending product to a reservation failure. It
// wraps one of the sentinel errors above.
type LineError struct {
	ProductID string
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("product %s: %v", e.ProductID, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ReservationLine is one stock decrement request within a reservation.
type ReservationLine struct {
	ProductID string
	Quantity  int
}

// ProductRepository defines the interface for product data access, including
// the atomic stock reservation that gates order creation.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	ListBySeller(sellerID string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	// Reserve atomically decrements stock and increments the order count for
	// one product, latching the trending flag once the count reaches
	// models.TrendingOrderThreshold. It returns the product as of after the
	// reservation. Concurrent reservations for the same product serialize;
	// stock never goes negative.
	Reserve(productID string, quantity int) (*models.Product, error)

	// ReserveAll applies every line or none: if any line's product is missing
	// or short on stock, no stock is decremented and the error identifies the
	// offending product. On success the returned products correspond
	// positionally to the lines.
	ReserveAll(lines []ReservationLine) ([]models.Product, error)
}
