package services

import (
	"errors"
	"fmt"

	"craftmarket/internal/models"
	"craftmarket/internal/repositories"
)

// InventoryService is the only writer path for stock counters. It owns the
// decrement-or-reject contract and the trending side effect; nothing in this
// service ever increases stock.
type InventoryService struct {
	products repositories.ProductRepository
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(products repositories.ProductRepository) *InventoryService {
	return &InventoryService{
		products: products,
	}
}

// TryReserve atomically decrements stock for one product and returns the
// product as of after the reservation.
func (s *InventoryService) TryReserve(productID string, quantity int) (*models.Product, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("reserve %d of product %s: %w", quantity, productID, repositories.ErrInvalidQuantity)
	}
	product, err := s.products.Reserve(productID, quantity)
	if err != nil {
		return nil, mapReservationError(err)
	}
	return product, nil
}

// ReserveAll reserves every line or none. The returned products correspond
// positionally to the lines.
func (s *InventoryService) ReserveAll(lines []repositories.ReservationLine) ([]models.Product, error) {
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("reserve %d of product %s: %w", line.Quantity, line.ProductID, repositories.ErrInvalidQuantity)
		}
	}
	products, err := s.products.ReserveAll(lines)
	if err != nil {
		return nil, mapReservationError(err)
	}
	return products, nil
}

// mapReservationError translates repository reservation failures into the
// service error taxonomy, keeping the offending product id.
func mapReservationError(err error) error {
	var line *repositories.LineError
	if !errors.As(err, &line) {
		return err
	}
	switch {
	case errors.Is(line.Err, repositories.ErrNotFound):
		return &ProductNotFoundError{ProductID: line.ProductID}
	case errors.Is(line.Err, repositories.ErrInsufficientStock):
		return &InsufficientStockError{ProductID: line.ProductID}
	default:
		return err
	}
}
