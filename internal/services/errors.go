package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the services. Handlers map these onto HTTP status
// codes with errors.Is / errors.As.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoProfile         = errors.New("customer profile not found")
	ErrNoSellerProfile   = errors.New("seller profile not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotOwner          = errors.New("order does not belong to this seller")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrIllegalTransition = errors.New("illegal order status transition")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrNotEligible       = errors.New("payment is not eligible for an invoice")

	// ErrGatewayUnavailable marks a retryable failure talking to the payment
	// provider. Local state is never advanced on this error.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// ProductNotFoundError identifies the cart line whose product does not exist.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError identifies the cart line whose requested quantity
// exceeds the available stock.
type InsufficientStockError struct {
	ProductID string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}
