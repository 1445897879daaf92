package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"craftmarket/internal/models"
	"craftmarket/internal/repositories"
	"craftmarket/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of a checkout request. The customization fields are
// echoed onto the created order verbatim; they are not validated against the
// product's declared option lists.
type CartItem struct {
	ProductID     string `json:"product_id" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	SelectedColor string `json:"selected_color"`
	SelectedSize  string `json:"selected_size"`
}

// CheckoutResult carries the orders created by one checkout and their summed
// total.
type CheckoutResult struct {
	Orders []models.Order  `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// CheckoutService converts a cart into persisted orders with inventory
// effects. It is the only writer path that creates orders.
type CheckoutService struct {
	orders    repositories.OrderRepository
	customers repositories.CustomerRepository
	inventory *InventoryService
	mqClient  *rabbitmq.Client // RabbitMQ client, may be nil
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(orders repositories.OrderRepository, customers repositories.CustomerRepository, inventory *InventoryService, mqClient *rabbitmq.Client) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		customers: customers,
		inventory: inventory,
		mqClient:  mqClient,
	}
}

// Checkout validates the cart against the buyer's profile and the inventory,
// reserves every line atomically (all lines or none), and creates one order
// per line with the price captured at reservation time.
func (s *CheckoutService) Checkout(userID string, items []CartItem) (*CheckoutResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	customer, err := s.customers.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("failed to look up customer profile: %w", err)
	}

	lines := make([]repositories.ReservationLine, len(items))
	for i, item := range items {
		lines[i] = repositories.ReservationLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	// All-or-nothing: any missing product or short stock aborts the whole
	// checkout with zero stock effects.
	products, err := s.inventory.ReserveAll(lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	total := decimal.Zero
	orders := make([]models.Order, len(items))
	for i, item := range items {
		unitPrice := products[i].Price // captured at reservation time
		order := models.Order{
			ID:            uuid.New().String(),
			BuyerID:       customer.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitPrice:     unitPrice,
			TotalPrice:    unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
			Status:        models.OrderPending,
			SelectedColor: item.SelectedColor,
			SelectedSize:  item.SelectedSize,
			OrderDate:     now,
		}
		orders[i] = order
		total = total.Add(order.TotalPrice)
	}

	if err := s.orders.CreateBatch(orders); err != nil {
		// Stock is already decremented at this point. The reservation is
		// durable and the orders are not; this needs operator attention.
		log.Printf("CHECKOUT: reservation committed but orders not persisted for buyer %s: %v", customer.ID, err)
		return nil, fmt.Errorf("failed to create orders after reservation: %w", err)
	}

	s.publishOrderCreated(customer, orders, total)

	return &CheckoutResult{Orders: orders, Total: total}, nil
}

// publishOrderCreated emits a best-effort order.created event. Failures are
// logged and never fail the checkout.
func (s *CheckoutService) publishOrderCreated(customer *models.Customer, orders []models.Order, total decimal.Decimal) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping order event publication.")
		return
	}

	orderIDs := make([]string, len(orders))
	for i, order := range orders {
		orderIDs[i] = order.ID
	}

	event := map[string]interface{}{
		"event":       "order.created",
		"buyerID":     customer.ID,
		"buyerEmail":  customer.Email,
		"buyerName":   customer.FullName,
		"orderIDs":    orderIDs,
		"total":       total,
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.mqClient.PublishJSON(rabbitmq.OrderEventsQueue, event); err != nil {
		log.Printf("Warning: Failed to publish order created event for buyer %s: %v", customer.ID, err)
	}
}
