package services

import (
	"errors"
	"fmt"
	"time"

	"craftmarket/internal/models"
	"craftmarket/internal/repositories"

	"github.com/shopspring/decimal"
)

// SellerOrderView is one row of the seller's order dashboard.
type SellerOrderView struct {
	OrderID         string             `json:"order_id"`
	ProductName     string             `json:"product_name"`
	Quantity        int                `json:"quantity"`
	TotalPrice      decimal.Decimal    `json:"total_price"`
	Status          models.OrderStatus `json:"status"`
	OrderDate       time.Time          `json:"order_date"`
	BuyerName       string             `json:"buyer_name"`
	ShippingAddress string             `json:"shipping_address"`
	SelectedColor   string             `json:"selected_color"`
	SelectedSize    string             `json:"selected_size"`
}

// CustomerOrderView is one row of the customer's order history.
type CustomerOrderView struct {
	OrderID       string             `json:"order_id"`
	ProductName   string             `json:"product_name"`
	SellerName    string             `json:"seller_name"`
	Quantity      int                `json:"quantity"`
	TotalPrice    decimal.Decimal    `json:"total_price"`
	Status        models.OrderStatus `json:"status"`
	OrderDate     time.Time          `json:"order_date"`
	SelectedColor string             `json:"selected_color"`
	SelectedSize  string             `json:"selected_size"`
}

// OrderService handles order queries and the seller's fulfillment updates.
type OrderService struct {
	orders    repositories.OrderRepository
	products  repositories.ProductRepository
	customers repositories.CustomerRepository
	sellers   repositories.SellerRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repositories.OrderRepository, products repositories.ProductRepository, customers repositories.CustomerRepository, sellers repositories.SellerRepository) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		customers: customers,
		sellers:   sellers,
	}
}

// GetSellerOrders returns the dashboard rows for every order placed against
// the seller's products, newest first.
func (s *OrderService) GetSellerOrders(sellerUserID string) ([]SellerOrderView, error) {
	seller, err := s.sellers.GetByUserID(sellerUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoSellerProfile
		}
		return nil, fmt.Errorf("failed to look up seller profile: %w", err)
	}

	products, err := s.products.ListBySeller(seller.ID)
	if err != nil {
		return nil, err
	}
	productNames := make(map[string]string, len(products))
	productIDs := make([]string, len(products))
	for i, p := range products {
		productIDs[i] = p.ID
		productNames[p.ID] = p.Name
	}

	orders, err := s.orders.ListByProducts(productIDs)
	if err != nil {
		return nil, err
	}

	views := make([]SellerOrderView, 0, len(orders))
	for _, order := range orders {
		buyerName := "Guest"
		shippingAddress := "No address provided"
		if buyer, err := s.customers.GetByID(order.BuyerID); err == nil {
			if buyer.FullName != "" {
				buyerName = buyer.FullName
			}
			if buyer.ShippingAddress != "" {
				shippingAddress = buyer.ShippingAddress
			}
		}
		views = append(views, SellerOrderView{
			OrderID:         order.ID,
			ProductName:     productNames[order.ProductID],
			Quantity:        order.Quantity,
			TotalPrice:      order.TotalPrice,
			Status:          order.Status,
			OrderDate:       order.OrderDate,
			BuyerName:       buyerName,
			ShippingAddress: shippingAddress,
			SelectedColor:   order.SelectedColor,
			SelectedSize:    order.SelectedSize,
		})
	}
	return views, nil
}

// GetCustomerOrders returns the order history for the customer attached to
// the given user identity, newest first.
func (s *OrderService) GetCustomerOrders(userID string) ([]CustomerOrderView, error) {
	customer, err := s.customers.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoProfile
		}
		return nil, fmt.Errorf("failed to look up customer profile: %w", err)
	}

	orders, err := s.orders.ListByBuyer(customer.ID)
	if err != nil {
		return nil, err
	}

	views := make([]CustomerOrderView, 0, len(orders))
	for _, order := range orders {
		productName := ""
		sellerName := ""
		if product, err := s.products.GetByID(order.ProductID); err == nil {
			productName = product.Name
			if seller, err := s.sellers.GetByID(product.SellerID); err == nil {
				sellerName = seller.ShopName
			}
		}
		views = append(views, CustomerOrderView{
			OrderID:       order.ID,
			ProductName:   productName,
			SellerName:    sellerName,
			Quantity:      order.Quantity,
			TotalPrice:    order.TotalPrice,
			Status:        order.Status,
			OrderDate:     order.OrderDate,
			SelectedColor: order.SelectedColor,
			SelectedSize:  order.SelectedSize,
		})
	}
	return views, nil
}

// UpdateOrderStatus moves an order to a new fulfillment status on behalf of
// the seller owning the order's product. Unknown statuses and transitions
// outside the fulfillment table are rejected.
func (s *OrderService) UpdateOrderStatus(orderID, sellerUserID string, newStatus models.OrderStatus) error {
	if !newStatus.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, newStatus)
	}

	seller, err := s.sellers.GetByUserID(sellerUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNoSellerProfile
		}
		return fmt.Errorf("failed to look up seller profile: %w", err)
	}

	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to look up order %s: %w", orderID, err)
	}

	product, err := s.products.GetByID(order.ProductID)
	if err != nil {
		return fmt.Errorf("failed to look up product for order %s: %w", orderID, err)
	}
	if product.SellerID != seller.ID {
		return ErrNotOwner
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, newStatus)
	}

	if err := s.orders.UpdateStatus(orderID, newStatus); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", orderID, err)
	}
	return nil
}
