package handlers

import (
	"errors"
	"fmt"
	"log"

	"craftmarket/internal/models"
	"craftmarket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout, order listings, and
// fulfillment updates.
type OrderHandler struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
	validate        *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkoutService *services.CheckoutService, orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/checkout", h.HandleCheckout)
	orderRoutes.Get("/customer-orders", h.HandleGetCustomerOrders)
	orderRoutes.Get("/seller-orders", h.HandleGetSellerOrders)
	orderRoutes.Put("/:id/status", h.HandleUpdateOrderStatus)
}

// CheckoutRequest represents the request body for checkout.
type CheckoutRequest struct {
	Items []services.CartItem `json:"items" validate:"required,min=1,dive"`
}

// HandleCheckout converts the caller's cart into orders.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.checkoutService.Checkout(userID, req.Items)
	if err != nil {
		log.Printf("Error during checkout for user %s: %v", userID, err)

		var notFound *services.ProductNotFoundError
		var noStock *services.InsufficientStockError
		switch {
		case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrNoProfile):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Checkout failed",
				"error":   err.Error(),
			})
		case errors.As(err, &notFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message":    "Checkout failed",
				"error":      err.Error(),
				"product_id": notFound.ProductID,
			})
		case errors.As(err, &noStock):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message":    "Checkout failed due to insufficient stock",
				"error":      err.Error(),
				"product_id": noStock.ProductID,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not complete checkout",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Checkout successful!",
		"total":   result.Total,
		"orders":  result.Orders,
	})
}

// HandleGetCustomerOrders returns the caller's order history.
func (h *OrderHandler) HandleGetCustomerOrders(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	orders, err := h.orderService.GetCustomerOrders(userID)
	if err != nil {
		log.Printf("Error getting customer orders for user %s: %v", userID, err)
		if errors.Is(err, services.ErrNoProfile) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Customer profile not found. Please create a profile first.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetSellerOrders returns the dashboard rows for the caller's shop.
func (h *OrderHandler) HandleGetSellerOrders(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	orders, err := h.orderService.GetSellerOrders(userID)
	if err != nil {
		log.Printf("Error getting seller orders for user %s: %v", userID, err)
		if errors.Is(err, services.ErrNoSellerProfile) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Seller profile not found.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus moves an order through the fulfillment lifecycle on
// behalf of the owning seller.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	orderID := c.Params("id")

	var updateData struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(updateData); err != nil {
		return validationErrorResponse(c, err)
	}

	err := h.orderService.UpdateOrderStatus(orderID, userID, models.OrderStatus(updateData.Status))
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found.",
			})
		case errors.Is(err, services.ErrNoSellerProfile):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Seller profile not found.",
			})
		case errors.Is(err, services.ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You are not authorized to manage this order.",
			})
		case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrIllegalTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Order update failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}

// validationErrorResponse turns validator errors into the shared 400 envelope.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
