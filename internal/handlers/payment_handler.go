package handlers

import (
	"errors"
	"log"

	"craftmarket/internal/repositories"
	"craftmarket/internal/services"
	"craftmarket/pkg/invoice"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles HTTP requests for payment initialization,
// verification, and invoice download.
type PaymentHandler struct {
	paymentService *services.PaymentService
	customers      repositories.CustomerRepository
	renderer       *invoice.Renderer
	validate       *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *services.PaymentService, customers repositories.CustomerRepository, renderer *invoice.Renderer) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		customers:      customers,
		renderer:       renderer,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/initialize", h.HandleInitialize)
	paymentRoutes.Get("/verify/:txRef", h.HandleVerify)
	paymentRoutes.Get("/invoice/:txRef", h.HandleInvoice)
}

// InitializePaymentRequest represents the request body for initialization.
type InitializePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Email     string          `json:"email" validate:"required,email"`
	FirstName string          `json:"first_name" validate:"required"`
	LastName  string          `json:"last_name" validate:"required"`
}

// HandleInitialize starts a payment at the gateway and returns the redirect
// URL plus the transaction reference.
func (h *PaymentHandler) HandleInitialize(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req InitializePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing initialize request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	result, err := h.paymentService.Initialize(c.UserContext(), userID, req.Email, req.FirstName, req.LastName, req.Amount)
	if err != nil {
		log.Printf("Error initializing payment for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Amount must be greater than zero.",
			})
		case errors.Is(err, services.ErrGatewayUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": "Payment gateway is unavailable. Please try again.",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not initialize payment",
			"error":   err.Error(),
		})
	}

	return c.JSON(result)
}

// HandleVerify reconciles a payment against the gateway and returns its
// status. The purchaser's browser hits this after the gateway redirect.
func (h *PaymentHandler) HandleVerify(c *fiber.Ctx) error {
	txRef := c.Params("txRef")

	status, err := h.paymentService.Verify(c.UserContext(), txRef)
	if err != nil {
		log.Printf("Error verifying payment %s: %v", txRef, err)
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Transaction not found",
			})
		case errors.Is(err, services.ErrGatewayUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": "Payment gateway is unavailable. Please try again.",
				"status":  status,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not verify payment",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": status})
}

// HandleInvoice renders the invoice PDF for a successful payment. Payments
// that are Pending or Failed are refused before the renderer is reached.
func (h *PaymentHandler) HandleInvoice(c *fiber.Ctx) error {
	txRef := c.Params("txRef")

	payment, err := h.paymentService.GetByTxRef(txRef)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Transaction not found",
			})
		}
		log.Printf("Error loading payment %s for invoice: %v", txRef, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load payment",
			"error":   err.Error(),
		})
	}

	if !h.paymentService.CanIssueInvoice(payment) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Invoice is only available for successful payments",
			"status":  payment.Status,
		})
	}

	billToName := ""
	if customer, err := h.customers.GetByUserID(payment.UserID); err == nil {
		billToName = customer.FullName
	}

	pdf, err := h.renderer.GenerateInvoice(payment, billToName, payment.Email)
	if err != nil {
		log.Printf("Error rendering invoice for %s: %v", txRef, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not render invoice",
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoice-`+txRef+`.pdf"`)
	return c.Send(pdf)
}
