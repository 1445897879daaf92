package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"craftmarket/internal/gateway"
	"craftmarket/internal/models"
	"craftmarket/internal/repositories"
	"craftmarket/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InitializeResult carries the gateway redirect URL and the local reference
// for a freshly initialized payment.
type InitializeResult struct {
	CheckoutURL string `json:"checkoutUrl"`
	TxRef       string `json:"txRef"`
}

// PaymentService owns the payment lifecycle: initialization against the
// gateway, caller-triggered reconciliation, the stale-pending sweep, and the
// invoice eligibility gate.
type PaymentService struct {
	payments repositories.PaymentRepository
	gateway  gateway.PaymentGateway
	mqClient *rabbitmq.Client // RabbitMQ client, may be nil
	currency string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(payments repositories.PaymentRepository, gw gateway.PaymentGateway, mqClient *rabbitmq.Client, currency string) *PaymentService {
	return &PaymentService{
		payments: payments,
		gateway:  gw,
		mqClient: mqClient,
		currency: currency,
	}
}

// newTxRef generates a fresh transaction reference, e.g. "TX-ab12cd34".
func newTxRef() string {
	return "TX-" + uuid.New().String()[:8]
}

// Initialize registers a transaction with the gateway and records it locally
// as Pending. The gateway call comes first: if it fails, no payment row is
// created. If the local write fails afterwards, the remote transaction
// already exists, so the failure is logged and the checkout URL is still
// returned rather than blocking a real payment attempt.
func (s *PaymentService) Initialize(ctx context.Context, userID, email, firstName, lastName string, amount decimal.Decimal) (*InitializeResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	txRef := newTxRef()

	checkoutURL, err := s.gateway.InitializeTransaction(ctx, txRef, amount, email, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	payment := &models.Payment{
		ID:        uuid.New().String(),
		UserID:    userID,
		TxRef:     txRef,
		Amount:    amount,
		Currency:  s.currency,
		Email:     email,
		Status:    models.PaymentPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.payments.Create(payment); err != nil {
		log.Printf("PAYMENT: gateway transaction %s initialized but local record not persisted: %v", txRef, err)
	}

	return &InitializeResult{CheckoutURL: checkoutURL, TxRef: txRef}, nil
}

// Verify reconciles the local payment against the gateway's authoritative
// state. A payment already in a terminal state short-circuits without a
// gateway call. Otherwise the gateway is queried: an affirmed success maps
// to Success, a reachable gateway reporting anything else maps to Failed,
// and a transport failure leaves the payment Pending with a retryable error.
// The Pending -> terminal write is a compare-and-swap; a concurrent verifier
// that loses the race returns the winner's stored status.
func (s *PaymentService) Verify(ctx context.Context, txRef string) (models.PaymentStatus, error) {
	payment, err := s.payments.GetByTxRef(txRef)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrPaymentNotFound
		}
		return "", fmt.Errorf("failed to look up payment %s: %w", txRef, err)
	}

	if payment.Status.Terminal() {
		return payment.Status, nil
	}

	settled, err := s.gateway.VerifyTransaction(ctx, txRef)
	if err != nil {
		return models.PaymentPending, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	next := models.PaymentFailed
	if settled {
		next = models.PaymentSuccess
	}

	swapped, err := s.payments.MarkVerified(txRef, next, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to record verification of %s: %w", txRef, err)
	}
	if !swapped {
		// Another verifier won the race; report what it decided.
		current, err := s.payments.GetByTxRef(txRef)
		if err != nil {
			return "", fmt.Errorf("failed to re-read payment %s: %w", txRef, err)
		}
		return current.Status, nil
	}

	s.publishPaymentVerified(payment, next)

	return next, nil
}

// GetByTxRef exposes a payment lookup by transaction reference.
func (s *PaymentService) GetByTxRef(txRef string) (*models.Payment, error) {
	payment, err := s.payments.GetByTxRef(txRef)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// CanIssueInvoice reports whether an invoice may be rendered for the
// payment. Only a successful payment is eligible; the renderer must never be
// invoked otherwise.
func (s *PaymentService) CanIssueInvoice(payment *models.Payment) bool {
	return payment != nil && payment.Status == models.PaymentSuccess
}

// ReconcileStale re-verifies payments that have been Pending longer than
// olderThan. It is driven by a ticker in main and exists because nothing
// guarantees the purchaser's browser ever comes back from the gateway
// redirect. It returns the number of payments examined.
func (s *PaymentService) ReconcileStale(ctx context.Context, olderThan time.Duration) int {
	cutoff := time.Now().UTC().Add(-olderThan)
	stale, err := s.payments.ListStalePending(cutoff)
	if err != nil {
		log.Printf("PAYMENT SWEEP: failed to list stale pending payments: %v", err)
		return 0
	}

	for _, payment := range stale {
		status, err := s.Verify(ctx, payment.TxRef)
		if err != nil {
			log.Printf("PAYMENT SWEEP: could not reconcile %s: %v", payment.TxRef, err)
			continue
		}
		log.Printf("PAYMENT SWEEP: reconciled %s to %s", payment.TxRef, status)
	}
	return len(stale)
}

// publishPaymentVerified emits a best-effort payment.verified event. Failures
// are logged and never fail the verification.
func (s *PaymentService) publishPaymentVerified(payment *models.Payment, status models.PaymentStatus) {
	if s.mqClient == nil {
		return
	}

	event := map[string]interface{}{
		"event":       "payment.verified",
		"txRef":       payment.TxRef,
		"userID":      payment.UserID,
		"email":       payment.Email,
		"amount":      payment.Amount,
		"currency":    payment.Currency,
		"status":      status,
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.mqClient.PublishJSON(rabbitmq.PaymentEventsQueue, event); err != nil {
		log.Printf("Warning: Failed to publish payment verified event for %s: %v", payment.TxRef, err)
	}
}
