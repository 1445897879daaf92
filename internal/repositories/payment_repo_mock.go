package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"craftmarket/internal/models"

	"github.com/google/uuid"
)

// MockPaymentRepository is an in-memory implementation of PaymentRepository.
type MockPaymentRepository struct {
	payments map[string]models.Payment // keyed by txRef
	mu       sync.RWMutex
}

// NewMockPaymentRepository creates a new instance of MockPaymentRepository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]models.Payment),
	}
}

// Create adds a new payment.
func (r *MockPaymentRepository) Create(payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.payments[payment.TxRef]; exists {
		return fmt.Errorf("payment with txRef %s already exists", payment.TxRef)
	}
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	r.payments[payment.TxRef] = *payment
	return nil
}

// GetByTxRef returns a payment by its transaction reference.
func (r *MockPaymentRepository) GetByTxRef(txRef string) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	payment, ok := r.payments[txRef]
	if !ok {
		return nil, fmt.Errorf("payment with txRef %s: %w", txRef, ErrNotFound)
	}
	return &payment, nil
}

// ListByUser returns a user's payments, newest first.
func (r *MockPaymentRepository) ListByUser(userID string) ([]models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var payments []models.Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}

// MarkVerified performs the Pending -> terminal compare-and-swap.
func (r *MockPaymentRepository) MarkVerified(txRef string, status models.PaymentStatus, verifiedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[txRef]
	if !ok {
		return false, fmt.Errorf("payment with txRef %s: %w", txRef, ErrNotFound)
	}
	if payment.Status != models.PaymentPending {
		return false, nil
	}
	payment.Status = status
	payment.VerifiedAt = &verifiedAt
	r.payments[txRef] = payment
	return true, nil
}

// ListStalePending returns payments still Pending created before the cutoff.
func (r *MockPaymentRepository) ListStalePending(before time.Time) ([]models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var payments []models.Payment
	for _, p := range r.payments {
		if p.Status == models.PaymentPending && p.CreatedAt.Before(before) {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].CreatedAt.Before(payments[j].CreatedAt)
	})
	return payments, nil
}
