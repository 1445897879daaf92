package repositories

import (
	"time"

	"craftmarket/internal/models"
)

// PaymentRepository defines the interface for payment data access. A payment
// row is created once per initialized gateway transaction; the only mutation
// is the Pending -> terminal transition performed by MarkVerified.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByTxRef(txRef string) (*models.Payment, error)
	ListByUser(userID string) ([]models.Payment, error)

	// MarkVerified transitions the payment from Pending to the given terminal
	// status. It is a compare-and-swap: the update applies only if the stored
	// status is still Pending, and the return value reports whether this call
	// performed the transition.
	MarkVerified(txRef string, status models.PaymentStatus, verifiedAt time.Time) (bool, error)

	// ListStalePending returns payments still Pending that were created
	// before the cutoff, for the reconciliation sweep.
	ListStalePending(before time.Time) ([]models.Payment, error)
}
