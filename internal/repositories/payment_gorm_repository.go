package repositories

import (
	"errors"
	"fmt"
	"time"

	"craftmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{
		db: db,
	}
}

// Create inserts a new payment row.
func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment %s: %w", payment.TxRef, err)
	}
	return nil
}

// GetByTxRef retrieves a payment by its transaction reference.
func (r *GORMPaymentRepository) GetByTxRef(txRef string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "tx_ref = ?", txRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment with txRef %s: %w", txRef, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment by txRef %s: %w", txRef, err)
	}
	return &payment, nil
}

// ListByUser retrieves a user's payments, newest first.
func (r *GORMPaymentRepository) ListByUser(userID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Order("created_at desc").Find(&payments, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments for user %s: %w", userID, err)
	}
	return payments, nil
}

// MarkVerified performs the Pending -> terminal compare-and-swap. The WHERE
// clause on status guarantees only one concurrent verifier wins.
func (r *GORMPaymentRepository) MarkVerified(txRef string, status models.PaymentStatus, verifiedAt time.Time) (bool, error) {
	res := r.db.Model(&models.Payment{}).
		Where("tx_ref = ? AND status = ?", txRef, models.PaymentPending).
		Updates(map[string]interface{}{
			"status":      status,
			"verified_at": verifiedAt,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark payment %s as %s: %w", txRef, status, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListStalePending returns payments still Pending created before the cutoff.
func (r *GORMPaymentRepository) ListStalePending(before time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.
		Where("status = ? AND created_at < ?", models.PaymentPending, before).
		Order("created_at asc").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending payments: %w", err)
	}
	return payments, nil
}
