package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the closed set of states a payment can be in.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentSuccess PaymentStatus = "Success"
	PaymentFailed  PaymentStatus = "Failed"
)

// Terminal reports whether the status is final. A terminal payment never
// transitions again; re-verification returns the stored status.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

// Payment represents one initialized gateway transaction. TxRef is the
// client-generated reference correlating this row to the remote transaction;
// it is unique and immutable once created.
type Payment struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string          `json:"user_id" gorm:"index;type:varchar(36)"`
	TxRef         string          `json:"tx_ref" gorm:"uniqueIndex;type:varchar(40)"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(18,2)"`
	Currency      string          `json:"currency" gorm:"type:varchar(8)"`
	Email         string          `json:"email"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(10)"`
	PaymentMethod string          `json:"payment_method"` // card, telebirr, etc.
	CreatedAt     time.Time       `json:"created_at"`
	VerifiedAt    *time.Time      `json:"verified_at,omitempty"`
}
