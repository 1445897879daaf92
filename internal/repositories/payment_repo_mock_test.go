package repositories_test

import (
	"sync"
	"testing"
	"time"

	"craftmarket/internal/models"
	"craftmarket/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func seedPayment(t *testing.T, repo *repositories.MockPaymentRepository, txRef string, status models.PaymentStatus, createdAt time.Time) {
	t.Helper()
	err := repo.Create(&models.Payment{
		UserID:    "user-1",
		TxRef:     txRef,
		Amount:    decimal.NewFromFloat(100.00),
		Currency:  "ETB",
		Email:     "buyer@example.com",
		Status:    status,
		CreatedAt: createdAt,
	})
	assert.NoError(t, err)
}

func TestMockPaymentRepository_Create_RejectsDuplicateTxRef(t *testing.T) {
	repo := repositories.NewMockPaymentRepository()
	seedPayment(t, repo, "TX-aaaa1111", models.PaymentPending, time.Now())

	err := repo.Create(&models.Payment{TxRef: "TX-aaaa1111", Status: models.PaymentPending})

	assert.Error(t, err)
}

func TestMockPaymentRepository_MarkVerified_SwapsOnlyOnce(t *testing.T) {
	repo := repositories.NewMockPaymentRepository()
	seedPayment(t, repo, "TX-aaaa1111", models.PaymentPending, time.Now())

	swapped, err := repo.MarkVerified("TX-aaaa1111", models.PaymentSuccess, time.Now())
	assert.NoError(t, err)
	assert.True(t, swapped)

	// A losing second verifier must not overwrite the terminal state.
	swapped, err = repo.MarkVerified("TX-aaaa1111", models.PaymentFailed, time.Now())
	assert.NoError(t, err)
	assert.False(t, swapped)

	payment, err := repo.GetByTxRef("TX-aaaa1111")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, payment.Status)
	assert.NotNil(t, payment.VerifiedAt)
}

func TestMockPaymentRepository_MarkVerified_ConcurrentSingleWinner(t *testing.T) {
	repo := repositories.NewMockPaymentRepository()
	seedPayment(t, repo, "TX-aaaa1111", models.PaymentPending, time.Now())

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			swapped, err := repo.MarkVerified("TX-aaaa1111", models.PaymentSuccess, time.Now())
			assert.NoError(t, err)
			if swapped {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestMockPaymentRepository_ListStalePending(t *testing.T) {
	repo := repositories.NewMockPaymentRepository()
	cutoff := time.Now()

	seedPayment(t, repo, "TX-old11111", models.PaymentPending, cutoff.Add(-time.Hour))
	seedPayment(t, repo, "TX-older222", models.PaymentPending, cutoff.Add(-2*time.Hour))
	seedPayment(t, repo, "TX-fresh333", models.PaymentPending, cutoff.Add(time.Minute))
	seedPayment(t, repo, "TX-done4444", models.PaymentSuccess, cutoff.Add(-3*time.Hour))

	stale, err := repo.ListStalePending(cutoff)

	assert.NoError(t, err)
	assert.Len(t, stale, 2)
	assert.Equal(t, "TX-older222", stale[0].TxRef, "oldest first")
	assert.Equal(t, "TX-old11111", stale[1].TxRef)
}

func TestMockPaymentRepository_ListByUser_NewestFirst(t *testing.T) {
	repo := repositories.NewMockPaymentRepository()
	now := time.Now()
	seedPayment(t, repo, "TX-first111", models.PaymentPending, now.Add(-time.Hour))
	seedPayment(t, repo, "TX-second22", models.PaymentSuccess, now)

	payments, err := repo.ListByUser("user-1")

	assert.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Equal(t, "TX-second22", payments[0].TxRef)
}
