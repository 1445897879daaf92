package repositories_test

import (
	"sync"
	"testing"

	"craftmarket/internal/models"
	"craftmarket/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func seedStock(t *testing.T, repo *repositories.MockProductRepository, id string, stock int) {
	t.Helper()
	err := repo.Create(&models.Product{
		ID:            id,
		SellerID:      "seller-1",
		Name:          "Product " + id,
		Price:         decimal.NewFromFloat(10.00),
		StockQuantity: stock,
	})
	assert.NoError(t, err)
}

func TestMockProductRepository_Reserve_ConcurrentWithinStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedStock(t, repo, "p1", 100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Reserve("p1", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	product, err := repo.GetByID("p1")
	assert.NoError(t, err)
	assert.Equal(t, 0, product.StockQuantity)
	assert.Equal(t, 100, product.OrderCount)
	assert.True(t, product.IsTrending)
}

func TestMockProductRepository_Reserve_ConcurrentOversubscribed(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedStock(t, repo, "p1", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	rejected := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Reserve("p1", 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 15, rejected)

	product, err := repo.GetByID("p1")
	assert.NoError(t, err)
	assert.Equal(t, 0, product.StockQuantity, "stock must never go negative")
}

func TestMockProductRepository_Reserve_RejectsInvalidQuantity(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedStock(t, repo, "p1", 10)

	for _, qty := range []int{0, -3} {
		_, err := repo.Reserve("p1", qty)
		assert.ErrorIs(t, err, repositories.ErrInvalidQuantity)
	}

	product, _ := repo.GetByID("p1")
	assert.Equal(t, 10, product.StockQuantity)
}

func TestMockProductRepository_ReserveAll_AllOrNothing(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedStock(t, repo, "a", 10)
	seedStock(t, repo, "b", 1)

	_, err := repo.ReserveAll([]repositories.ReservationLine{
		{ProductID: "a", Quantity: 2},
		{ProductID: "b", Quantity: 5},
	})

	var lineErr *repositories.LineError
	assert.ErrorAs(t, err, &lineErr)
	assert.Equal(t, "b", lineErr.ProductID)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	a, _ := repo.GetByID("a")
	assert.Equal(t, 10, a.StockQuantity, "a failing line must leave earlier lines untouched")
	assert.Equal(t, 0, a.OrderCount)
}

func TestMockProductRepository_ReserveAll_DuplicateLinesShareStock(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedStock(t, repo, "p1", 5)

	// 3 + 3 exceeds stock even though each line fits on its own.
	_, err := repo.ReserveAll([]repositories.ReservationLine{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p1", Quantity: 3},
	})

	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
	product, _ := repo.GetByID("p1")
	assert.Equal(t, 5, product.StockQuantity)
}

func TestMockProductRepository_ReserveAll_ReturnsProductsPositionally(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedStock(t, repo, "a", 10)
	seedStock(t, repo, "b", 10)

	products, err := repo.ReserveAll([]repositories.ReservationLine{
		{ProductID: "b", Quantity: 1},
		{ProductID: "a", Quantity: 4},
	})

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "b", products[0].ID)
	assert.Equal(t, "a", products[1].ID)
	assert.Equal(t, 6, products[1].StockQuantity)
	assert.Equal(t, 4, products[1].OrderCount)
}

func TestMockProductRepository_Reserve_UnknownProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()

	_, err := repo.Reserve("ghost", 1)

	var lineErr *repositories.LineError
	assert.ErrorAs(t, err, &lineErr)
	assert.Equal(t, "ghost", lineErr.ProductID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestMockProductRepository_TrendingLatchNeverResets(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	seedStock(t, repo, "p1", 20)

	product, err := repo.Reserve("p1", models.TrendingOrderThreshold)
	assert.NoError(t, err)
	assert.True(t, product.IsTrending)

	// More reservations keep the flag set.
	product, err = repo.Reserve("p1", 1)
	assert.NoError(t, err)
	assert.True(t, product.IsTrending)
}
