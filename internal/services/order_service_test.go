package services_test

import (
	"testing"
	"time"

	"craftmarket/internal/models"
	"craftmarket/internal/repositories"
	"craftmarket/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type orderFixture struct {
	orders    *repositories.MockOrderRepository
	products  *repositories.MockProductRepository
	customers *repositories.MockCustomerRepository
	sellers   *repositories.MockSellerRepository
	service   *services.OrderService
}

func newOrderFixture() *orderFixture {
	orders := repositories.NewMockOrderRepository()
	products := repositories.NewMockProductRepository()
	customers := repositories.NewMockCustomerRepository()
	sellers := repositories.NewMockSellerRepository()
	return &orderFixture{
		orders:    orders,
		products:  products,
		customers: customers,
		sellers:   sellers,
		service:   services.NewOrderService(orders, products, customers, sellers),
	}
}

func (f *orderFixture) seedSeller(userID, shopName string) *models.Seller {
	seller := &models.Seller{UserID: userID, ShopName: shopName}
	_ = f.sellers.Create(seller)
	return seller
}

func (f *orderFixture) seedBuyer(userID, name, address string) *models.Customer {
	customer := &models.Customer{
		UserID:          userID,
		FullName:        name,
		Email:           "buyer@example.com",
		ShippingAddress: address,
	}
	_ = f.customers.Create(customer)
	return customer
}

func (f *orderFixture) seedProduct(id, sellerID, name string) *models.Product {
	product := &models.Product{
		ID:            id,
		SellerID:      sellerID,
		Name:          name,
		Price:         decimal.NewFromFloat(25.00),
		StockQuantity: 10,
	}
	_ = f.products.Create(product)
	return product
}

func (f *orderFixture) seedOrder(id, buyerID, productID string, status models.OrderStatus, placedAt time.Time) *models.Order {
	order := models.Order{
		ID:         id,
		BuyerID:    buyerID,
		ProductID:  productID,
		Quantity:   2,
		UnitPrice:  decimal.NewFromFloat(25.00),
		TotalPrice: decimal.NewFromFloat(50.00),
		Status:     status,
		OrderDate:  placedAt,
	}
	_ = f.orders.CreateBatch([]models.Order{order})
	return &order
}

func TestOrderService_UpdateOrderStatus_Success(t *testing.T) {
	f := newOrderFixture()
	seller := f.seedSeller("seller-user", "Clay Works")
	product := f.seedProduct("p1", seller.ID, "Vase")
	f.seedOrder("o1", "buyer-1", product.ID, models.OrderPending, time.Now())

	err := f.service.UpdateOrderStatus("o1", "seller-user", models.OrderProcessing)

	assert.NoError(t, err)
	order, _ := f.orders.GetByID("o1")
	assert.Equal(t, models.OrderProcessing, order.Status)
}

func TestOrderService_UpdateOrderStatus_RejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture()

	err := f.service.UpdateOrderStatus("o1", "seller-user", models.OrderStatus("Teleported"))

	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

func TestOrderService_UpdateOrderStatus_RequiresSellerProfile(t *testing.T) {
	f := newOrderFixture()

	err := f.service.UpdateOrderStatus("o1", "nobody", models.OrderProcessing)

	assert.ErrorIs(t, err, services.ErrNoSellerProfile)
}

func TestOrderService_UpdateOrderStatus_OrderNotFound(t *testing.T) {
	f := newOrderFixture()
	f.seedSeller("seller-user", "Clay Works")

	err := f.service.UpdateOrderStatus("missing", "seller-user", models.OrderProcessing)

	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus_RejectsForeignSeller(t *testing.T) {
	f := newOrderFixture()
	owner := f.seedSeller("owner-user", "Clay Works")
	f.seedSeller("intruder-user", "Rival Shop")
	product := f.seedProduct("p1", owner.ID, "Vase")
	f.seedOrder("o1", "buyer-1", product.ID, models.OrderPending, time.Now())

	err := f.service.UpdateOrderStatus("o1", "intruder-user", models.OrderProcessing)

	assert.ErrorIs(t, err, services.ErrNotOwner)
	order, _ := f.orders.GetByID("o1")
	assert.Equal(t, models.OrderPending, order.Status)
}

func TestOrderService_UpdateOrderStatus_RejectsIllegalTransition(t *testing.T) {
	f := newOrderFixture()
	seller := f.seedSeller("seller-user", "Clay Works")
	product := f.seedProduct("p1", seller.ID, "Vase")

	cases := []struct {
		name string
		from models.OrderStatus
		to   models.OrderStatus
	}{
		{"pending cannot skip to delivered", models.OrderPending, models.OrderDelivered},
		{"shipped cannot be cancelled", models.OrderShipped, models.OrderCancelled},
		{"delivered is terminal", models.OrderDelivered, models.OrderProcessing},
		{"cancelled is terminal", models.OrderCancelled, models.OrderPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.seedOrder("o-"+string(tc.from), "buyer-1", product.ID, tc.from, time.Now())

			err := f.service.UpdateOrderStatus("o-"+string(tc.from), "seller-user", tc.to)

			assert.ErrorIs(t, err, services.ErrIllegalTransition)
		})
	}
}

func TestOrderService_GetSellerOrders(t *testing.T) {
	f := newOrderFixture()
	seller := f.seedSeller("seller-user", "Clay Works")
	other := f.seedSeller("other-user", "Rival Shop")
	buyer := f.seedBuyer("buyer-user", "Abebe Bikila", "Addis Ababa, Bole")
	vase := f.seedProduct("p1", seller.ID, "Vase")
	rivalMug := f.seedProduct("p2", other.ID, "Mug")

	f.seedOrder("o-old", buyer.ID, vase.ID, models.OrderPending, time.Now().Add(-time.Hour))
	f.seedOrder("o-new", buyer.ID, vase.ID, models.OrderProcessing, time.Now())
	f.seedOrder("o-foreign", buyer.ID, rivalMug.ID, models.OrderPending, time.Now())

	views, err := f.service.GetSellerOrders("seller-user")

	assert.NoError(t, err)
	assert.Len(t, views, 2, "orders against other sellers' products must be excluded")
	assert.Equal(t, "o-new", views[0].OrderID, "newest order comes first")
	assert.Equal(t, "o-old", views[1].OrderID)
	assert.Equal(t, "Vase", views[0].ProductName)
	assert.Equal(t, "Abebe Bikila", views[0].BuyerName)
	assert.Equal(t, "Addis Ababa, Bole", views[0].ShippingAddress)
}

func TestOrderService_GetSellerOrders_UnknownBuyerGetsDefaults(t *testing.T) {
	f := newOrderFixture()
	seller := f.seedSeller("seller-user", "Clay Works")
	vase := f.seedProduct("p1", seller.ID, "Vase")
	f.seedOrder("o1", "ghost-buyer", vase.ID, models.OrderPending, time.Now())

	views, err := f.service.GetSellerOrders("seller-user")

	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, "Guest", views[0].BuyerName)
	assert.Equal(t, "No address provided", views[0].ShippingAddress)
}

func TestOrderService_GetSellerOrders_RequiresProfile(t *testing.T) {
	f := newOrderFixture()

	_, err := f.service.GetSellerOrders("nobody")

	assert.ErrorIs(t, err, services.ErrNoSellerProfile)
}

func TestOrderService_GetCustomerOrders(t *testing.T) {
	f := newOrderFixture()
	seller := f.seedSeller("seller-user", "Clay Works")
	buyer := f.seedBuyer("buyer-user", "Abebe Bikila", "Addis Ababa, Bole")
	vase := f.seedProduct("p1", seller.ID, "Vase")

	f.seedOrder("o-old", buyer.ID, vase.ID, models.OrderDelivered, time.Now().Add(-time.Hour))
	f.seedOrder("o-new", buyer.ID, vase.ID, models.OrderPending, time.Now())
	f.seedOrder("o-other", "someone-else", vase.ID, models.OrderPending, time.Now())

	views, err := f.service.GetCustomerOrders("buyer-user")

	assert.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, "o-new", views[0].OrderID)
	assert.Equal(t, "Vase", views[0].ProductName)
	assert.Equal(t, "Clay Works", views[0].SellerName)
	assert.True(t, views[0].TotalPrice.Equal(decimal.NewFromFloat(50.00)))
}

func TestOrderService_GetCustomerOrders_RequiresProfile(t *testing.T) {
	f := newOrderFixture()

	_, err := f.service.GetCustomerOrders("nobody")

	assert.ErrorIs(t, err, services.ErrNoProfile)
}
