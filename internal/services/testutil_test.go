package services

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hafizsameer11/colala-api-sub004/internal/database"
	"github.com/hafizsameer11/colala-api-sub004/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema. Each
// test gets its own named database so parallel tests cannot interfere.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(conn); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return conn
}

// fixture wires every service against one test database and seeds the
// minimal marketplace: a buyer with an address and a cart, and a seller
// with a store offering one delivery option.
type fixture struct {
	t  *testing.T
	db *gorm.DB

	notifications *NotificationService
	escrow        *EscrowService
	checkout      *CheckoutService
	sellerOrders  *SellerOrderService
	payment       *PaymentService
	disputes      *DisputeService
	admin         *AdminService
	boosts        *BoostService

	buyer     models.User
	seller    models.User
	adminUser models.User
	store     models.Store
	pricing   models.DeliveryPricing
	address   models.UserAddress
	cart      models.Cart
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	f := &fixture{t: t, db: db}

	f.notifications = NewNotificationService(db)
	f.escrow = NewEscrowService(db)
	f.checkout = NewCheckoutService(db, 0, f.notifications, nil)
	f.sellerOrders = NewSellerOrderService(db, f.notifications, nil)
	f.payment = NewPaymentService(db, f.escrow, f.notifications, nil)
	f.disputes = NewDisputeService(db, f.escrow, f.notifications, nil)
	f.admin = NewAdminService(db, f.escrow, f.notifications)
	f.boosts = NewBoostService(db)

	f.buyer = f.createUser("buyer@example.com", models.RoleBuyer)
	f.seller = f.createUser("seller@example.com", models.RoleSeller)
	f.adminUser = f.createUser("admin@example.com", models.RoleAdmin)

	f.store = f.createStore(f.seller, "Gadget Corner")
	f.pricing = f.createDeliveryPricing(f.store, "Standard", 3)

	f.address = models.UserAddress{
		UserID:      f.buyer.ID,
		AddressLine: "12 Market Road",
		City:        "Lagos",
		State:       "Lagos",
	}
	f.mustCreate(&f.address)

	f.cart = models.Cart{UserID: f.buyer.ID}
	f.mustCreate(&f.cart)

	return f
}

func (f *fixture) mustCreate(value interface{}) {
	f.t.Helper()
	if err := f.db.Create(value).Error; err != nil {
		f.t.Fatalf("seed %T: %v", value, err)
	}
}

func (f *fixture) must(err error) {
	f.t.Helper()
	if err != nil {
		f.t.Fatalf("unexpected error: %v", err)
	}
}

func (f *fixture) createUser(email, role string) models.User {
	f.t.Helper()
	user := models.User{
		FullName:     "Test " + role,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	f.mustCreate(&user)
	return user
}

func (f *fixture) createStore(owner models.User, name string) models.Store {
	f.t.Helper()
	store := models.Store{
		OwnerID:  owner.ID,
		Name:     name,
		Slug:     uuid.NewString(),
		IsActive: true,
	}
	f.mustCreate(&store)
	return store
}

func (f *fixture) createDeliveryPricing(store models.Store, label string, price float64) models.DeliveryPricing {
	f.t.Helper()
	pricing := models.DeliveryPricing{
		StoreID:  store.ID,
		Label:    label,
		Price:    price,
		IsActive: true,
	}
	f.mustCreate(&pricing)
	return pricing
}

func (f *fixture) addProduct(store models.Store, name string, price float64) models.Product {
	f.t.Helper()
	product := models.Product{
		StoreID:  store.ID,
		Name:     name,
		Price:    price,
		Quantity: 100,
		IsActive: true,
	}
	f.mustCreate(&product)
	return product
}

func (f *fixture) addToCart(product models.Product, quantity int) models.CartItem {
	f.t.Helper()
	item := models.CartItem{
		CartID:        f.cart.ID,
		ProductID:     product.ID,
		Quantity:      quantity,
		SnapshotPrice: product.Price,
	}
	f.mustCreate(&item)
	return item
}

func (f *fixture) checkoutRequest() CheckoutRequest {
	return CheckoutRequest{
		DeliveryAddressID:  f.address.ID,
		DeliveryPricingIDs: []uuid.UUID{f.pricing.ID},
		PaymentMethod:      "wallet",
	}
}

// placeStandardOrder seeds a two-line cart (10.00 x2 and 5.00 x1, shipping
// 3.00) and places it, yielding one store order totalling 28.00.
func (f *fixture) placeStandardOrder() *models.Order {
	f.t.Helper()

	widget := f.addProduct(f.store, "Widget", 10)
	gadget := f.addProduct(f.store, "Gadget", 5)
	f.addToCart(widget, 2)
	f.addToCart(gadget, 1)

	order, err := f.checkout.Place(f.buyer.ID, f.checkoutRequest())
	f.must(err)
	if len(order.StoreOrders) != 1 {
		f.t.Fatalf("expected 1 store order, got %d", len(order.StoreOrders))
	}
	return order
}

// acceptedStoreOrder places the standard order and has the seller accept it
// with the given delivery fee.
func (f *fixture) acceptedStoreOrder(fee float64) (*models.Order, *models.StoreOrder) {
	f.t.Helper()

	order := f.placeStandardOrder()
	storeOrder, err := f.sellerOrders.Accept(f.seller.ID, order.StoreOrders[0].ID, AcceptRequest{DeliveryFee: fee})
	f.must(err)
	return order, storeOrder
}

// paidStoreOrder runs the standard order through acceptance (fee 3.00) and
// payment, leaving escrow locked for 28.00.
func (f *fixture) paidStoreOrder() (*models.Order, *models.StoreOrder) {
	f.t.Helper()

	order, storeOrder := f.acceptedStoreOrder(3)
	_, err := f.payment.ConfirmPayment(f.buyer.ID, order.ID, "ref-"+uuid.NewString())
	f.must(err)

	var reloaded models.StoreOrder
	f.must(f.db.Preload("Items").First(&reloaded, "id = ?", storeOrder.ID).Error)
	return order, &reloaded
}

func (f *fixture) storeOrderStatus(id uuid.UUID) models.StoreOrderStatus {
	f.t.Helper()
	var storeOrder models.StoreOrder
	f.must(f.db.First(&storeOrder, "id = ?", id).Error)
	return storeOrder.Status
}

func (f *fixture) orderByID(id uuid.UUID) models.Order {
	f.t.Helper()
	var order models.Order
	f.must(f.db.First(&order, "id = ?", id).Error)
	return order
}

func (f *fixture) escrowRows(storeOrderID uuid.UUID) []models.Escrow {
	f.t.Helper()
	var rows []models.Escrow
	f.must(f.db.Where("store_order_id = ?", storeOrderID).Find(&rows).Error)
	return rows
}

func (f *fixture) wallet(userID uuid.UUID) models.Wallet {
	f.t.Helper()
	var wallet models.Wallet
	err := f.db.First(&wallet, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return models.Wallet{UserID: userID}
	}
	f.must(err)
	return wallet
}

func (f *fixture) notificationCount(userID uuid.UUID, title string) int64 {
	f.t.Helper()
	var count int64
	f.must(f.db.Model(&models.Notification{}).
		Where("user_id = ? AND title = ?", userID, title).
		Count(&count).Error)
	return count
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
