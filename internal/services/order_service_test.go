package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ocpizza/ocpizza/internal/models"
	"github.com/ocpizza/ocpizza/internal/services"
)

// newTestDB opens an in-memory SQLite database with the schema migrated and
// the order statuses seeded.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	for _, label := range models.StatusLabels() {
		require.NoError(t, db.Create(&models.OrderStatus{Label: label}).Error)
	}
	return db
}

// pizzeriaFixture is the §8-style scenario: one outlet stocking 10 units of
// mozzarella (200g each), a Margherita recipe needing 150g of it, and a
// catalog entry selling the pizza at 8.90.
type pizzeriaFixture struct {
	address  models.Address
	pizzeria models.Pizzeria
	product  models.Product
	recipe   models.Recipe
	item     models.CatalogItem
	member   models.Member
}

func newPizzeriaFixture(t *testing.T, db *gorm.DB) pizzeriaFixture {
	t.Helper()
	var f pizzeriaFixture

	f.address = models.Address{StreetName: "rue Nationale", HomeNumber: "3", ZipCode: "37000"}
	require.NoError(t, db.Create(&f.address).Error)

	f.pizzeria = models.Pizzeria{Name: "OC Pizza #1", PhoneNb: "0102030405", AddressID: &f.address.ID}
	require.NoError(t, db.Create(&f.pizzeria).Error)

	f.product = models.Product{
		Name:         "mozzarella",
		Barcode:      "3057640000000",
		GramWeight:   200,
		UnitPriceATI: decimal.RequireFromString("3.50"),
	}
	require.NoError(t, db.Create(&f.product).Error)

	stock := services.NewStockService(db)
	require.NoError(t, stock.SetStock(f.pizzeria.ID, f.product.ID, 10))

	f.recipe = models.Recipe{Name: "Margherita", Description: "Tomato, mozzarella, basil.", IsPublic: true}
	catalog := services.NewCatalogService(db)
	require.NoError(t, catalog.CreateRecipe(&f.recipe, []models.RequiresProduct{
		{ProductID: f.product.ID, GramAmount: 150},
	}))

	f.item = models.CatalogItem{
		Name:         "Margherita Pizza",
		UnitPriceATI: decimal.RequireFromString("8.90"),
		IsAvailable:  true,
		IsDisplayed:  true,
		RecipeID:     &f.recipe.ID,
	}
	require.NoError(t, catalog.CreateCatalogItem(&f.item))

	f.member = models.Member{Name: "Moreau", Firstname: "Julie", AddressID: f.address.ID}
	require.NoError(t, db.Create(&f.member).Error)

	return f
}

func TestPlaceAndFulfillOrder(t *testing.T) {
	db := newTestDB(t)
	f := newPizzeriaFixture(t, db)
	orders := services.NewOrderService(db)
	stock := services.NewStockService(db)
	ctx := context.Background()

	order, err := orders.Place(ctx, services.PlaceOrderInput{
		MemberID:   f.member.ID,
		AddressID:  f.address.ID,
		PizzeriaID: f.pizzeria.ID,
		Lines:      []services.OrderLine{{ItemID: f.item.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)

	total, err := orders.Total(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "17.80", total.StringFixed(2))

	// Placing the order must not touch stock.
	qty, err := stock.GetStock(f.pizzeria.ID, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)

	bill, err := orders.Fulfill(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "17.80", bill.TotalAmountATI.StringFixed(2))
	assert.Equal(t, order.ID, bill.OrderID)

	// 2 pizzas x 150g = 300g of mozzarella; 200g units, so 2 units drawn.
	qty, err = stock.GetStock(f.pizzeria.ID, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, qty)

	var got models.TakenOrder
	require.NoError(t, db.Preload("Status").First(&got, order.ID).Error)
	assert.Equal(t, models.StatusCompleted, got.Status.Label)

	// A completed order cannot be fulfilled again, and cannot get a second bill.
	_, err = orders.Fulfill(ctx, order.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	var bills int64
	require.NoError(t, db.Model(&models.Bill{}).Where("order_id = ?", order.ID).Count(&bills).Error)
	assert.EqualValues(t, 1, bills)
}

func TestSnapshotPriceIgnoresLaterCatalogUpdates(t *testing.T) {
	db := newTestDB(t)
	f := newPizzeriaFixture(t, db)
	orders := services.NewOrderService(db)
	catalog := services.NewCatalogService(db)
	ctx := context.Background()

	order, err := orders.Place(ctx, services.PlaceOrderInput{
		MemberID:   f.member.ID,
		AddressID:  f.address.ID,
		PizzeriaID: f.pizzeria.ID,
		Lines:      []services.OrderLine{{ItemID: f.item.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, catalog.UpdateItemPrice(f.item.ID, decimal.RequireFromString("9.90")))

	total, err := orders.Total(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "17.80", total.StringFixed(2))

	bill, err := orders.Fulfill(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "17.80", bill.TotalAmountATI.StringFixed(2))
}

func TestFulfillFailsOnInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	f := newPizzeriaFixture(t, db)
	orders := services.NewOrderService(db)
	stock := services.NewStockService(db)
	ctx := context.Background()

	// 10 units of 200g cover 2000g; 14 pizzas need 2100g, i.e. 11 units.
	order, err := orders.Place(ctx, services.PlaceOrderInput{
		MemberID:   f.member.ID,
		AddressID:  f.address.ID,
		PizzeriaID: f.pizzeria.ID,
		Lines:      []services.OrderLine{{ItemID: f.item.ID, Quantity: 14}},
	})
	require.NoError(t, err)

	_, err = orders.Fulfill(ctx, order.ID)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	// The whole fulfilment rolled back: status, stock and bill untouched.
	var got models.TakenOrder
	require.NoError(t, db.Preload("Status").First(&got, order.ID).Error)
	assert.Equal(t, models.StatusAwaiting, got.Status.Label)

	qty, err := stock.GetStock(f.pizzeria.ID, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, qty)

	var bills int64
	require.NoError(t, db.Model(&models.Bill{}).Where("order_id = ?", order.ID).Count(&bills).Error)
	assert.EqualValues(t, 0, bills)
}

func TestPlaceRejectsEmptyAndUnavailable(t *testing.T) {
	db := newTestDB(t)
	f := newPizzeriaFixture(t, db)
	orders := services.NewOrderService(db)
	ctx := context.Background()

	_, err := orders.Place(ctx, services.PlaceOrderInput{
		MemberID: f.member.ID, AddressID: f.address.ID, PizzeriaID: f.pizzeria.ID,
	})
	assert.ErrorIs(t, err, services.ErrEmptyOrder)

	require.NoError(t, db.Model(&models.CatalogItem{}).Where("id = ?", f.item.ID).
		Update("is_available", false).Error)

	_, err = orders.Place(ctx, services.PlaceOrderInput{
		MemberID:   f.member.ID,
		AddressID:  f.address.ID,
		PizzeriaID: f.pizzeria.ID,
		Lines:      []services.OrderLine{{ItemID: f.item.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, services.ErrItemUnavailable)
}

func TestCancelFollowsTransitionTable(t *testing.T) {
	db := newTestDB(t)
	f := newPizzeriaFixture(t, db)
	orders := services.NewOrderService(db)
	ctx := context.Background()

	order, err := orders.Place(ctx, services.PlaceOrderInput{
		MemberID:   f.member.ID,
		AddressID:  f.address.ID,
		PizzeriaID: f.pizzeria.ID,
		Lines:      []services.OrderLine{{ItemID: f.item.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, orders.Cancel(ctx, order.ID))

	var got models.TakenOrder
	require.NoError(t, db.Preload("Status").First(&got, order.ID).Error)
	assert.Equal(t, models.StatusCancelled, got.Status.Label)

	// Cancelled is terminal.
	err = orders.UpdateStatus(ctx, order.ID, models.StatusAwaiting)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = orders.Fulfill(ctx, order.ID)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestUpdateStatusRejectsUnknownLabel(t *testing.T) {
	db := newTestDB(t)
	f := newPizzeriaFixture(t, db)
	orders := services.NewOrderService(db)
	ctx := context.Background()

	order, err := orders.Place(ctx, services.PlaceOrderInput{
		MemberID:   f.member.ID,
		AddressID:  f.address.ID,
		PizzeriaID: f.pizzeria.ID,
		Lines:      []services.OrderLine{{ItemID: f.item.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = orders.UpdateStatus(ctx, order.ID, "Shipped")
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestMarkPaid(t *testing.T) {
	db := newTestDB(t)
	f := newPizzeriaFixture(t, db)
	orders := services.NewOrderService(db)
	ctx := context.Background()

	order, err := orders.Place(ctx, services.PlaceOrderInput{
		MemberID:   f.member.ID,
		AddressID:  f.address.ID,
		PizzeriaID: f.pizzeria.ID,
		Lines:      []services.OrderLine{{ItemID: f.item.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.False(t, order.IsPaid)

	require.NoError(t, orders.MarkPaid(ctx, order.ID))

	var got models.TakenOrder
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.True(t, got.IsPaid)
}

func TestStockDecrementGuard(t *testing.T) {
	db := newTestDB(t)
	f := newPizzeriaFixture(t, db)
	stock := services.NewStockService(db)

	require.NoError(t, stock.Decrement(nil, f.pizzeria.ID, f.product.ID, 10))

	qty, err := stock.GetStock(f.pizzeria.ID, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)

	err = stock.Decrement(nil, f.pizzeria.ID, f.product.ID, 1)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	// Unknown product behaves like empty stock.
	err = stock.Decrement(nil, f.pizzeria.ID, f.product.ID+100, 1)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)
}

func TestAttachAccount(t *testing.T) {
	db := newTestDB(t)
	f := newPizzeriaFixture(t, db)
	members := services.NewMemberService(db)

	account, err := members.AttachAccount(f.member.ID, "julie@ocpizza.example", "0611223344", "s3cret")
	require.NoError(t, err)
	assert.True(t, account.CheckPassword("s3cret"))

	_, err = members.AttachAccount(f.member.ID, "julie@ocpizza.example", "", "other")
	assert.EqualError(t, err, "account_already_exists")

	got, err := members.GetAccountByEmail("julie@ocpizza.example")
	require.NoError(t, err)
	assert.Equal(t, f.member.ID, got.MemberID)
}
