package seed

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
)

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
	return db
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestFeederPopulatesWholeSchema(t *testing.T) {
	db := newTestDB(t)
	size := 5

	require.NoError(t, NewFeeder(db, size).Populate(context.Background()))

	// Size-driven tables.
	assert.EqualValues(t, size, count(t, db, &models.Address{}))
	assert.EqualValues(t, size, count(t, db, &models.Member{}))
	assert.EqualValues(t, size, count(t, db, &models.UserAccount{}))
	assert.EqualValues(t, size, count(t, db, &models.TakenOrder{}))

	// Vocabulary-driven tables.
	assert.EqualValues(t, len(pizzeriaNames), count(t, db, &models.Pizzeria{}))
	assert.EqualValues(t, len(productNames), count(t, db, &models.Product{}))
	assert.EqualValues(t, len(recipeNames), count(t, db, &models.Recipe{}))
	assert.EqualValues(t, len(recipeNames), count(t, db, &models.CatalogItem{}))
	assert.EqualValues(t, len(keywordNames), count(t, db, &models.Keyword{}))
	assert.EqualValues(t, len(roleNames), count(t, db, &models.Role{}))
	assert.EqualValues(t, len(permissionLabels), count(t, db, &models.Permission{}))
	assert.EqualValues(t, len(models.StatusLabels()), count(t, db, &models.OrderStatus{}))

	// Junction tables: duplicates are skipped, so between 1 and size rows.
	for _, model := range []any{
		&models.HasPermissionTo{}, &models.ContainsItem{},
		&models.RequiresProduct{}, &models.HasProductInStock{}, &models.HasKeyword{},
	} {
		n := count(t, db, model)
		assert.GreaterOrEqual(t, n, int64(1), "%T", model)
		assert.LessOrEqual(t, n, int64(size), "%T", model)
	}
}

func TestFeederLinksChildrenToExistingParents(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, NewFeeder(db, 8).Populate(context.Background()))

	// No orphans anywhere: foreign keys were on during the whole run, so a
	// single spot check per direction is enough.
	var orphans int64
	require.NoError(t, db.Raw(`
		SELECT COUNT(*) FROM member m
		LEFT JOIN address a ON a.id = m.address_id
		WHERE a.id IS NULL`).Scan(&orphans).Error)
	assert.EqualValues(t, 0, orphans)

	require.NoError(t, db.Raw(`
		SELECT COUNT(*) FROM contains_item l
		LEFT JOIN taken_order o ON o.id = l.order_id
		WHERE o.id IS NULL`).Scan(&orphans).Error)
	assert.EqualValues(t, 0, orphans)

	// Every member has exactly one account.
	var accounts []models.UserAccount
	require.NoError(t, db.Find(&accounts).Error)
	seen := make(map[uint]bool)
	for _, account := range accounts {
		assert.False(t, seen[account.MemberID], "member %d has two accounts", account.MemberID)
		seen[account.MemberID] = true
	}

	// Employees got a role, non-employees did not.
	var employees int64
	require.NoError(t, db.Model(&models.Member{}).
		Where("works_at_pizzeria_id IS NOT NULL AND role_id IS NULL").
		Count(&employees).Error)
	assert.EqualValues(t, 0, employees)
}

func TestFeederBillsMatchOrderLines(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, NewFeeder(db, 12).Populate(context.Background()))

	var bills []models.Bill
	require.NoError(t, db.Find(&bills).Error)

	for _, bill := range bills {
		var lines []models.ContainsItem
		require.NoError(t, db.Where("order_id = ?", bill.OrderID).Find(&lines).Error)
		total := bill.TotalAmountATI
		for _, line := range lines {
			total = total.Sub(line.Subtotal())
		}
		assert.True(t, total.IsZero(), "bill %d total does not match its lines", bill.ID)
	}

	// Bills only exist for completed orders.
	var mismatched int64
	require.NoError(t, db.Raw(`
		SELECT COUNT(*) FROM bill b
		JOIN taken_order o ON o.id = b.order_id
		JOIN order_status st ON st.id = o.status_id
		WHERE st.label <> ?`, models.StatusCompleted).Scan(&mismatched).Error)
	assert.EqualValues(t, 0, mismatched)
}

func TestFeederSizeFallback(t *testing.T) {
	feeder := NewFeeder(nil, 0)
	assert.Equal(t, DefaultSize, feeder.size)

	feeder = NewFeeder(nil, -3)
	assert.Equal(t, DefaultSize, feeder.size)
}

func TestGeneratorShapes(t *testing.T) {
	g := newGenerator(42)

	phone := g.phone()
	assert.Len(t, phone, 10)
	assert.Equal(t, byte('0'), phone[0])

	assert.Len(t, g.barcode(), 13)

	address := g.address()
	assert.NotEmpty(t, address.StreetName)
	assert.NotEmpty(t, address.HomeNumber)
	assert.Len(t, address.ZipCode, 5)
	require.NotNil(t, address.Country)
	assert.Equal(t, "France", *address.Country)

	price := g.price(30)
	assert.True(t, price.IsPositive())
	assert.True(t, price.LessThan(decimal.NewFromInt(30)), "price %s exceeds ceiling", price)
	assert.True(t, price.Equal(price.Round(2)), "price %s has more than 2 decimals", price)
}
