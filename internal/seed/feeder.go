package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ocpizza/ocpizza/internal/database"
	"github.com/ocpizza/ocpizza/internal/models"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// DefaultSize is the number of synthetic rows per size-driven table.
const DefaultSize = 10

// Feeder populates every table with synthetic rows, inserting parents before
// children so no foreign key is ever dangling. Size controls how many rows
// the size-driven tables get; lookup tables always receive their full
// vocabulary.
type Feeder struct {
	db   *gorm.DB
	size int
	gen  *generator

	addressIDs  []uint
	pizzeriaIDs []uint
	memberIDs   []uint
	recipeIDs   []uint
	productIDs  []uint
	itemIDs     []uint
	statusIDs   []uint
	orderIDs    []uint
	keywordIDs  []uint
	roleIDs     []uint
	permIDs     []uint
}

// NewFeeder creates a feeder for the given database. A size below 1 falls
// back to DefaultSize.
func NewFeeder(db *gorm.DB, size int) *Feeder {
	if size < 1 {
		size = DefaultSize
	}
	return &Feeder{
		db:   db,
		size: size,
		gen:  newGenerator(time.Now().UnixNano()),
	}
}

// Populate fills the whole schema. Steps run in dependency order; the
// many-to-many tables come last and tolerate duplicate random pairs.
func (f *Feeder) Populate(ctx context.Context) error {
	start := time.Now()
	db := f.db.WithContext(ctx)

	steps := []struct {
		name string
		fn   func(*gorm.DB) error
	}{
		{"addresses", f.insertAddresses},
		{"pizzerias", f.insertPizzerias},
		{"members", f.insertMembers},
		{"user accounts", f.insertUserAccounts},
		{"recipes", f.insertRecipes},
		{"products", f.insertProducts},
		{"catalog items", f.insertCatalogItems},
		{"order statuses", f.insertOrderStatuses},
		{"taken orders", f.insertTakenOrders},
		{"keywords", f.insertKeywords},
		{"permissions", f.insertPermissions},
		{"roles", f.insertRoles},
		{"employee roles", f.assignEmployeeRoles},
		{"junction tables", f.insertJunctions},
		{"bills", f.insertBills},
	}

	for _, step := range steps {
		log.WithField("step", step.name).Info("Seeding")
		if err := step.fn(db); err != nil {
			return fmt.Errorf("seeding %s: %w", step.name, err)
		}
	}

	log.WithFields(logrus.Fields{
		"size":    f.size,
		"elapsed": time.Since(start).String(),
	}).Info("Database populated")
	return nil
}

func (f *Feeder) insertAddresses(db *gorm.DB) error {
	for i := 0; i < f.size; i++ {
		address := f.gen.address()
		if err := db.Create(&address).Error; err != nil {
			return err
		}
		f.addressIDs = append(f.addressIDs, address.ID)
	}
	return nil
}

func (f *Feeder) insertPizzerias(db *gorm.DB) error {
	for i, name := range pizzeriaNames {
		pizzeria := models.Pizzeria{
			Name:    name,
			PhoneNb: f.gen.phone(),
		}
		if i < len(f.addressIDs) {
			pizzeria.AddressID = &f.addressIDs[i]
		}
		if err := db.Create(&pizzeria).Error; err != nil {
			return err
		}
		f.pizzeriaIDs = append(f.pizzeriaIDs, pizzeria.ID)
	}
	return nil
}

func (f *Feeder) insertMembers(db *gorm.DB) error {
	for i := 0; i < f.size; i++ {
		lastname, firstname := f.gen.person()
		member := models.Member{
			Name:      lastname,
			Firstname: firstname,
			AddressID: f.addressIDs[f.gen.intn(len(f.addressIDs))],
		}
		// Roughly half the members work for the chain.
		if f.gen.boolean() {
			member.WorksAtPizzeriaID = &f.pizzeriaIDs[f.gen.intn(len(f.pizzeriaIDs))]
		}
		if err := db.Create(&member).Error; err != nil {
			return err
		}
		f.memberIDs = append(f.memberIDs, member.ID)
	}
	return nil
}

func (f *Feeder) insertUserAccounts(db *gorm.DB) error {
	for _, memberID := range f.memberIDs {
		phone := f.gen.phone()
		account := models.UserAccount{
			Email:    f.gen.email(),
			PhoneNb:  &phone,
			MemberID: memberID,
		}
		if err := account.SetPassword(f.gen.password()); err != nil {
			return err
		}
		if err := db.Create(&account).Error; err != nil {
			return err
		}
	}
	return nil
}

func (f *Feeder) insertRecipes(db *gorm.DB) error {
	for _, name := range recipeNames {
		recipe := models.Recipe{
			Name:        name,
			Description: f.gen.sentence(name),
			IsPublic:    f.gen.boolean(),
		}
		if err := db.Create(&recipe).Error; err != nil {
			return err
		}
		f.recipeIDs = append(f.recipeIDs, recipe.ID)
	}
	return nil
}

func (f *Feeder) insertProducts(db *gorm.DB) error {
	for _, name := range productNames {
		product := models.Product{
			Name:         name,
			Barcode:      f.gen.barcode(),
			GramWeight:   (4 + f.gen.intn(397)) * 5,
			UnitPriceATI: f.gen.price(50),
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}
		f.productIDs = append(f.productIDs, product.ID)
	}
	return nil
}

func (f *Feeder) insertCatalogItems(db *gorm.DB) error {
	// One menu entry per recipe, recipe-backed.
	for i, recipeID := range f.recipeIDs {
		id := recipeID
		item := models.CatalogItem{
			Name:         recipeNames[i],
			Description:  f.gen.sentence(recipeNames[i]),
			PictureFile:  f.gen.pictureFile(),
			UnitPriceATI: f.gen.price(30),
			IsAvailable:  f.gen.boolean(),
			IsDisplayed:  f.gen.boolean(),
			RecipeID:     &id,
		}
		if err := db.Create(&item).Error; err != nil {
			return err
		}
		f.itemIDs = append(f.itemIDs, item.ID)
	}
	return nil
}

func (f *Feeder) insertOrderStatuses(db *gorm.DB) error {
	for _, label := range models.StatusLabels() {
		status := models.OrderStatus{Label: label}
		if err := db.Create(&status).Error; err != nil {
			return err
		}
		f.statusIDs = append(f.statusIDs, status.ID)
	}
	return nil
}

func (f *Feeder) insertTakenOrders(db *gorm.DB) error {
	for i := 0; i < f.size; i++ {
		order := models.TakenOrder{
			MemberID:   f.memberIDs[f.gen.intn(len(f.memberIDs))],
			AddressID:  f.addressIDs[f.gen.intn(len(f.addressIDs))],
			PizzeriaID: f.pizzeriaIDs[f.gen.intn(len(f.pizzeriaIDs))],
			StatusID:   f.statusIDs[f.gen.intn(len(f.statusIDs))],
			IsPaid:     f.gen.boolean(),
		}
		if err := db.Create(&order).Error; err != nil {
			return err
		}
		f.orderIDs = append(f.orderIDs, order.ID)
	}
	return nil
}

func (f *Feeder) insertKeywords(db *gorm.DB) error {
	for _, name := range keywordNames {
		keyword := models.Keyword{Name: name}
		if err := db.Create(&keyword).Error; err != nil {
			return err
		}
		f.keywordIDs = append(f.keywordIDs, keyword.ID)
	}
	return nil
}

func (f *Feeder) insertPermissions(db *gorm.DB) error {
	for _, label := range permissionLabels {
		permission := models.Permission{Label: label}
		if err := db.Create(&permission).Error; err != nil {
			return err
		}
		f.permIDs = append(f.permIDs, permission.ID)
	}
	return nil
}

func (f *Feeder) insertRoles(db *gorm.DB) error {
	for _, name := range roleNames {
		role := models.Role{Name: name}
		if err := db.Create(&role).Error; err != nil {
			return err
		}
		f.roleIDs = append(f.roleIDs, role.ID)
	}
	return nil
}

// assignEmployeeRoles gives every member employed at a pizzeria a random role.
func (f *Feeder) assignEmployeeRoles(db *gorm.DB) error {
	var employees []models.Member
	if err := db.Where("works_at_pizzeria_id IS NOT NULL").Find(&employees).Error; err != nil {
		return err
	}
	for _, employee := range employees {
		roleID := f.roleIDs[f.gen.intn(len(f.roleIDs))]
		if err := db.Model(&models.Member{}).Where("id = ?", employee.ID).
			Update("role_id", roleID).Error; err != nil {
			return err
		}
	}
	return nil
}

// insertJunctions draws size random pairs per junction table. Duplicate
// pairs collide with the composite primary key; those rejections are
// expected and skipped, matching the behavior of the original feeder.
func (f *Feeder) insertJunctions(db *gorm.DB) error {
	inserters := []func(*gorm.DB) error{
		f.insertHasPermissionTo,
		f.insertContainsItems,
		f.insertRequiresProducts,
		f.insertStocks,
		f.insertHasKeywords,
	}
	for _, insert := range inserters {
		for i := 0; i < f.size; i++ {
			err := insert(db)
			if err != nil && !database.IsViolation(err, database.ViolationUnique) {
				return err
			}
		}
	}
	return nil
}

func (f *Feeder) insertHasPermissionTo(db *gorm.DB) error {
	return db.Create(&models.HasPermissionTo{
		RoleID:       f.roleIDs[f.gen.intn(len(f.roleIDs))],
		PermissionID: f.permIDs[f.gen.intn(len(f.permIDs))],
	}).Error
}

func (f *Feeder) insertContainsItems(db *gorm.DB) error {
	return db.Create(&models.ContainsItem{
		OrderID:      f.orderIDs[f.gen.intn(len(f.orderIDs))],
		ItemID:       f.itemIDs[f.gen.intn(len(f.itemIDs))],
		Quantity:     1 + f.gen.intn(10),
		UnitPriceATI: f.gen.price(80),
	}).Error
}

func (f *Feeder) insertRequiresProducts(db *gorm.DB) error {
	return db.Create(&models.RequiresProduct{
		RecipeID:   f.recipeIDs[f.gen.intn(len(f.recipeIDs))],
		ProductID:  f.productIDs[f.gen.intn(len(f.productIDs))],
		GramAmount: 1 + f.gen.intn(1000),
	}).Error
}

func (f *Feeder) insertStocks(db *gorm.DB) error {
	return db.Create(&models.HasProductInStock{
		PizzeriaID: f.pizzeriaIDs[f.gen.intn(len(f.pizzeriaIDs))],
		ProductID:  f.productIDs[f.gen.intn(len(f.productIDs))],
		Quantity:   1 + f.gen.intn(100),
	}).Error
}

func (f *Feeder) insertHasKeywords(db *gorm.DB) error {
	return db.Create(&models.HasKeyword{
		ItemID:    f.itemIDs[f.gen.intn(len(f.itemIDs))],
		KeywordID: f.keywordIDs[f.gen.intn(len(f.keywordIDs))],
	}).Error
}

// insertBills bills the completed orders: one bill per order, total taken
// from the order lines so the amount matches the snapshots.
func (f *Feeder) insertBills(db *gorm.DB) error {
	var completed []models.TakenOrder
	err := db.Joins("JOIN order_status ON order_status.id = taken_order.status_id").
		Where("order_status.label = ?", models.StatusCompleted).
		Preload("Lines").
		Find(&completed).Error
	if err != nil {
		return err
	}
	for _, order := range completed {
		bill := models.Bill{
			EmissionDate: time.Now().UTC().AddDate(0, 0, -f.gen.intn(365)),
			OrderID:      order.ID,
		}
		for _, line := range order.Lines {
			bill.TotalAmountATI = bill.TotalAmountATI.Add(line.Subtotal())
		}
		if err := db.Create(&bill).Error; err != nil {
			return err
		}
	}
	return nil
}
