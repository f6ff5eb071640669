package models

// AllModels lists every table in migration order: parents strictly before
// the tables referencing them, so AutoMigrate can create the foreign keys
// in one pass and seeders can insert top to bottom.
func AllModels() []any {
	return []any{
		&Address{},
		&Role{},
		&Permission{},
		&HasPermissionTo{},
		&Pizzeria{},
		&Member{},
		&UserAccount{},
		&Product{},
		&Recipe{},
		&RequiresProduct{},
		&CatalogItem{},
		&Keyword{},
		&HasKeyword{},
		&OrderStatus{},
		&TakenOrder{},
		&ContainsItem{},
		&Bill{},
		&HasProductInStock{},
	}
}
