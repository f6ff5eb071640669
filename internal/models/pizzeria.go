package models

// Pizzeria is a physical outlet of the chain. The phone number is required,
// the address may be filled in later.
type Pizzeria struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	PhoneNb   string `gorm:"column:phone_nb;not null" json:"phone_nb"`
	AddressID *uint  `json:"address_id,omitempty"`

	Address *Address `gorm:"foreignKey:AddressID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Pizzeria) TableName() string {
	return "pizzeria"
}

// HasProductInStock records how many units of a product an outlet holds.
// Quantity can never go negative; concurrent decrements must use a guarded
// update (see services.StockService).
type HasProductInStock struct {
	PizzeriaID uint `gorm:"primaryKey;autoIncrement:false" json:"pizzeria_id"`
	ProductID  uint `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity   int  `gorm:"not null;check:quantity >= 0" json:"quantity"`

	Pizzeria Pizzeria `gorm:"foreignKey:PizzeriaID;constraint:OnDelete:RESTRICT" json:"-"`
	Product  Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (HasProductInStock) TableName() string {
	return "has_product_in_stock"
}
