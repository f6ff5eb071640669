package models

import (
	"github.com/shopspring/decimal"
)

// Product is a raw stock item identified by its barcode. Prices are stored
// tax-included as fixed-point decimals; floats would drift on totals.
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	Barcode      string          `gorm:"uniqueIndex;not null" json:"barcode"`
	GramWeight   int             `gorm:"not null;check:gram_weight >= 0" json:"gram_weight"`
	UnitPriceATI decimal.Decimal `gorm:"column:unit_price_ati;type:decimal(6,2);not null" json:"unit_price_ati"`
}

func (Product) TableName() string {
	return "product"
}

// Recipe is a named preparation. Public recipes are shown to customers.
type Recipe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsPublic    bool   `gorm:"not null;default:false" json:"is_public"`
}

func (Recipe) TableName() string {
	return "recipe"
}

// RequiresProduct states how many grams of a product a recipe consumes.
type RequiresProduct struct {
	RecipeID   uint `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	ProductID  uint `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	GramAmount int  `gorm:"not null;check:gram_amount > 0" json:"gram_amount"`

	Recipe  Recipe  `gorm:"foreignKey:RecipeID;constraint:OnDelete:RESTRICT" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (RequiresProduct) TableName() string {
	return "requires_product"
}
