package models

import (
	"github.com/shopspring/decimal"
)

// CatalogItem is a sellable menu entry. It is backed by exactly one of a
// recipe (a prepared dish) or a product (something sold as-is, e.g. a
// beverage); the check constraint rejects both-set and neither-set rows.
// Its price is the current selling price and is independent from any
// product or recipe cost, and from prices snapshotted on past orders.
type CatalogItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	PictureFile  string          `json:"picture_file"`
	UnitPriceATI decimal.Decimal `gorm:"column:unit_price_ati;type:decimal(6,2);not null" json:"unit_price_ati"`
	IsAvailable  bool            `gorm:"not null;default:true" json:"is_available"`
	IsDisplayed  bool            `gorm:"not null;default:true" json:"is_displayed"`
	RecipeID     *uint           `gorm:"check:chk_catalog_item_parent,(recipe_id IS NULL) <> (product_id IS NULL)" json:"recipe_id,omitempty"`
	ProductID    *uint           `json:"product_id,omitempty"`

	Recipe  *Recipe  `gorm:"foreignKey:RecipeID;constraint:OnDelete:RESTRICT" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (CatalogItem) TableName() string {
	return "catalog_item"
}

// Keyword is a search tag attached to catalog items.
type Keyword struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

func (Keyword) TableName() string {
	return "keyword"
}

// HasKeyword tags a catalog item with a keyword.
type HasKeyword struct {
	ItemID    uint `gorm:"primaryKey;autoIncrement:false;column:item_id" json:"item_id"`
	KeywordID uint `gorm:"primaryKey;autoIncrement:false" json:"keyword_id"`

	Item    CatalogItem `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"-"`
	Keyword Keyword     `gorm:"foreignKey:KeywordID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (HasKeyword) TableName() string {
	return "has_keyword"
}
