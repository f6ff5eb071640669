package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lookup table of order states. The labels it may hold
// and the legal transitions between them live in status.go.
type OrderStatus struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"uniqueIndex;not null" json:"label"`
}

func (OrderStatus) TableName() string {
	return "order_status"
}

// TakenOrder is an order placed by a member with an outlet, delivered to an
// address. The bill, when emitted, references the order from its own side
// (bill.order_id, unique); the order itself carries no bill pointer.
type TakenOrder struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	MemberID   uint `gorm:"not null" json:"member_id"`
	AddressID  uint `gorm:"not null" json:"address_id"`
	PizzeriaID uint `gorm:"not null" json:"pizzeria_id"`
	StatusID   uint `gorm:"not null" json:"status_id"`
	IsPaid     bool `gorm:"not null;default:false" json:"is_paid"`

	Member   Member      `gorm:"foreignKey:MemberID;constraint:OnDelete:RESTRICT" json:"-"`
	Address  Address     `gorm:"foreignKey:AddressID;constraint:OnDelete:RESTRICT" json:"-"`
	Pizzeria Pizzeria    `gorm:"foreignKey:PizzeriaID;constraint:OnDelete:RESTRICT" json:"-"`
	Status   OrderStatus `gorm:"foreignKey:StatusID;constraint:OnDelete:RESTRICT" json:"-"`

	Lines []ContainsItem `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

func (TakenOrder) TableName() string {
	return "taken_order"
}

// ContainsItem is one order line. UnitPriceATI is the price snapshotted at
// order time; later catalog price changes must never alter it.
type ContainsItem struct {
	OrderID      uint            `gorm:"primaryKey;autoIncrement:false" json:"order_id"`
	ItemID       uint            `gorm:"primaryKey;autoIncrement:false;column:item_id" json:"item_id"`
	Quantity     int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPriceATI decimal.Decimal `gorm:"column:unit_price_ati;type:decimal(6,2);not null" json:"unit_price_ati"`

	Order TakenOrder  `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"-"`
	Item  CatalogItem `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (ContainsItem) TableName() string {
	return "contains_item"
}

// Subtotal returns quantity times the snapshotted unit price.
func (l ContainsItem) Subtotal() decimal.Decimal {
	return l.UnitPriceATI.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Bill is the invoice emitted for an order. The unique order_id makes a
// second bill for the same order structurally impossible.
type Bill struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	EmissionDate   time.Time       `gorm:"not null" json:"emission_date"`
	TotalAmountATI decimal.Decimal `gorm:"column:total_amount_ati;type:decimal(6,2);not null" json:"total_amount_ati"`
	OrderID        uint            `gorm:"uniqueIndex;not null" json:"order_id"`

	Order TakenOrder `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Bill) TableName() string {
	return "bill"
}
