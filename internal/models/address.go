package models

// Address is a postal address shared by members, pizzerias and deliveries.
// Country is optional and defaults to France, where the chain operates.
type Address struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	StreetName string  `gorm:"not null" json:"street_name"`
	HomeNumber string  `gorm:"not null" json:"home_number"`
	ZipCode    string  `gorm:"not null" json:"zip_code"`
	Country    *string `gorm:"default:'France'" json:"country,omitempty"`
}

func (Address) TableName() string {
	return "address"
}
