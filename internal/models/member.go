package models

import (
	"golang.org/x/crypto/bcrypt"
)

// Member is a person known to the chain: a customer, or an employee when
// WorksAtPizzeriaID is set. The postal address is mandatory, the role only
// applies to employees.
type Member struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	Name              string `gorm:"not null" json:"name"`
	Firstname         string `gorm:"not null" json:"firstname"`
	WorksAtPizzeriaID *uint  `json:"works_at_pizzeria_id,omitempty"`
	AddressID         uint   `gorm:"not null" json:"address_id"`
	RoleID            *uint  `json:"role_id,omitempty"`

	WorksAtPizzeria *Pizzeria `gorm:"foreignKey:WorksAtPizzeriaID;constraint:OnDelete:RESTRICT" json:"-"`
	Address         Address   `gorm:"foreignKey:AddressID;constraint:OnDelete:RESTRICT" json:"-"`
	Role            *Role     `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Member) TableName() string {
	return "member"
}

// UserAccount holds the login credentials of a member. The unique member_id
// makes the relationship strictly 1:1 with no back-pointer to maintain.
type UserAccount struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Email     string  `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNb   *string `gorm:"column:phone_nb" json:"phone_nb,omitempty"`
	MemberID  uint    `gorm:"uniqueIndex;not null" json:"member_id"`
	HashedPwd string  `gorm:"not null" json:"-"`

	Member Member `gorm:"foreignKey:MemberID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (UserAccount) TableName() string {
	return "user_account"
}

// SetPassword hashes the clear-text password with bcrypt before storage.
func (u *UserAccount) SetPassword(clear string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(clear), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashedPwd = string(hash)
	return nil
}

// CheckPassword reports whether the clear-text password matches the stored hash.
func (u *UserAccount) CheckPassword(clear string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPwd), []byte(clear)) == nil
}

// Role names a job held by an employee (manager, pizzaiolo, ...).
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

func (Role) TableName() string {
	return "role"
}

// Permission is a grantable capability attached to roles.
type Permission struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"uniqueIndex;not null" json:"label"`
}

func (Permission) TableName() string {
	return "permission"
}

// HasPermissionTo links roles to permissions. The composite primary key
// makes duplicate grants structurally impossible.
type HasPermissionTo struct {
	RoleID       uint `gorm:"primaryKey;autoIncrement:false" json:"role_id"`
	PermissionID uint `gorm:"primaryKey;autoIncrement:false" json:"permission_id"`

	Role       Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT" json:"-"`
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (HasPermissionTo) TableName() string {
	return "has_permission_to"
}
