package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ocpizza/ocpizza/internal/models"
)

// MemberService provides methods to manage members, their accounts and roles
type MemberService interface {
	// CreateAddress creates a new address
	CreateAddress(address *models.Address) error
	// CreateMember creates a new member; the address must already exist
	CreateMember(member *models.Member) error
	// GetMemberByID retrieves a member by its ID
	GetMemberByID(id uint) (*models.Member, error)
	// AttachAccount creates login credentials for a member. The clear-text
	// password is bcrypt-hashed before storage.
	AttachAccount(memberID uint, email, phoneNb, password string) (*models.UserAccount, error)
	// GetAccountByEmail retrieves a user account by its unique email
	GetAccountByEmail(email string) (*models.UserAccount, error)
	// AssignRole sets the role of a member
	AssignRole(memberID, roleID uint) error
}

type memberService struct {
	db *gorm.DB
}

// NewMemberService creates a new instance of MemberService
func NewMemberService(db *gorm.DB) MemberService {
	return &memberService{db: db}
}

func (s *memberService) CreateAddress(address *models.Address) error {
	return s.db.Create(address).Error
}

func (s *memberService) CreateMember(member *models.Member) error {
	return s.db.Create(member).Error
}

func (s *memberService) GetMemberByID(id uint) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *memberService) AttachAccount(memberID uint, email, phoneNb, password string) (*models.UserAccount, error) {
	var existing models.UserAccount
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, errors.New("account_already_exists")
	}

	account := models.UserAccount{
		Email:    email,
		MemberID: memberID,
	}
	if phoneNb != "" {
		account.PhoneNb = &phoneNb
	}
	if err := account.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *memberService) GetAccountByEmail(email string) (*models.UserAccount, error) {
	var account models.UserAccount
	if err := s.db.Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *memberService) AssignRole(memberID, roleID uint) error {
	return s.db.Model(&models.Member{}).Where("id = ?", memberID).
		Update("role_id", roleID).Error
}
