package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ocpizza/ocpizza/internal/models"
)

// CatalogService provides methods to manage products, recipes and the menu
type CatalogService interface {
	// CreateProduct creates a new stock product
	CreateProduct(product *models.Product) error
	// CreateRecipe creates a recipe together with its product requirements
	CreateRecipe(recipe *models.Recipe, requirements []models.RequiresProduct) error
	// CreateCatalogItem creates a sellable menu entry; exactly one of
	// RecipeID/ProductID must be set
	CreateCatalogItem(item *models.CatalogItem) error
	// GetCatalogItemByID retrieves a catalog item by its ID
	GetCatalogItemByID(id uint) (*models.CatalogItem, error)
	// ListDisplayedItems retrieves the items currently shown on the menu
	ListDisplayedItems() ([]models.CatalogItem, error)
	// UpdateItemPrice changes the current selling price of an item. Prices
	// already snapshotted on order lines are not touched.
	UpdateItemPrice(itemID uint, price decimal.Decimal) error
	// TagItem attaches a keyword to a catalog item
	TagItem(itemID, keywordID uint) error
}

type catalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

func (s *catalogService) CreateProduct(product *models.Product) error {
	return s.db.Create(product).Error
}

func (s *catalogService) CreateRecipe(recipe *models.Recipe, requirements []models.RequiresProduct) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		for i := range requirements {
			requirements[i].RecipeID = recipe.ID
		}
		if len(requirements) > 0 {
			if err := tx.Create(&requirements).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *catalogService) CreateCatalogItem(item *models.CatalogItem) error {
	return s.db.Create(item).Error
}

func (s *catalogService) GetCatalogItemByID(id uint) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *catalogService) ListDisplayedItems() ([]models.CatalogItem, error) {
	var items []models.CatalogItem
	if err := s.db.Where("is_displayed = ?", true).Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *catalogService) UpdateItemPrice(itemID uint, price decimal.Decimal) error {
	return s.db.Model(&models.CatalogItem{}).Where("id = ?", itemID).
		Update("unit_price_ati", price).Error
}

func (s *catalogService) TagItem(itemID, keywordID uint) error {
	return s.db.Create(&models.HasKeyword{ItemID: itemID, KeywordID: keywordID}).Error
}
