package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ocpizza/ocpizza/internal/models"
)

// ErrInsufficientStock is returned when a decrement would drive a stock
// quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// StockService provides methods to manage per-pizzeria product stock
type StockService interface {
	// SetStock creates or replaces the stock level of a product at an outlet
	SetStock(pizzeriaID, productID uint, quantity int) error
	// GetStock retrieves the stock level; a missing row counts as zero
	GetStock(pizzeriaID, productID uint) (int, error)
	// Decrement atomically removes units from stock. It fails with
	// ErrInsufficientStock rather than letting the quantity go negative,
	// even under concurrent callers.
	Decrement(tx *gorm.DB, pizzeriaID, productID uint, units int) error
}

type stockService struct {
	db *gorm.DB
}

// NewStockService creates a new instance of StockService
func NewStockService(db *gorm.DB) StockService {
	return &stockService{db: db}
}

func (s *stockService) SetStock(pizzeriaID, productID uint, quantity int) error {
	stock := models.HasProductInStock{
		PizzeriaID: pizzeriaID,
		ProductID:  productID,
		Quantity:   quantity,
	}
	return s.db.Save(&stock).Error
}

func (s *stockService) GetStock(pizzeriaID, productID uint) (int, error) {
	var stock models.HasProductInStock
	err := s.db.Where("pizzeria_id = ? AND product_id = ?", pizzeriaID, productID).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return stock.Quantity, nil
}

func (s *stockService) Decrement(tx *gorm.DB, pizzeriaID, productID uint, units int) error {
	if tx == nil {
		tx = s.db
	}
	// The quantity guard in the WHERE clause makes the decrement safe under
	// concurrency: two racing orders cannot both take the last units.
	res := tx.Model(&models.HasProductInStock{}).
		Where("pizzeria_id = ? AND product_id = ? AND quantity >= ?", pizzeriaID, productID, units).
		Update("quantity", gorm.Expr("quantity - ?", units))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}
