package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/ocpizza/ocpizza/internal/database"
	"github.com/ocpizza/ocpizza/internal/models"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

var (
	// ErrEmptyOrder is returned when an order is placed without lines.
	ErrEmptyOrder = errors.New("order has no lines")
	// ErrInvalidTransition is returned when a status change is not allowed
	// by the transition table.
	ErrInvalidTransition = errors.New("illegal status transition")
	// ErrUnknownStatus is returned when a status label is not part of the
	// vocabulary.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrItemUnavailable is returned when an order references an item not
	// currently for sale.
	ErrItemUnavailable = errors.New("catalog item not available")
)

// OrderLine is one requested item with its quantity.
type OrderLine struct {
	ItemID   uint
	Quantity int
}

// PlaceOrderInput carries everything needed to take an order.
type PlaceOrderInput struct {
	MemberID   uint
	AddressID  uint
	PizzeriaID uint
	Lines      []OrderLine
}

// OrderService manages the order lifecycle: placement, status transitions
// and fulfilment with stock decrement and bill emission.
type OrderService interface {
	// Place records an order with price snapshots taken from the catalog at
	// call time. Stock is not touched; that happens at fulfilment.
	Place(ctx context.Context, input PlaceOrderInput) (*models.TakenOrder, error)
	// UpdateStatus moves an order to a new status, enforcing the legal
	// transition table.
	UpdateStatus(ctx context.Context, orderID uint, toLabel string) error
	// Fulfill completes an order in a single transaction: status moves to
	// Completed, stock is decremented from the recipe requirements, and the
	// bill is emitted. Retries on serialization failures.
	Fulfill(ctx context.Context, orderID uint) (*models.Bill, error)
	// Cancel moves an order to Cancelled if its current status allows it.
	Cancel(ctx context.Context, orderID uint) error
	// Total returns the order total: sum of quantity times snapshot price.
	Total(orderID uint) (decimal.Decimal, error)
	// MarkPaid flags an order as paid.
	MarkPaid(ctx context.Context, orderID uint) error
}

type orderService struct {
	db    *gorm.DB
	stock StockService
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB) OrderService {
	return &orderService{db: db, stock: NewStockService(db)}
}

const fulfillRetries = 3

// withSerializationRetry reruns fn when the transaction loses a concurrency
// race (serialization failure or deadlock), backing off between attempts.
func withSerializationRetry(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if !database.IsViolation(err, database.ViolationSerialization) {
			return err
		}
		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		}).Warn("Transaction serialization failure, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	return err
}

func statusIDByLabel(tx *gorm.DB, label string) (uint, error) {
	if !models.KnownStatus(label) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, label)
	}
	var status models.OrderStatus
	if err := tx.Where("label = ?", label).First(&status).Error; err != nil {
		return 0, fmt.Errorf("status %q not seeded: %w", label, err)
	}
	return status.ID, nil
}

func (s *orderService) Place(ctx context.Context, input PlaceOrderInput) (*models.TakenOrder, error) {
	if len(input.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var order models.TakenOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		statusID, err := statusIDByLabel(tx, models.StatusAwaiting)
		if err != nil {
			return err
		}

		order = models.TakenOrder{
			MemberID:   input.MemberID,
			AddressID:  input.AddressID,
			PizzeriaID: input.PizzeriaID,
			StatusID:   statusID,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, l := range input.Lines {
			var item models.CatalogItem
			if err := tx.First(&item, l.ItemID).Error; err != nil {
				return fmt.Errorf("catalog item %d: %w", l.ItemID, err)
			}
			if !item.IsAvailable {
				return fmt.Errorf("%w: %q", ErrItemUnavailable, item.Name)
			}
			line := models.ContainsItem{
				OrderID:  order.ID,
				ItemID:   item.ID,
				Quantity: l.Quantity,
				// Snapshot of the selling price at order time. Catalog
				// price updates must not reach back into this row.
				UnitPriceATI: item.UnitPriceATI,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			order.Lines = append(order.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"member_id":   order.MemberID,
		"pizzeria_id": order.PizzeriaID,
		"lines":       len(order.Lines),
	}).Info("Order placed")
	return &order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uint, toLabel string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return transitionLocked(tx, orderID, toLabel)
	})
}

// transitionLocked checks the transition table and moves the order. Must run
// inside a transaction.
func transitionLocked(tx *gorm.DB, orderID uint, toLabel string) error {
	var order models.TakenOrder
	if err := tx.Preload("Status").First(&order, orderID).Error; err != nil {
		return err
	}
	if !models.CanTransition(order.Status.Label, toLabel) {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, order.Status.Label, toLabel)
	}
	toID, err := statusIDByLabel(tx, toLabel)
	if err != nil {
		return err
	}
	return tx.Model(&models.TakenOrder{}).Where("id = ?", orderID).
		Update("status_id", toID).Error
}

func (s *orderService) Cancel(ctx context.Context, orderID uint) error {
	return s.UpdateStatus(ctx, orderID, models.StatusCancelled)
}

func (s *orderService) MarkPaid(ctx context.Context, orderID uint) error {
	return s.db.WithContext(ctx).Model(&models.TakenOrder{}).
		Where("id = ?", orderID).Update("is_paid", true).Error
}

func (s *orderService) Total(orderID uint) (decimal.Decimal, error) {
	var lines []models.ContainsItem
	if err := s.db.Where("order_id = ?", orderID).Find(&lines).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total, nil
}

func (s *orderService) Fulfill(ctx context.Context, orderID uint) (*models.Bill, error) {
	var bill models.Bill
	err := withSerializationRetry(ctx, fulfillRetries, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var order models.TakenOrder
			if err := tx.Preload("Status").Preload("Lines").First(&order, orderID).Error; err != nil {
				return err
			}

			// Step through the transition table: an order fulfilled straight
			// from Awaiting passes through In progress first.
			if order.Status.Label == models.StatusAwaiting {
				if err := transitionLocked(tx, orderID, models.StatusInProgress); err != nil {
					return err
				}
				order.Status.Label = models.StatusInProgress
			}
			if err := transitionLocked(tx, orderID, models.StatusCompleted); err != nil {
				return err
			}

			units, err := productUnitsNeeded(tx, order.Lines)
			if err != nil {
				return err
			}
			for productID, n := range units {
				if err := s.stock.Decrement(tx, order.PizzeriaID, productID, n); err != nil {
					return fmt.Errorf("product %d at pizzeria %d: %w", productID, order.PizzeriaID, err)
				}
			}

			total := decimal.Zero
			for _, l := range order.Lines {
				total = total.Add(l.Subtotal())
			}
			bill = models.Bill{
				EmissionDate:   time.Now().UTC(),
				TotalAmountATI: total,
				OrderID:        order.ID,
			}
			return tx.Create(&bill).Error
		})
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"order_id": orderID,
		"bill_id":  bill.ID,
		"total":    bill.TotalAmountATI.String(),
	}).Info("Order fulfilled")
	return &bill, nil
}

// productUnitsNeeded converts order lines into stock units per product.
// Recipe-backed items contribute their gram requirements, converted to
// units by ceiling division over the product's gram weight. Product-backed
// items (beverages and the like) consume one unit per item ordered.
func productUnitsNeeded(tx *gorm.DB, lines []models.ContainsItem) (map[uint]int, error) {
	grams := make(map[uint]int)
	units := make(map[uint]int)

	for _, l := range lines {
		var item models.CatalogItem
		if err := tx.First(&item, l.ItemID).Error; err != nil {
			return nil, err
		}
		switch {
		case item.RecipeID != nil:
			var reqs []models.RequiresProduct
			if err := tx.Where("recipe_id = ?", *item.RecipeID).Find(&reqs).Error; err != nil {
				return nil, err
			}
			for _, r := range reqs {
				grams[r.ProductID] += r.GramAmount * l.Quantity
			}
		case item.ProductID != nil:
			units[*item.ProductID] += l.Quantity
		}
	}

	for productID, g := range grams {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return nil, err
		}
		if product.GramWeight <= 0 {
			return nil, fmt.Errorf("product %d has no gram weight, cannot convert %dg to units", productID, g)
		}
		units[productID] += (g + product.GramWeight - 1) / product.GramWeight
	}
	return units, nil
}
