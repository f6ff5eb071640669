package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ocpizza/ocpizza/internal/models"
)

// ItemSales is one row of the per-outlet sales ranking.
type ItemSales struct {
	PizzeriaID   uint            `json:"pizzeria_id"`
	PizzeriaName string          `json:"pizzeria_name"`
	ItemID       uint            `json:"item_id"`
	ItemName     string          `json:"item_name"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// PendingOrders is the count of unfulfilled orders at one outlet.
type PendingOrders struct {
	PizzeriaID   uint   `json:"pizzeria_id"`
	PizzeriaName string `json:"pizzeria_name"`
	Orders       int    `json:"orders"`
}

// ManagerEntry is one row of the manager directory.
type ManagerEntry struct {
	Firstname    string  `json:"firstname"`
	Name         string  `json:"name"`
	PizzeriaName *string `json:"pizzeria_name,omitempty"`
}

// FeasibleRecipe names a recipe an outlet can prepare from current stock.
type FeasibleRecipe struct {
	PizzeriaID   uint   `json:"pizzeria_id"`
	PizzeriaName string `json:"pizzeria_name"`
	RecipeID     uint   `json:"recipe_id"`
	RecipeName   string `json:"recipe_name"`
}

// ReportService runs the read-only aggregations over the schema.
type ReportService interface {
	// SalesRanking returns units sold per catalog item per outlet, grouped
	// by outlet then ordered by descending sell count.
	SalesRanking() ([]ItemSales, error)
	// PendingByPizzeria counts orders not yet Completed or Cancelled, per outlet.
	PendingByPizzeria() ([]PendingOrders, error)
	// ManagerDirectory lists every member holding the manager role with the
	// outlet they work at.
	ManagerDirectory() ([]ManagerEntry, error)
	// FeasibleRecipes lists, per outlet, the recipes for which every required
	// product is stocked in sufficient grams.
	FeasibleRecipes() ([]FeasibleRecipe, error)
}

type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new instance of ReportService
func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

func (s *reportService) SalesRanking() ([]ItemSales, error) {
	var rows []ItemSales
	err := s.db.Raw(`
		SELECT pz.id   AS pizzeria_id,
		       pz.name AS pizzeria_name,
		       ci.id   AS item_id,
		       ci.name AS item_name,
		       SUM(l.quantity)                    AS units_sold,
		       SUM(l.quantity * l.unit_price_ati) AS revenue
		FROM contains_item l
		JOIN taken_order  o  ON o.id  = l.order_id
		JOIN pizzeria     pz ON pz.id = o.pizzeria_id
		JOIN catalog_item ci ON ci.id = l.item_id
		GROUP BY pz.id, pz.name, ci.id, ci.name
		ORDER BY pz.name, units_sold DESC, ci.name`).Scan(&rows).Error
	return rows, err
}

func (s *reportService) PendingByPizzeria() ([]PendingOrders, error) {
	var rows []PendingOrders
	err := s.db.Raw(`
		SELECT pz.id   AS pizzeria_id,
		       pz.name AS pizzeria_name,
		       COUNT(o.id) AS orders
		FROM taken_order  o
		JOIN order_status st ON st.id = o.status_id
		JOIN pizzeria     pz ON pz.id = o.pizzeria_id
		WHERE st.label NOT IN (?, ?)
		GROUP BY pz.id, pz.name
		ORDER BY pz.name`, models.StatusCompleted, models.StatusCancelled).Scan(&rows).Error
	return rows, err
}

func (s *reportService) ManagerDirectory() ([]ManagerEntry, error) {
	var rows []ManagerEntry
	err := s.db.Raw(`
		SELECT m.firstname, m.name, pz.name AS pizzeria_name
		FROM member m
		JOIN role r ON r.id = m.role_id
		LEFT JOIN pizzeria pz ON pz.id = m.works_at_pizzeria_id
		WHERE r.name = ?
		ORDER BY pz.name, m.name, m.firstname`, "Manager").Scan(&rows).Error
	return rows, err
}

func (s *reportService) FeasibleRecipes() ([]FeasibleRecipe, error) {
	// A recipe is feasible at an outlet when no required product is missing
	// or stocked below the required grams. Recipes with no requirements at
	// all are excluded rather than trivially feasible everywhere.
	var rows []FeasibleRecipe
	err := s.db.Raw(`
		SELECT pz.id   AS pizzeria_id,
		       pz.name AS pizzeria_name,
		       r.id    AS recipe_id,
		       r.name  AS recipe_name
		FROM pizzeria pz
		CROSS JOIN recipe r
		WHERE EXISTS (
		        SELECT 1 FROM requires_product rq WHERE rq.recipe_id = r.id
		      )
		  AND NOT EXISTS (
		        SELECT 1
		        FROM requires_product rq
		        JOIN product p ON p.id = rq.product_id
		        LEFT JOIN has_product_in_stock s
		               ON s.pizzeria_id = pz.id AND s.product_id = rq.product_id
		        WHERE rq.recipe_id = r.id
		          AND (s.quantity IS NULL OR s.quantity * p.gram_weight < rq.gram_amount)
		      )
		ORDER BY pz.name, r.name`).Scan(&rows).Error
	return rows, err
}
