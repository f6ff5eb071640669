package seed

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ocpizza/ocpizza/internal/models"
)

// Fixed vocabularies for synthetic rows. Entity counts driven by --size use
// the generators below; lookup-style tables (products, recipes, roles, ...)
// are always seeded with the full vocabulary.

// OC Pizza currently has 5 stores.
var pizzeriaNames = []string{
	"OC Pizza #1", "OC Pizza bis", "The Best of OC Pizza",
	"OC Pizza Original", "OC Pizza's",
}

var productNames = []string{
	"wheat flour", "peeled tomatoes", "tomato pulp",
	"mozzarella", "pineapple", "parmesan", "ground beef",
	"salmon", "goat cheese", "artichoke", "bell pepper",
	"tuna", "onion", "garlic", "pasta dough", "egg", "seafood mix",
	"ham", "cured ham", "chorizo", "truffle", "green peas",
	"beef", "mussel", "clam", "cockle",
	"spelt flour", "langoustine", "crayfish", "pink shrimp",
	"grey shrimp", "olive", "arugula", "basil", "mushroom",
}

var recipeNames = []string{
	"Spaghetti bolognese", "Pizza regina", "Pizza calzone",
	"Pizza quattro stagioni", "Seafood pizza", "Crab ravioli",
	"Salmon tagliatelle", "Pizza Margherita", "Hawaiian pizza",
	"Pasta carbonara", "Truffle risotto", "Minestrone",
	"Seafood linguine", "Pesto pasta", "Lasagna",
	"Vegetarian lasagna", "Four cheese ravioli",
	"Milanese escalope", "Beef carpaccio",
	"Scaloppine", "Goat cheese and honey pizza", "Vegetarian pizza",
	"Pizza napoletana",
}

var keywordNames = []string{
	"pizza", "pasta", "vegetarian", "fish", "meat",
	"mushroom", "spaghetti", "macaroni", "tagliatelle",
	"cheese", "goat cheese", "artichoke", "parmesan", "gruyere",
	"tomato", "bell pepper", "tuna", "salmon", "carbonara",
	"mussel", "clam", "shrimp", "langoustine", "crayfish",
	"pork", "beef", "chicken", "poultry", "onion", "garlic",
	"napoletana", "truffle", "veal", "pesto", "rice",
}

var roleNames = []string{
	"Customer", "Manager", "Pizzaiolo", "Delivery driver",
	"Order operator",
}

var permissionLabels = []string{
	"Edit account", "Create account", "Create order",
	"View third-party order", "Edit third-party account",
}

var streetNames = []string{
	"rue de la République", "avenue Victor Hugo", "boulevard Voltaire",
	"rue des Lilas", "place Bellecour", "rue Nationale",
	"avenue Jean Jaurès", "rue du Commerce", "chemin des Vignes",
	"rue Pasteur",
}

var lastNames = []string{
	"Martin", "Bernard", "Dubois", "Thomas", "Robert",
	"Richard", "Petit", "Durand", "Leroy", "Moreau",
}

var firstNames = []string{
	"Jean", "Marie", "Pierre", "Sophie", "Luc",
	"Camille", "Paul", "Julie", "Antoine", "Claire",
}

type generator struct {
	rng *rand.Rand
}

func newGenerator(seed int64) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *generator) address() models.Address {
	country := "France"
	return models.Address{
		StreetName: streetNames[g.rng.Intn(len(streetNames))],
		HomeNumber: fmt.Sprintf("%d", 1+g.rng.Intn(200)),
		ZipCode:    fmt.Sprintf("%05d", 1000+g.rng.Intn(95000)),
		Country:    &country,
	}
}

func (g *generator) person() (lastname, firstname string) {
	return lastNames[g.rng.Intn(len(lastNames))], firstNames[g.rng.Intn(len(firstNames))]
}

// phone returns a French-looking 10 digit number starting with 0.
func (g *generator) phone() string {
	var b strings.Builder
	b.WriteByte('0')
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, "%d", g.rng.Intn(10))
	}
	return b.String()
}

// barcode returns an EAN-13 style digit string. Barcodes are unique in the
// schema; thirteen random digits leave collisions to the unique index,
// which the feeder treats as a retryable duplicate.
func (g *generator) barcode() string {
	var b strings.Builder
	for i := 0; i < 13; i++ {
		fmt.Fprintf(&b, "%d", g.rng.Intn(10))
	}
	return b.String()
}

func (g *generator) email() string {
	return fmt.Sprintf("%s@ocpizza.example", uuid.NewString()[:13])
}

func (g *generator) pictureFile() string {
	return uuid.NewString() + ".jpg"
}

func (g *generator) password() string {
	return uuid.NewString()
}

// price returns a tax-included amount between 0.50 and max with 2 decimals.
func (g *generator) price(max int) decimal.Decimal {
	cents := 50 + g.rng.Intn(max*100-50)
	return decimal.New(int64(cents), -2)
}

func (g *generator) sentence(topic string) string {
	return fmt.Sprintf("House-made %s, prepared daily by our pizzaioli.", strings.ToLower(topic))
}

func (g *generator) boolean() bool {
	return g.rng.Intn(2) == 0
}

func (g *generator) intn(n int) int {
	return g.rng.Intn(n)
}
