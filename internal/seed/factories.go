// Package seed creates development and demo data. It is wired to cmd/seed and
// is never imported by the server.
package seed

import (
	"math/rand"
	"time"

	"larder/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a Factory bound to the provided GORM DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample account. Optional override
// functions may adjust the generated user before it is saved.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		FullName: gofakeit.Name(),
		IsActive: true,
	}

	// Bcrypt dominates seeding time, so the fast mode skips it.
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a category with the given name.
func (f *Factory) CreateCategory(name string) (*models.Category, error) {
	category := &models.Category{
		Name:        name,
		Description: gofakeit.Sentence(6),
	}
	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateProduct persists a product, optionally attached to a category.
func (f *Factory) CreateProduct(category *models.Category, overrides ...func(*models.Product)) (*models.Product, error) {
	product := &models.Product{
		Name:          gofakeit.ProductName(),
		Description:   gofakeit.Sentence(8),
		Price:         round2(gofakeit.Float64Range(1, 80)),
		StockQuantity: f.rng.Intn(20),
	}
	if category != nil {
		product.CategoryID = &category.ID
	}
	// Roughly a third of products carry a barcode.
	if f.rng.Intn(3) == 0 {
		barcode := gofakeit.DigitN(13)
		product.Barcode = &barcode
	}

	for _, override := range overrides {
		override(product)
	}
	if err := f.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// CreateList persists an open shopping list with a handful of lines, some
// drawn from the catalog and some free text.
func (f *Factory) CreateList(user *models.User, products []models.Product) (*models.ShoppingList, error) {
	list := &models.ShoppingList{
		Name:        gofakeit.RandomString([]string{"Feira da semana", "Churrasco", "Despensa", "Compra rápida"}),
		Description: gofakeit.Sentence(5),
		UserID:      user.ID,
	}
	if err := f.db.Create(list).Error; err != nil {
		return nil, err
	}

	lines := 2 + f.rng.Intn(5)
	for i := 0; i < lines; i++ {
		item := models.ListItem{
			ListID:    list.ID,
			Quantity:  1 + f.rng.Intn(4),
			Purchased: f.rng.Intn(2) == 0,
		}
		if len(products) > 0 && f.rng.Intn(3) > 0 {
			p := products[f.rng.Intn(len(products))]
			item.ProductID = &p.ID
			item.Name = p.Name
			price := p.Price
			item.EstimatedPrice = &price
		} else {
			item.Name = gofakeit.ProductName()
			if f.rng.Intn(2) == 0 {
				price := round2(gofakeit.Float64Range(1, 40))
				item.EstimatedPrice = &price
			}
		}
		if err := f.db.Create(&item).Error; err != nil {
			return nil, err
		}
	}
	return list, nil
}

// CreatePurchase persists a historical purchase dated within the trailing
// maxDaysBack days, so seeded data shows up in the statistics window.
func (f *Factory) CreatePurchase(user *models.User, products []models.Product, maxDaysBack int) (*models.Purchase, error) {
	if maxDaysBack <= 0 {
		maxDaysBack = 90
	}
	purchase := &models.Purchase{
		UserID:       user.ID,
		PurchaseDate: time.Now().AddDate(0, 0, -f.rng.Intn(maxDaysBack)),
		Location:     gofakeit.Company(),
	}

	lines := 1 + f.rng.Intn(6)
	for i := 0; i < lines; i++ {
		quantity := 1 + f.rng.Intn(4)
		item := models.PurchaseItem{
			Quantity: quantity,
		}
		if len(products) > 0 && f.rng.Intn(3) > 0 {
			p := products[f.rng.Intn(len(products))]
			item.ProductID = &p.ID
			item.Name = p.Name
			item.UnitPrice = p.Price
		} else {
			item.Name = gofakeit.ProductName()
			item.UnitPrice = round2(gofakeit.Float64Range(1, 60))
		}
		item.TotalPrice = round2(item.UnitPrice * float64(quantity))
		purchase.Items = append(purchase.Items, item)
		purchase.TotalValue += item.TotalPrice
	}
	purchase.TotalValue = round2(purchase.TotalValue)

	if err := f.db.Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

// CreateSubscription persists an active subscription on the given plan.
func (f *Factory) CreateSubscription(user *models.User, plan string) (*models.Subscription, error) {
	sub := &models.Subscription{
		UserID:    user.ID,
		Plan:      plan,
		Status:    models.SubscriptionActive,
		StartDate: time.Now(),
	}
	if plan == models.PlanAnnual {
		end := sub.StartDate.AddDate(0, 0, 365)
		sub.EndDate = &end
	}
	if err := f.db.Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
