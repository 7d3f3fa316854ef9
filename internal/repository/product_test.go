package repository

import (
	"context"
	"testing"

	"larder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_GetByNameFold(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	first := createTestProduct(t, db, "Arroz Integral", 10)
	createTestProduct(t, db, "arroz integral", 3)

	got, err := repo.GetByNameFold(ctx, "ARROZ INTEGRAL")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID, "oldest match wins")

	got, err = repo.GetByNameFold(ctx, "feijao")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductRepository_GetByBarcode(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	barcode := "7891000100103"
	product := &models.Product{Name: "Leite", Price: 4.99, Barcode: &barcode}
	require.NoError(t, repo.Create(ctx, product))

	got, err := repo.GetByBarcode(ctx, barcode)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, product.ID, got.ID)

	got, err = repo.GetByBarcode(ctx, "0000000000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductRepository_CreateDuplicateBarcode(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	barcode := "7891000100103"
	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Leite", Barcode: &barcode}))

	err := repo.Create(ctx, &models.Product{Name: "Leite B", Barcode: &barcode})
	assert.Error(t, err)
}

func TestProductRepository_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	catRepo := NewCategoryRepository(db)
	ctx := context.Background()

	category := &models.Category{Name: "Laticinios"}
	require.NoError(t, catRepo.Create(ctx, category))

	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Queijo Minas", CategoryID: &category.ID}))
	require.NoError(t, repo.Create(ctx, &models.Product{Name: "Sabonete", Description: "higiene pessoal"}))

	// By name, case-insensitive
	results, err := repo.Search(ctx, "queijo", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Queijo Minas", results[0].Name)

	// By description
	results, err = repo.Search(ctx, "higiene", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sabonete", results[0].Name)

	// By category name
	results, err = repo.Search(ctx, "laticinios", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Queijo Minas", results[0].Name)
}

func TestProductRepository_ListLowStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	min := 10
	createTestProduct(t, db, "At default threshold", 5)
	createTestProduct(t, db, "Above default threshold", 6)
	require.NoError(t, db.Create(&models.Product{Name: "Below explicit threshold", StockQuantity: 8, MinStock: &min}).Error)

	products, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)

	names := []string{products[0].Name, products[1].Name}
	assert.Contains(t, names, "At default threshold")
	assert.Contains(t, names, "Below explicit threshold")
}

func TestProductRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	createTestProduct(t, db, "Banana", 10)
	createTestProduct(t, db, "Abacaxi", 10)

	products, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Abacaxi", products[0].Name, "ordered by name")
}
