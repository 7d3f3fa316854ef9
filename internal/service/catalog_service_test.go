package service

import (
	"context"
	"testing"

	"larder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CreateProduct(t *testing.T) {
	t.Parallel()

	t.Run("valid product", func(t *testing.T) {
		t.Parallel()
		products := noopProductRepo()
		var created *models.Product
		products.createFn = func(_ context.Context, p *models.Product) error {
			created = p
			return nil
		}

		svc := NewCatalogService(products, noopCategoryRepo())
		product, err := svc.CreateProduct(context.Background(), CreateProductInput{
			Name:  "  Arroz  ",
			Price: 5.49,
			Stock: 3,
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "Arroz", product.Name, "name is trimmed")
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		svc := NewCatalogService(noopProductRepo(), noopCategoryRepo())
		_, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "   "})
		assertErrorCode(t, err, models.CodeValidation)
	})

	t.Run("non-positive price", func(t *testing.T) {
		t.Parallel()
		svc := NewCatalogService(noopProductRepo(), noopCategoryRepo())

		_, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "Arroz", Price: -1})
		assertErrorCode(t, err, models.CodeValidation)

		_, err = svc.CreateProduct(context.Background(), CreateProductInput{Name: "Arroz", Price: 0})
		assertErrorCode(t, err, models.CodeValidation)
	})

	t.Run("unknown category", func(t *testing.T) {
		t.Parallel()
		categories := noopCategoryRepo()
		categories.getByIDFn = func(_ context.Context, _ uint) (*models.Category, error) {
			return nil, models.NewNotFoundError("Category")
		}
		svc := NewCatalogService(noopProductRepo(), categories)
		_, err := svc.CreateProduct(context.Background(), CreateProductInput{Name: "Arroz", Price: 5, CategoryID: uintPtr(9)})
		assertErrorCode(t, err, models.CodeNotFound)
	})
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	t.Parallel()

	newStub := func() (*productRepoStub, **models.Product) {
		products := noopProductRepo()
		products.getByIDFn = func(_ context.Context, id uint) (*models.Product, error) {
			cat := uint(3)
			return &models.Product{ID: id, Name: "Arroz", Price: 5, StockQuantity: 2, CategoryID: &cat}, nil
		}
		var saved *models.Product
		products.updateFn = func(_ context.Context, p *models.Product) error {
			saved = p
			return nil
		}
		return products, &saved
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		t.Parallel()
		products, saved := newStub()
		svc := NewCatalogService(products, noopCategoryRepo())

		_, err := svc.UpdateProduct(context.Background(), 1, UpdateProductInput{Price: floatPtr(6.5)})
		require.NoError(t, err)
		assert.Equal(t, 6.5, (*saved).Price)
		assert.Equal(t, "Arroz", (*saved).Name)
		assert.Equal(t, 2, (*saved).StockQuantity)
	})

	t.Run("clear category", func(t *testing.T) {
		t.Parallel()
		products, saved := newStub()
		svc := NewCatalogService(products, noopCategoryRepo())

		_, err := svc.UpdateProduct(context.Background(), 1, UpdateProductInput{ClearCategory: true})
		require.NoError(t, err)
		assert.Nil(t, (*saved).CategoryID)
	})

	t.Run("negative stock rejected", func(t *testing.T) {
		t.Parallel()
		products, _ := newStub()
		svc := NewCatalogService(products, noopCategoryRepo())

		_, err := svc.UpdateProduct(context.Background(), 1, UpdateProductInput{Stock: intPtr(-1)})
		assertErrorCode(t, err, models.CodeValidation)
	})

	t.Run("zero price rejected", func(t *testing.T) {
		t.Parallel()
		products, _ := newStub()
		svc := NewCatalogService(products, noopCategoryRepo())

		_, err := svc.UpdateProduct(context.Background(), 1, UpdateProductInput{Price: floatPtr(0)})
		assertErrorCode(t, err, models.CodeValidation)
	})
}

func TestCatalogService_AdjustStock(t *testing.T) {
	t.Parallel()

	newStub := func(stock int) (*productRepoStub, **models.Product) {
		products := noopProductRepo()
		products.getByIDFn = func(_ context.Context, id uint) (*models.Product, error) {
			return &models.Product{ID: id, Name: "Arroz", StockQuantity: stock}, nil
		}
		var saved *models.Product
		products.updateFn = func(_ context.Context, p *models.Product) error {
			saved = p
			return nil
		}
		return products, &saved
	}

	t.Run("positive delta", func(t *testing.T) {
		t.Parallel()
		products, saved := newStub(2)
		svc := NewCatalogService(products, noopCategoryRepo())
		product, err := svc.AdjustStock(context.Background(), StockAdjustment{ProductID: 1, Delta: 3})
		require.NoError(t, err)
		assert.Equal(t, 5, product.StockQuantity)
		assert.Equal(t, 5, (*saved).StockQuantity)
	})

	t.Run("cannot go below zero", func(t *testing.T) {
		t.Parallel()
		products, _ := newStub(2)
		svc := NewCatalogService(products, noopCategoryRepo())
		_, err := svc.AdjustStock(context.Background(), StockAdjustment{ProductID: 1, Delta: -3})
		assertErrorCode(t, err, models.CodeValidation)
	})
}

func TestCatalogService_ListProducts_SearchDispatch(t *testing.T) {
	t.Parallel()

	products := noopProductRepo()
	searched := false
	listed := false
	products.searchFn = func(_ context.Context, q string, _, _ int) ([]models.Product, error) {
		searched = true
		assert.Equal(t, "arroz", q)
		return nil, nil
	}
	products.listFn = func(_ context.Context, _, _ int) ([]models.Product, error) {
		listed = true
		return nil, nil
	}

	svc := NewCatalogService(products, noopCategoryRepo())
	_, err := svc.ListProducts(context.Background(), "  arroz  ", 10, 0)
	require.NoError(t, err)
	assert.True(t, searched)

	_, err = svc.ListProducts(context.Background(), "   ", 10, 0)
	require.NoError(t, err)
	assert.True(t, listed)
}

func TestCatalogService_GetProductByBarcode(t *testing.T) {
	t.Parallel()

	products := noopProductRepo()
	svc := NewCatalogService(products, noopCategoryRepo())

	_, err := svc.GetProductByBarcode(context.Background(), "123")
	assertErrorCode(t, err, models.CodeNotFound)

	products.getByBarcodeFn = func(_ context.Context, barcode string) (*models.Product, error) {
		return &models.Product{ID: 4, Barcode: &barcode}, nil
	}
	product, err := svc.GetProductByBarcode(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, uint(4), product.ID)
}
