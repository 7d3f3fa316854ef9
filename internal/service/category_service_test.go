package service

import (
	"context"
	"testing"

	"larder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	t.Parallel()

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		t.Parallel()
		categories := noopCategoryRepo()
		categories.getByNameFn = func(_ context.Context, name string) (*models.Category, error) {
			return &models.Category{ID: 1, Name: name}, nil
		}
		svc := NewCategoryService(categories)
		_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Bebidas"})
		assertErrorCode(t, err, models.CodeConflict)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		t.Parallel()
		svc := NewCategoryService(noopCategoryRepo())
		_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "  "})
		assertErrorCode(t, err, models.CodeValidation)
	})

	t.Run("name is trimmed", func(t *testing.T) {
		t.Parallel()
		categories := noopCategoryRepo()
		var created *models.Category
		categories.createFn = func(_ context.Context, c *models.Category) error {
			created = c
			return nil
		}
		svc := NewCategoryService(categories)
		_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: " Bebidas "})
		require.NoError(t, err)
		assert.Equal(t, "Bebidas", created.Name)
	})
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	t.Parallel()

	t.Run("renaming to another category's name conflicts", func(t *testing.T) {
		t.Parallel()
		categories := noopCategoryRepo()
		categories.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "Padaria"}, nil
		}
		categories.getByNameFn = func(_ context.Context, name string) (*models.Category, error) {
			return &models.Category{ID: 99, Name: name}, nil
		}
		svc := NewCategoryService(categories)
		_, err := svc.UpdateCategory(context.Background(), 1, UpdateCategoryInput{Name: strPtr("Bebidas")})
		assertErrorCode(t, err, models.CodeConflict)
	})

	t.Run("case change of own name is allowed", func(t *testing.T) {
		t.Parallel()
		categories := noopCategoryRepo()
		categories.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: 1, Name: "bebidas"}, nil
		}
		categories.getByNameFn = func(_ context.Context, name string) (*models.Category, error) {
			return &models.Category{ID: 1, Name: "bebidas"}, nil
		}
		var saved *models.Category
		categories.updateFn = func(_ context.Context, c *models.Category) error {
			saved = c
			return nil
		}
		svc := NewCategoryService(categories)
		_, err := svc.UpdateCategory(context.Background(), 1, UpdateCategoryInput{Name: strPtr("Bebidas")})
		require.NoError(t, err)
		assert.Equal(t, "Bebidas", saved.Name)
	})
}

func TestCategoryService_ListCategoryProducts(t *testing.T) {
	t.Parallel()

	categories := noopCategoryRepo()
	categories.getByIDFn = func(_ context.Context, _ uint) (*models.Category, error) {
		return nil, models.NewNotFoundError("Category")
	}
	svc := NewCategoryService(categories)
	_, err := svc.ListCategoryProducts(context.Background(), 9)
	assertErrorCode(t, err, models.CodeNotFound)
}
