package usecase_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepost/internal/domain/entity"
	"tradepost/internal/usecase"
	apperrors "tradepost/pkg/errors"
)

func TestCreateProduct(t *testing.T) {
	ownerID := uuid.New()

	t.Run("defaults currency and activates", func(t *testing.T) {
		uc := usecase.NewProductUseCase(newFakeProductRepo())

		product, err := uc.CreateProduct(t.Context(), ownerID, usecase.CreateProductInput{
			Title: "Vintage lamp",
			Price: decimal.RequireFromString("25.50"),
		})
		require.NoError(t, err)

		assert.Equal(t, "EUR", product.Currency)
		assert.True(t, product.IsActive)
		assert.False(t, product.Sold)
		assert.Equal(t, ownerID, product.OwnerID)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		uc := usecase.NewProductUseCase(newFakeProductRepo())

		_, err := uc.CreateProduct(t.Context(), ownerID, usecase.CreateProductInput{
			Title: "Vintage lamp",
			Price: decimal.RequireFromString("-1"),
		})
		assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))
	})

	t.Run("duplicate SKU conflicts", func(t *testing.T) {
		uc := usecase.NewProductUseCase(newFakeProductRepo())

		input := usecase.CreateProductInput{
			Title: "Vintage lamp",
			Price: decimal.RequireFromString("25.50"),
			SKU:   "LAMP-001",
		}

		_, err := uc.CreateProduct(t.Context(), ownerID, input)
		require.NoError(t, err)

		_, err = uc.CreateProduct(t.Context(), ownerID, input)
		assert.True(t, apperrors.Is(err, "CONFLICT"))
	})
}

func TestGetProductVisibility(t *testing.T) {
	ownerID := uuid.New()
	viewerID := uuid.New()

	seed := func(t *testing.T, repo *fakeProductRepo, mutate func(*entity.Product)) *entity.Product {
		t.Helper()
		product := fakeProduct(ownerID)
		if mutate != nil {
			mutate(product)
		}
		require.NoError(t, repo.Create(t.Context(), product))
		return product
	}

	t.Run("available product is visible to anyone", func(t *testing.T) {
		repo := newFakeProductRepo()
		uc := usecase.NewProductUseCase(repo)
		product := seed(t, repo, nil)

		got, err := uc.GetProduct(t.Context(), viewerID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, got.ID)

		// anonymous viewer
		_, err = uc.GetProduct(t.Context(), uuid.Nil, product.ID)
		require.NoError(t, err)
	})

	t.Run("sold product hidden from non-owners", func(t *testing.T) {
		repo := newFakeProductRepo()
		uc := usecase.NewProductUseCase(repo)
		product := seed(t, repo, func(p *entity.Product) { p.Sold = true })

		_, err := uc.GetProduct(t.Context(), viewerID, product.ID)
		assert.True(t, apperrors.Is(err, "NOT_FOUND"))

		got, err := uc.GetProduct(t.Context(), ownerID, product.ID)
		require.NoError(t, err)
		assert.True(t, got.Sold)
	})

	t.Run("inactive product hidden from non-owners", func(t *testing.T) {
		repo := newFakeProductRepo()
		uc := usecase.NewProductUseCase(repo)
		product := seed(t, repo, func(p *entity.Product) { p.IsActive = false })

		_, err := uc.GetProduct(t.Context(), viewerID, product.ID)
		assert.True(t, apperrors.Is(err, "NOT_FOUND"))
	})
}

func TestListCatalog(t *testing.T) {
	ownerID := uuid.New()

	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	available := fakeProduct(ownerID)
	sold := fakeProduct(ownerID)
	sold.Sold = true
	inactive := fakeProduct(ownerID)
	inactive.IsActive = false

	for _, p := range []*entity.Product{available, sold, inactive} {
		require.NoError(t, repo.Create(t.Context(), p))
	}

	t.Run("catalog shows only available products", func(t *testing.T) {
		products, total, err := uc.ListCatalog(t.Context(), "", "", nil, nil, 1, 20)
		require.NoError(t, err)

		assert.EqualValues(t, 1, total)
		require.Len(t, products, 1)
		assert.Equal(t, available.ID, products[0].ID)
	})

	t.Run("owner listing shows everything", func(t *testing.T) {
		products, total, err := uc.ListMyProducts(t.Context(), ownerID, 1, 20)
		require.NoError(t, err)

		assert.EqualValues(t, 3, total)
		assert.Len(t, products, 3)
	})

	t.Run("price range filters", func(t *testing.T) {
		minPrice := available.Price.Add(decimal.NewFromInt(1))
		products, _, err := uc.ListCatalog(t.Context(), "", "", &minPrice, nil, 1, 20)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestUpdateProduct(t *testing.T) {
	ownerID := uuid.New()

	seed := func(t *testing.T, repo *fakeProductRepo, mutate func(*entity.Product)) *entity.Product {
		t.Helper()
		product := fakeProduct(ownerID)
		if mutate != nil {
			mutate(product)
		}
		require.NoError(t, repo.Create(t.Context(), product))
		return product
	}

	t.Run("owner updates allow-listed fields", func(t *testing.T) {
		repo := newFakeProductRepo()
		uc := usecase.NewProductUseCase(repo)
		product := seed(t, repo, nil)

		title := "Refurbished lamp"
		price := decimal.RequireFromString("19.99")
		updated, err := uc.UpdateProduct(t.Context(), ownerID, product.ID, entity.ProductUpdate{
			Title: &title,
			Price: &price,
		})
		require.NoError(t, err)

		assert.Equal(t, "Refurbished lamp", updated.Title)
		assert.True(t, updated.Price.Equal(price))
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := newFakeProductRepo()
		uc := usecase.NewProductUseCase(repo)
		product := seed(t, repo, nil)

		title := "hijacked"
		_, err := uc.UpdateProduct(t.Context(), uuid.New(), product.ID, entity.ProductUpdate{Title: &title})
		assert.True(t, apperrors.Is(err, "FORBIDDEN"))
	})

	t.Run("sold product is immutable", func(t *testing.T) {
		repo := newFakeProductRepo()
		uc := usecase.NewProductUseCase(repo)
		product := seed(t, repo, func(p *entity.Product) { p.Sold = true })

		title := "too late"
		_, err := uc.UpdateProduct(t.Context(), ownerID, product.ID, entity.ProductUpdate{Title: &title})
		assert.True(t, apperrors.Is(err, "CONFLICT"))
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		repo := newFakeProductRepo()
		uc := usecase.NewProductUseCase(repo)
		product := seed(t, repo, nil)

		price := decimal.RequireFromString("-5")
		_, err := uc.UpdateProduct(t.Context(), ownerID, product.ID, entity.ProductUpdate{Price: &price})
		assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))
	})
}

func TestDeleteProduct(t *testing.T) {
	ownerID := uuid.New()

	t.Run("owner deletes an unsold product", func(t *testing.T) {
		repo := newFakeProductRepo()
		uc := usecase.NewProductUseCase(repo)
		product := fakeProduct(ownerID)
		require.NoError(t, repo.Create(t.Context(), product))

		require.NoError(t, uc.DeleteProduct(t.Context(), ownerID, product.ID))

		_, err := repo.GetByID(t.Context(), product.ID)
		assert.Error(t, err)
	})

	t.Run("sold product cannot be deleted", func(t *testing.T) {
		repo := newFakeProductRepo()
		uc := usecase.NewProductUseCase(repo)
		product := fakeProduct(ownerID)
		product.Sold = true
		require.NoError(t, repo.Create(t.Context(), product))

		err := uc.DeleteProduct(t.Context(), ownerID, product.ID)
		assert.True(t, apperrors.Is(err, "CONFLICT"))
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := newFakeProductRepo()
		uc := usecase.NewProductUseCase(repo)
		product := fakeProduct(ownerID)
		require.NoError(t, repo.Create(t.Context(), product))

		err := uc.DeleteProduct(t.Context(), uuid.New(), product.ID)
		assert.True(t, apperrors.Is(err, "FORBIDDEN"))
	})
}
