package repositories_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"productapi/internal/models"
	"productapi/internal/repositories"
)

// setupRepo opens a fresh in-memory SQLite database for one test. The DSN is
// keyed by test name so tests do not share state through SQLite's shared
// cache.
func setupRepo(t *testing.T) *repositories.GORMProductRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return repositories.NewGORMProductRepository(db)
}

func TestGORMProductRepository_CreateAndGet(t *testing.T) {
	repo := setupRepo(t)

	product := models.Product{Name: "Widget", Price: 500}
	err := repo.Create(&product)
	assert.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.False(t, product.CreatedAt.IsZero())
	assert.True(t, product.CreatedAt.Equal(product.UpdatedAt))

	fetched, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, product.ID, fetched.ID)
	assert.Equal(t, "Widget", fetched.Name)
	assert.Equal(t, int64(500), fetched.Price)
}

func TestGORMProductRepository_CreateDuplicateID(t *testing.T) {
	repo := setupRepo(t)

	product := models.Product{Name: "Widget", Price: 500}
	assert.NoError(t, repo.Create(&product))

	duplicate := models.Product{ID: product.ID, Name: "Other", Price: 100}
	err := repo.Create(&duplicate)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, repositories.ErrDuplicateProduct))
}

func TestGORMProductRepository_GetByIDNotFound(t *testing.T) {
	repo := setupRepo(t)

	product, err := repo.GetByID("b54a27f6-9b35-4a3a-8c0e-6a60d1a9d2ff")
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.True(t, errors.Is(err, repositories.ErrProductNotFound))
}

func TestGORMProductRepository_PartialUpdate(t *testing.T) {
	repo := setupRepo(t)

	product := models.Product{Name: "Widget", Price: 500}
	assert.NoError(t, repo.Create(&product))

	// Keep the timestamps apart so the refresh is observable.
	time.Sleep(10 * time.Millisecond)

	updated, err := repo.Update(product.ID, map[string]interface{}{"price": int64(600)})
	assert.NoError(t, err)
	assert.Equal(t, int64(600), updated.Price)
	assert.Equal(t, "Widget", updated.Name)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestGORMProductRepository_UpdateNotFound(t *testing.T) {
	repo := setupRepo(t)

	updated, err := repo.Update("b54a27f6-9b35-4a3a-8c0e-6a60d1a9d2ff", map[string]interface{}{"price": int64(600)})
	assert.Error(t, err)
	assert.Nil(t, updated)
	assert.True(t, errors.Is(err, repositories.ErrProductNotFound))
}

func TestGORMProductRepository_DeleteIsNotIdempotent(t *testing.T) {
	repo := setupRepo(t)

	product := models.Product{Name: "Widget", Price: 500}
	assert.NoError(t, repo.Create(&product))

	assert.NoError(t, repo.Delete(product.ID))

	err := repo.Delete(product.ID)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, repositories.ErrProductNotFound))

	_, err = repo.GetByID(product.ID)
	assert.True(t, errors.Is(err, repositories.ErrProductNotFound))
}

func TestGORMProductRepository_List(t *testing.T) {
	repo := setupRepo(t)

	for i, price := range []int64{300, 100, 200} {
		product := models.Product{Name: fmt.Sprintf("Product %d", i), Price: price}
		assert.NoError(t, repo.Create(&product))
	}

	// Ordered by price.
	products, err := repo.List(repositories.ListParams{Limit: 10, OrderBy: "price"})
	assert.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, int64(100), products[0].Price)
	assert.Equal(t, int64(300), products[2].Price)

	// Limit and offset window the result.
	products, err = repo.List(repositories.ListParams{Limit: 1, Offset: 1, OrderBy: "price"})
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int64(200), products[0].Price)

	// Unknown order columns fall back to created_at instead of erroring.
	products, err = repo.List(repositories.ListParams{Limit: 10, OrderBy: "price; DROP TABLE products"})
	assert.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestGORMProductRepository_ListEmpty(t *testing.T) {
	repo := setupRepo(t)

	products, err := repo.List(repositories.ListParams{Limit: 10, OrderBy: "created_at"})
	assert.NoError(t, err)
	assert.Empty(t, products)
}
