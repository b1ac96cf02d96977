package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"productapi/internal/models"
)

// orderableColumns whitelists the columns List may sort by. Anything else
// falls back to created_at rather than reaching the query.
var orderableColumns = map[string]bool{
	"id":         true,
	"name":       true,
	"price":      true,
	"created_at": true,
	"updated_at": true,
}

// GORMProductRepository is a GORM implementation of ProductRepository.
// Every write runs inside its own transaction, so rollback on error and
// commit on success hold on every exit path. The *gorm.DB must be opened
// with TranslateError enabled for constraint violations to surface as
// ErrDuplicateProduct.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves products ordered by the requested column, windowed by
// limit/offset. A zero-row result is not an error.
func (r *GORMProductRepository) List(params ListParams) ([]models.Product, error) {
	column := params.OrderBy
	if !orderableColumns[column] {
		column = "created_at"
	}

	var products []models.Product
	err := r.db.Order(column).Limit(params.Limit).Offset(params.Offset).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its primary key.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product. An empty ID gets a fresh UUID; both
// timestamps are assigned the same instant so created_at == updated_at on
// a freshly created record.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(product).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product with ID %s: %w", product.ID, ErrDuplicateProduct)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update merges the given fields onto an existing row and refreshes
// updated_at, then returns the record as stored.
func (r *GORMProductRepository) Update(id string, fields map[string]interface{}) (*models.Product, error) {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = time.Now().UTC()

	var product models.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		// Re-read so the caller sees exactly what was stored.
		return tx.First(&product, "id = ?", id).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrDuplicateProduct)
		default:
			return nil, fmt.Errorf("failed to update product %s: %w", id, err)
		}
	}
	return &product, nil
}

// Delete removes a product by its primary key. Deleting an absent row is
// reported as ErrProductNotFound, so a repeated delete is not a silent
// success.
func (r *GORMProductRepository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
		}
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}
