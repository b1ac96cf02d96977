package repositories

import (
	"errors"

	"productapi/internal/models"
)

// Sentinel errors returned by ProductRepository implementations. Callers
// match them with errors.Is; implementations may wrap them with context.
var (
	// ErrProductNotFound is returned when no row matches the given primary key.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct is returned when the store rejects a write due to a
	// uniqueness or integrity constraint.
	ErrDuplicateProduct = errors.New("product already exists")
)

// ListParams controls the window and ordering of a List call.
type ListParams struct {
	Limit   int
	Offset  int
	OrderBy string
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(params ListParams) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	// Update merges the given column/value pairs onto the row identified by id
	// and returns the refreshed record. updated_at is always set, regardless
	// of which fields changed.
	Update(id string, fields map[string]interface{}) (*models.Product, error)
	Delete(id string) error
}
