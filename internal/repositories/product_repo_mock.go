package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"productapi/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It returns the same sentinel errors as the GORM implementation, so the two
// are interchangeable behind the interface.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// List returns products ordered by the requested column, windowed by
// limit/offset.
func (r *MockProductRepository) List(params ListParams) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}

	column := params.OrderBy
	if !orderableColumns[column] {
		column = "created_at"
	}
	sort.Slice(productList, func(i, j int) bool {
		a, b := productList[i], productList[j]
		switch column {
		case "id":
			return a.ID < b.ID
		case "name":
			return a.Name < b.Name
		case "price":
			return a.Price < b.Price
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	if params.Offset > len(productList) {
		return []models.Product{}, nil
	}
	productList = productList[params.Offset:]
	if params.Limit > 0 && params.Limit < len(productList) {
		productList = productList[:params.Limit]
	}
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// Create adds a new product, assigning an ID and timestamps.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if _, exists := r.products[product.ID]; exists {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrDuplicateProduct)
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update merges the given fields onto an existing product and refreshes
// updated_at.
func (r *MockProductRepository) Update(id string, fields map[string]interface{}) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	for column, value := range fields {
		switch column {
		case "name":
			if name, ok := value.(string); ok {
				product.Name = name
			}
		case "price":
			if price, ok := value.(int64); ok {
				product.Price = price
			}
		}
	}
	product.UpdatedAt = time.Now().UTC()
	r.products[id] = product
	return &product, nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	delete(r.products, id)
	return nil
}
