package services

import (
	"log"
	"time"

	"productapi/internal/models"
	"productapi/internal/repositories"
	"productapi/pkg/rabbitmq"
)

// ProductService handles business logic related to products. After a
// successful write it publishes a lifecycle event; publishing is
// fire-and-forget and never changes the outcome of the operation.
type ProductService struct {
	repo   repositories.ProductRepository
	events rabbitmq.Publisher
}

// NewProductService creates a new ProductService. events may be nil, in
// which case no lifecycle events are published.
func NewProductService(repo repositories.ProductRepository, events rabbitmq.Publisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// ListProducts retrieves products ordered and windowed per params.
func (s *ProductService) ListProducts(params repositories.ListParams) ([]models.Product, error) {
	return s.repo.List(params)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product. The repository assigns the ID and
// timestamps.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publish(rabbitmq.EventProductCreated, product.ID)
	return nil
}

// UpdateProduct merges the given fields onto an existing product and returns
// the stored record.
func (s *ProductService) UpdateProduct(id string, fields map[string]interface{}) (*models.Product, error) {
	product, err := s.repo.Update(id, fields)
	if err != nil {
		return nil, err
	}
	s.publish(rabbitmq.EventProductUpdated, product.ID)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish(rabbitmq.EventProductDeleted, id)
	return nil
}

func (s *ProductService) publish(event, productID string) {
	if s.events == nil {
		return
	}
	err := s.events.PublishProductEvent(rabbitmq.ProductEvent{
		Event:      event,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to publish %s event for product %s: %v", event, productID, err)
	}
}
