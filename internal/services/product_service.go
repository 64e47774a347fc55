package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"productapi/internal/models"
	"productapi/internal/repositories"
)

// ErrInvalidProduct is returned when a product would break a model invariant.
var ErrInvalidProduct = errors.New("invalid product")

// Product event types.
const (
	EventProductCreated             = "product.created"
	EventProductUpdated             = "product.updated"
	EventProductAvailabilityToggled = "product.availability_toggled"
	EventProductDeleted             = "product.deleted"
)

// ProductEvent is published after every successful write.
type ProductEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Product    models.Product `json:"product"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// EventPublisher delivers product events to a broker.
type EventPublisher interface {
	Publish(event any) error
}

// ProductInput carries the caller-supplied fields of a full replace.
type ProductInput struct {
	Name         string
	Price        float64
	Availability bool
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	events   EventPublisher
	validate *validator.Validate
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:     repo,
		events:   events,
		validate: validator.New(),
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct inserts a new, available product.
func (s *ProductService) CreateProduct(ctx context.Context, name string, price float64) (*models.Product, error) {
	product := &models.Product{
		Name:         name,
		Price:        price,
		Availability: true,
	}
	if err := s.check(product); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductCreated, product)
	return product, nil
}

// UpdateProduct overwrites name, price and availability of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Availability = input.Availability
	if err := s.check(product); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductUpdated, product)
	return product, nil
}

// ToggleAvailability flips the availability flag and leaves every other field alone.
func (s *ProductService) ToggleAvailability(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Availability = !product.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductAvailabilityToggled, product)
	return product, nil
}

// DeleteProduct removes an existing product.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(EventProductDeleted, product)
	return nil
}

func (s *ProductService) check(product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return nil
}

// publish is best effort; a broker failure never fails the write.
func (s *ProductService) publish(eventType string, product *models.Product) {
	if s.events == nil {
		return
	}
	event := ProductEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Product:    *product,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(event); err != nil {
		log.Printf("Warning: failed to publish %s event for product %d: %v", eventType, product.ID, err)
	}
}
