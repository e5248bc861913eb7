package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository"
)

// CreateProductInput is a staff request for a catalog item.
type CreateProductInput struct {
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
}

// ProductService manages the catalog orders are placed against.
type ProductService struct {
	store repository.Store
}

// NewProductService creates a new ProductService.
func NewProductService(store repository.Store) *ProductService {
	return &ProductService{store: store}
}

// Create adds a product. Prices are kept to two decimal places.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Product{}, apperrors.ErrInvalidRequestf("name is required")
	}
	if in.Price.IsNegative() {
		return domain.Product{}, apperrors.BadRequest(apperrors.CodeInvalidAmount, "price must not be negative")
	}

	p, err := s.store.Products().Create(ctx, domain.Product{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Price:       in.Price.Round(2),
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	logger.Info("product created", zap.Int64("product_id", p.ID), zap.String("price", p.Price.StringFixed(2)))
	return p, nil
}

// Get returns product id.
func (s *ProductService) Get(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.store.Products().Get(ctx, id)
	if err != nil {
		return domain.Product{}, productErr(id, err)
	}
	return p, nil
}

// List returns the catalog in creation order.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	out, err := s.store.Products().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// Delete removes product id from the catalog.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Products().Delete(ctx, id); err != nil {
		return productErr(id, err)
	}
	logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func productErr(id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrProductNotFoundf(id)
	}
	return fmt.Errorf("product %d: %w", id, err)
}
