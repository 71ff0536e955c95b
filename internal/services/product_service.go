package services

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"vetrina/internal/live"
	"vetrina/internal/models"
	"vetrina/internal/repositories"
	"vetrina/internal/views"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	feed     *live.Feed[models.Product]
	validate *validator.Validate
	now      func() time.Time
}

// NewProductService creates a new ProductService. now is the clock used by
// the availability filter; nil means time.Now.
func NewProductService(repo repositories.ProductRepository, now func() time.Time) *ProductService {
	if now == nil {
		now = time.Now
	}
	return &ProductService{
		repo:     repo,
		feed:     live.NewFeed("products", repo.GetAll),
		validate: models.NewValidator(),
		now:      now,
	}
}

// Feed is the live products collection, unfiltered.
func (s *ProductService) Feed() *live.Feed[models.Product] {
	return s.feed
}

// Now is the instant availability is evaluated against.
func (s *ProductService) Now() time.Time {
	return s.now()
}

// GetAllProducts retrieves all products, including expired ones.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	products, err := s.repo.GetAll()
	return products, readErr(err)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	return product, readErr(err)
}

// Catalog returns the products customers may see right now.
func (s *ProductService) Catalog() ([]models.Product, error) {
	products, err := s.GetAllProducts()
	if err != nil {
		return nil, err
	}
	return views.AvailableProducts(products, s.now()), nil
}

// GetAvailableProduct returns a product only while it is available.
func (s *ProductService) GetAvailableProduct(id string) (*models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if !product.AvailableAt(s.now()) {
		return nil, errors.Wrapf(repositories.ErrNotFound, "product with ID %s is no longer available", id)
	}
	return product, nil
}

// Categories lists the product categories for the order filter.
func (s *ProductService) Categories() ([]string, error) {
	products, err := s.GetAllProducts()
	if err != nil {
		return nil, err
	}
	return views.ShopCategories(products), nil
}

func (s *ProductService) check(product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.ImageURL == "" {
		product.ImageURL = models.DefaultProductImageURL
	}
	if err := s.validate.Struct(product); err != nil {
		return invalid(err)
	}
	if product.Price.IsNegative() {
		return invalidf("price must not be negative")
	}
	return nil
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	product.ID = ""
	if err := s.check(product); err != nil {
		return err
	}
	if err := s.repo.Create(product); err != nil {
		return writeErr(err)
	}
	s.feed.Notify()
	return nil
}

// UpdateProduct updates an existing product. The last write wins.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.check(product); err != nil {
		return err
	}
	if err := s.repo.Update(product); err != nil {
		return writeErr(err)
	}
	s.feed.Notify()
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return writeErr(err)
	}
	s.feed.Notify()
	return nil
}
