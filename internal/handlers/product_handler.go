package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"vetrina/internal/models"
	"vetrina/internal/services"
	"vetrina/internal/views"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	loc     *time.Location
}

// NewProductHandler creates a new ProductHandler. Plain dates in requests are
// read in loc.
func NewProductHandler(service *services.ProductService, loc *time.Location) *ProductHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ProductHandler{service: service, loc: loc}
}

// RegisterRoutes registers the catalog routes behind session and the product
// management routes behind session and admin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, session, admin fiber.Handler) {
	catalog := router.Group("/products", session)
	catalog.Get("/", h.HandleCatalog)
	catalog.Get("/stream", h.HandleStream)
	catalog.Get("/:id", h.HandleGetAvailable)

	manage := router.Group("/admin/products", session, admin)
	manage.Get("/", h.HandleGetAll)
	manage.Get("/:id", h.HandleGetByID)
	manage.Post("/", h.HandleCreate)
	manage.Put("/:id", h.HandleUpdate)
	manage.Delete("/:id", h.HandleDelete)
}

// ProductRequest is the body of a create or update. AvailableUntil accepts
// YYYY-MM-DD or RFC3339; empty means always available.
type ProductRequest struct {
	Name           string              `json:"name"`
	Price          decimal.Decimal     `json:"price"`
	Category       models.ShopCategory `json:"category"`
	ImageURL       string              `json:"image_url"`
	Description    string              `json:"description"`
	AvailableUntil string              `json:"available_until"`
}

func (r ProductRequest) toProduct(loc *time.Location) (*models.Product, error) {
	product := &models.Product{
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		Description: r.Description,
	}
	until := strings.TrimSpace(r.AvailableUntil)
	if until == "" {
		return product, nil
	}
	t, err := time.Parse(time.RFC3339, until)
	if err != nil {
		t, err = time.ParseInLocation(views.DateLayout, until, loc)
	}
	if err != nil {
		return nil, errors.Wrapf(services.ErrValidation, "invalid available_until %q, expected YYYY-MM-DD or RFC3339", until)
	}
	product.AvailableUntil = &t
	return product, nil
}

// HandleCatalog returns the products available right now.
func (h *ProductHandler) HandleCatalog(c *fiber.Ctx) error {
	products, err := h.service.Catalog()
	if err != nil {
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleStream pushes the available products after every change. Expiry is
// evaluated when each snapshot is sent.
func (h *ProductHandler) HandleStream(c *fiber.Ctx) error {
	return stream(c, h.service.Feed(), func(products []models.Product) interface{} {
		return views.AvailableProducts(products, h.service.Now())
	})
}

// HandleGetAvailable returns one product if it is still available.
func (h *ProductHandler) HandleGetAvailable(c *fiber.Ctx) error {
	product, err := h.service.GetAvailableProduct(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleGetAll returns every product, expired ones included.
func (h *ProductHandler) HandleGetAll(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) parse(c *fiber.Ctx) (*models.Product, error) {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errors.Wrap(services.ErrValidation, err.Error())
	}
	return req.toProduct(h.loc)
}

// HandleCreate creates a new product.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	product, err := h.parse(c)
	if err != nil {
		return respondError(c, "Invalid request body", err)
	}
	if err := h.service.CreateProduct(product); err != nil {
		return respondError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate updates an existing product.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	product, err := h.parse(c)
	if err != nil {
		return respondError(c, "Invalid request body", err)
	}
	product.ID = c.Params("id")
	if err := h.service.UpdateProduct(product); err != nil {
		return respondError(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDelete deletes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
