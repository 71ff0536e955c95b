package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"vetrina/internal/middleware"
	"vetrina/internal/models"
	"vetrina/internal/services"
)

// CartHandler serves the cart of the calling session and its checkout.
type CartHandler struct {
	carts    *services.CartService
	orders   *services.OrderService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService, orders *services.OrderService) *CartHandler {
	return &CartHandler{
		carts:    carts,
		orders:   orders,
		validate: models.NewValidator(),
	}
}

// RegisterRoutes registers the cart routes behind session.
func (h *CartHandler) RegisterRoutes(router fiber.Router, session fiber.Handler) {
	cartRoutes := router.Group("/cart", session)
	cartRoutes.Get("/", h.HandleView)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleSetQuantity)
	cartRoutes.Post("/items/:id/increment", h.HandleIncrement)
	cartRoutes.Post("/items/:id/decrement", h.HandleDecrement)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Put("/email", h.HandleSetEmail)
	cartRoutes.Post("/checkout", h.HandleCheckout)
}

func sessionID(c *fiber.Ctx) string {
	return middleware.ClaimsFrom(c).SessionID
}

// HandleView returns the cart.
func (h *CartHandler) HandleView(c *fiber.Ctx) error {
	return c.JSON(h.carts.View(sessionID(c)))
}

// AddItemRequest is the body of an add to cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// HandleAddItem adds one unit of a product.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	view, err := h.carts.AddItem(sessionID(c), req.ProductID)
	if err != nil {
		return respondError(c, "Could not add product to cart", err)
	}
	return c.JSON(view)
}

// QuantityRequest is the body of a quantity change.
type QuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// HandleSetQuantity sets a line quantity; zero or less removes the line.
func (h *CartHandler) HandleSetQuantity(c *fiber.Ctx) error {
	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	view, err := h.carts.SetQuantity(sessionID(c), c.Params("id"), *req.Quantity)
	if err != nil {
		return respondError(c, "Could not update cart", err)
	}
	return c.JSON(view)
}

// HandleIncrement adds one unit to a line.
func (h *CartHandler) HandleIncrement(c *fiber.Ctx) error {
	view, err := h.carts.Increment(sessionID(c), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not update cart", err)
	}
	return c.JSON(view)
}

// HandleDecrement removes one unit from a line.
func (h *CartHandler) HandleDecrement(c *fiber.Ctx) error {
	view, err := h.carts.Decrement(sessionID(c), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not update cart", err)
	}
	return c.JSON(view)
}

// HandleRemoveItem drops a line.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	return c.JSON(h.carts.RemoveItem(sessionID(c), c.Params("id")))
}

// EmailRequest carries the checkout email.
type EmailRequest struct {
	Email string `json:"email"`
}

// HandleSetEmail stores the checkout email typed so far.
func (h *CartHandler) HandleSetEmail(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	return c.JSON(h.carts.SetEmail(sessionID(c), req.Email))
}

// HandleCheckout commits the cart as an order. The body is optional; without
// an email the one stored on the cart is used.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var req EmailRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err)
		}
	}
	order, err := h.orders.Checkout(sessionID(c), req.Email)
	if err != nil {
		return respondError(c, "Could not place order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}
