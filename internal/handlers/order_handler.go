package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"vetrina/internal/models"
	"vetrina/internal/services"
	"vetrina/internal/views"
)

// OrderHandler serves the admin order views and the CSV export.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes behind session and admin.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, session, admin fiber.Handler) {
	orderRoutes := router.Group("/admin/orders", session, admin)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/categories", h.HandleCategories)
	orderRoutes.Get("/export", h.HandleExport)
	orderRoutes.Get("/stream", h.HandleStream)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

func orderFilter(c *fiber.Ctx) (views.OrderFilter, error) {
	var filter views.OrderFilter
	err := c.QueryParser(&filter)
	return filter, err
}

// HandleGetOrders returns the orders matching ?category= and ?date=.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	filter, err := orderFilter(c)
	if err != nil {
		return badRequest(c, err)
	}
	orders, err := h.service.List(filter)
	if err != nil {
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleCategories returns the category selector options.
func (h *OrderHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories()
	if err != nil {
		return respondError(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleExport downloads the filtered orders as CSV. The export is also saved
// by the configured sink, or logged when that fails.
func (h *OrderHandler) HandleExport(c *fiber.Ctx) error {
	filter, err := orderFilter(c)
	if err != nil {
		return badRequest(c, err)
	}
	res, err := h.service.Export(filter)
	if err != nil {
		return respondError(c, "Could not export orders", err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Set("X-Export-Logged", strconv.FormatBool(res.Logged))
	return c.Send(res.Data)
}

// HandleStream pushes the filtered orders after every change.
func (h *OrderHandler) HandleStream(c *fiber.Ctx) error {
	filter, err := orderFilter(c)
	if err != nil {
		return badRequest(c, err)
	}
	if err := filter.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid date",
			"error":   err.Error(),
		})
	}
	return stream(c, h.service.Feed(), func(orders []models.Order) interface{} {
		return h.service.Filter(orders, filter)
	})
}
