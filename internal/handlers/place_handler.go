package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"vetrina/internal/models"
	"vetrina/internal/services"
	"vetrina/internal/views"
)

// PlaceHandler handles HTTP requests for places.
type PlaceHandler struct {
	service  *services.PlaceService
	validate *validator.Validate
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(service *services.PlaceService) *PlaceHandler {
	return &PlaceHandler{
		service:  service,
		validate: models.NewValidator(),
	}
}

// RegisterRoutes registers the public place routes behind session and the
// moderation routes behind session and admin.
func (h *PlaceHandler) RegisterRoutes(router fiber.Router, session, admin fiber.Handler) {
	places := router.Group("/places", session)
	places.Get("/", h.HandleList)
	places.Get("/countries", h.HandleCountries)
	places.Get("/map", h.HandleMap)
	places.Get("/stream", h.HandleStream)
	places.Post("/", h.HandleSubmit)

	moderation := router.Group("/admin/places", session, admin)
	moderation.Get("/", h.HandleGetAll)
	moderation.Get("/:id", h.HandleGetByID)
	moderation.Patch("/:id/approval", h.HandleSetApproval)
	moderation.Put("/:id", h.HandleUpdate)
	moderation.Delete("/:id", h.HandleDelete)
}

func placeFilter(c *fiber.Ctx) (views.PlaceFilter, error) {
	var filter views.PlaceFilter
	err := c.QueryParser(&filter)
	return filter, err
}

// HandleList returns the places matching ?category= and ?country=.
func (h *PlaceHandler) HandleList(c *fiber.Ctx) error {
	filter, err := placeFilter(c)
	if err != nil {
		return badRequest(c, err)
	}
	places, err := h.service.List(filter)
	if err != nil {
		return respondError(c, "Could not retrieve places", err)
	}
	return c.JSON(places)
}

// HandleCountries returns the country selector options.
func (h *PlaceHandler) HandleCountries(c *fiber.Ctx) error {
	countries, err := h.service.Countries()
	if err != nil {
		return respondError(c, "Could not retrieve countries", err)
	}
	return c.JSON(countries)
}

// HandleMap returns the approved places and where the map is centered.
func (h *PlaceHandler) HandleMap(c *fiber.Ctx) error {
	focus, err := h.service.Map()
	if err != nil {
		return respondError(c, "Could not retrieve map", err)
	}
	return c.JSON(focus)
}

// HandleStream pushes the list, country options and map after every change.
func (h *PlaceHandler) HandleStream(c *fiber.Ctx) error {
	filter, err := placeFilter(c)
	if err != nil {
		return badRequest(c, err)
	}
	return stream(c, h.service.Feed(), func(places []models.Place) interface{} {
		return fiber.Map{
			"places":    views.FilterPlaces(places, filter),
			"countries": views.Countries(places),
			"map":       h.service.MapOf(places),
		}
	})
}

// HandleSubmit stores a new place pending approval.
func (h *PlaceHandler) HandleSubmit(c *fiber.Ctx) error {
	var place models.Place
	if err := c.BodyParser(&place); err != nil {
		return badRequest(c, err)
	}
	if err := h.service.Submit(&place); err != nil {
		return respondError(c, "Could not submit place", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Place submitted, it will appear on the map once approved",
		"place":   place,
	})
}

// HandleGetAll returns every place, approved or not.
func (h *PlaceHandler) HandleGetAll(c *fiber.Ctx) error {
	places, err := h.service.GetAllPlaces()
	if err != nil {
		return respondError(c, "Could not retrieve places", err)
	}
	return c.JSON(places)
}

// HandleGetByID returns a single place.
func (h *PlaceHandler) HandleGetByID(c *fiber.Ctx) error {
	place, err := h.service.GetPlaceByID(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve place", err)
	}
	return c.JSON(place)
}

// ApprovalRequest is the body of an approve or reject action.
type ApprovalRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// HandleSetApproval approves or rejects a place.
func (h *PlaceHandler) HandleSetApproval(c *fiber.Ctx) error {
	var req ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	place, notification, err := h.service.SetApproval(c.Params("id"), *req.Approved)
	if err != nil {
		return respondError(c, "Could not update approval", err)
	}
	return c.JSON(fiber.Map{
		"place":        place,
		"notification": notification,
	})
}

// HandleUpdate overwrites a place with the edited fields.
func (h *PlaceHandler) HandleUpdate(c *fiber.Ctx) error {
	var place models.Place
	if err := c.BodyParser(&place); err != nil {
		return badRequest(c, err)
	}
	place.ID = c.Params("id")
	if err := h.service.Update(&place); err != nil {
		return respondError(c, "Could not update place", err)
	}
	return c.JSON(place)
}

// HandleDelete removes a place.
func (h *PlaceHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id")); err != nil {
		return respondError(c, "Could not delete place", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
