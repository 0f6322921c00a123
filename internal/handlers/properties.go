package handlers

import (
	"errors"
	"strings"

	"github.com/dwellio/backend/internal/models"
	"github.com/dwellio/backend/internal/repository"
	"github.com/dwellio/backend/pkg/logger"
	"github.com/dwellio/backend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type PropertiesHandler struct {
	Properties PropertyStore
	Users      UserStore
	Media      MediaUploader
	Validate   *validator.Validate
}

func NewPropertiesHandler(properties PropertyStore, users UserStore, media MediaUploader, validate *validator.Validate) *PropertiesHandler {
	return &PropertiesHandler{
		Properties: properties,
		Users:      users,
		Media:      media,
		Validate:   validate,
	}
}

type createPropertyRequest struct {
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	PropertyType string  `json:"propertyType" validate:"required"`
	Location     string  `json:"location" validate:"required"`
	Price        float64 `json:"price" validate:"required"`
	Photo        string  `json:"photo" validate:"required"`
	Email        string  `json:"email" validate:"required"`
}

type updatePropertyRequest struct {
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	PropertyType string  `json:"propertyType" validate:"required"`
	Location     string  `json:"location" validate:"required"`
	Price        float64 `json:"price" validate:"required"`
	Photo        string  `json:"photo"`
}

func (h *PropertiesHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c)

	items, total, err := h.Properties.List(c.Context(), q)
	if err != nil {
		return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error fetching properties", err)
	}
	return utils.ListWithTotal(c, items, total)
}

func (h *PropertiesHandler) Create(c *fiber.Ctx) error {
	var req createPropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if missing := missingFields(h.Validate, req); len(missing) > 0 {
		return missingFieldsError(c, missing)
	}

	user, err := h.Users.FindByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "User not found")
		}
		return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error creating property", err)
	}

	// Upload before the transactional write so a media failure leaves no
	// persistent state behind.
	photoURL, err := h.Media.Upload(c.Context(), req.Photo)
	if err != nil {
		return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error creating property", err)
	}

	property := models.Property{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Location:     req.Location,
		Price:        req.Price,
		Photo:        photoURL,
		Creator:      user.ID,
	}

	created, err := h.Properties.Create(c.Context(), property)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "User not found")
		}
		return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error creating property", err)
	}

	logger.Info("property_created", map[string]interface{}{
		"property_id": created.ID.Hex(),
		"creator_id":  user.ID.Hex(),
	})
	return utils.Message(c, fiber.StatusOK, "Property created successfully")
}

func (h *PropertiesHandler) Get(c *fiber.Ctx) error {
	detail, err := h.Properties.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "Property not found")
		}
		return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error fetching property", err)
	}
	return c.Status(fiber.StatusOK).JSON(detail)
}

func (h *PropertiesHandler) Update(c *fiber.Ctx) error {
	var req updatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if missing := missingFields(h.Validate, req); len(missing) > 0 {
		return missingFieldsError(c, missing)
	}

	// Photo policy: embedded payloads are re-uploaded, existing URLs pass
	// through verbatim, anything else leaves the stored photo untouched.
	var photo *string
	switch {
	case strings.HasPrefix(req.Photo, "data:image/"):
		photoURL, err := h.Media.Upload(c.Context(), req.Photo)
		if err != nil {
			return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error updating property", err)
		}
		photo = &photoURL
	case strings.HasPrefix(req.Photo, "http"):
		photo = &req.Photo
	}

	detail, err := h.Properties.Update(c.Context(), c.Params("id"), models.PropertyUpdate{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Location:     req.Location,
		Price:        req.Price,
		Photo:        photo,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "Property not found")
		}
		return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error updating property", err)
	}
	return c.Status(fiber.StatusOK).JSON(detail)
}

func (h *PropertiesHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	// "undefined" guards against clients serializing a missing id into the path.
	if id == "" || id == "undefined" {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid property ID")
	}

	if err := h.Properties.Delete(c.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "Property not found")
		}
		return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error deleting property", err)
	}

	logger.Info("property_deleted", map[string]interface{}{"property_id": id})
	return utils.Message(c, fiber.StatusOK, "Property deleted successfully")
}
