package handlers

import (
	"context"
	"reflect"
	"strconv"
	"strings"

	"github.com/dwellio/backend/internal/models"
	"github.com/dwellio/backend/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PropertyStore is the property repository surface the handlers depend on.
type PropertyStore interface {
	List(ctx context.Context, q repository.ListQuery) ([]models.PropertyListItem, int64, error)
	GetByID(ctx context.Context, id string) (models.PropertyDetail, error)
	Create(ctx context.Context, property models.Property) (models.Property, error)
	Update(ctx context.Context, id string, upd models.PropertyUpdate) (models.PropertyDetail, error)
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	List(ctx context.Context) ([]models.UserDetail, error)
	GetByID(ctx context.Context, id string) (models.UserDetail, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user models.User) (models.User, bool, error)
}

type MediaUploader interface {
	Upload(ctx context.Context, payload string) (string, error)
}

// NewValidator reports fields by their json names so validation errors can be
// echoed back to the client verbatim.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// missingFields runs presence validation and returns the json names of every
// absent required field.
func missingFields(validate *validator.Validate, req interface{}) []string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var missing []string
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range errs {
			missing = append(missing, fieldErr.Field())
		}
	}
	return missing
}

func missingFieldsError(c *fiber.Ctx, missing []string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Missing required fields",
		"missing": missing,
	})
}

// parseListQuery is the single normalization point for listing parameters:
// both creator spellings collapse into one filter and the "All" type sentinel
// means no filter at all.
func parseListQuery(c *fiber.Ctx) repository.ListQuery {
	creator := c.Query("creator")
	if creator == "" {
		creator = c.Query("creator_eq")
	}

	propertyType := c.Query("propertyType")
	if propertyType == "All" {
		propertyType = ""
	}

	return repository.ListQuery{
		Start:        positiveInt(c.Query("_start")),
		End:          positiveInt(c.Query("_end")),
		Sort:         c.Query("_sort"),
		Order:        c.Query("_order"),
		TitleLike:    c.Query("title_like"),
		PropertyType: propertyType,
		Creator:      creator,
	}
}

func positiveInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
