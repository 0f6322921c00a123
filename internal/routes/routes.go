package routes

import (
	"github.com/dwellio/backend/internal/handlers"
	"github.com/gofiber/fiber/v2"
)

func Register(app *fiber.App, properties *handlers.PropertiesHandler, users *handlers.UsersHandler) {
	api := app.Group("/api/v1")

	propertyRoutes := api.Group("/properties")
	propertyRoutes.Get("/", properties.List)
	propertyRoutes.Post("/", properties.Create)
	propertyRoutes.Get("/show/:id", properties.Get)
	propertyRoutes.Get("/:id", properties.Get)
	propertyRoutes.Patch("/:id", properties.Update)
	propertyRoutes.Delete("/:id", properties.Delete)

	registerUserRoutes(api.Group("/users"), users)
	// The dashboard addresses users as agents; both prefixes serve the same
	// handlers.
	registerUserRoutes(api.Group("/agents"), users)
}

func registerUserRoutes(group fiber.Router, users *handlers.UsersHandler) {
	group.Get("/", users.List)
	group.Post("/", users.Create)
	group.Get("/show/:id", users.Get)
	group.Get("/:id", users.Get)
}
