package routes

import (
	"github.com/gofiber/fiber/v2"
)

// InitRoutes ลงทะเบียน route ทั้งหมดของ API
func InitRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	siteRoutes(api)
	surveyRoutes(api)
	collectionRoutes(api)
	quoteRoutes(api)
}
