package routes

import (
	"Backend-VentSurvey/src/controllers"

	"github.com/gofiber/fiber/v2"
)

func quoteRoutes(router fiber.Router) {
	quote := router.Group("/quotes")

	quote.Post("/", controllers.BuildQuote)
	quote.Get("/:id", controllers.GetQuoteByID)
	quote.Post("/:id/render", controllers.RenderQuote)
	quote.Delete("/:id/pdf", controllers.DeleteQuotePDF)
}
