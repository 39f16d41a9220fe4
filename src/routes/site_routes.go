package routes

import (
	"Backend-VentSurvey/src/controllers"

	"github.com/gofiber/fiber/v2"
)

func siteRoutes(router fiber.Router) {
	site := router.Group("/sites")

	site.Post("/", controllers.CreateSite)
	site.Get("/", controllers.GetSites)
	site.Get("/:id", controllers.GetSiteByID)
	site.Put("/:id", controllers.UpdateSite)
	site.Delete("/:id", controllers.DeleteSite)
}
