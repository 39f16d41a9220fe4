package routes

import (
	"Backend-VentSurvey/src/controllers"

	"github.com/gofiber/fiber/v2"
)

func surveyRoutes(router fiber.Router) {
	survey := router.Group("/surveys")

	survey.Post("/", controllers.CreateSurvey)
	survey.Get("/site/:siteId", controllers.GetSurveysBySite)
	survey.Get("/:id", controllers.GetSurveyByID)
	survey.Put("/:id", controllers.UpdateSurvey)
	survey.Delete("/:id", controllers.DeleteSurvey)
}
