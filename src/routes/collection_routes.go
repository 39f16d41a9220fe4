package routes

import (
	"Backend-VentSurvey/src/controllers"

	"github.com/gofiber/fiber/v2"
)

func collectionRoutes(router fiber.Router) {
	collection := router.Group("/collections")

	collection.Get("/:id", controllers.GetCollectionByID)
	collection.Put("/:id", controllers.RenameCollection)
	collection.Get("/:id/surveys", controllers.GetCollectionSurveys)
	collection.Post("/:id/surveys/:surveyId", controllers.AttachSurvey)
	collection.Delete("/:id/surveys/:surveyId", controllers.DetachSurvey)
	collection.Post("/:id/reindex", controllers.ReindexCollection)
}
