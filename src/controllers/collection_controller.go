package controllers

import (
	"Backend-VentSurvey/src/models"
	"Backend-VentSurvey/src/services/collections"
	"Backend-VentSurvey/src/services/surveys"
	"Backend-VentSurvey/src/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetCollectionByID godoc
// @Summary      Get a survey collection by ID
// @Tags         collections
// @Produce      json
// @Param        id   path  string  true  "Collection ID"
// @Success      200  {object}  models.SurveyCollection
// @Failure      404  {object}  models.ErrorResponse
// @Router       /collections/{id} [get]
func GetCollectionByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	collection, err := collections.Default().Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, collections.ErrCollectionNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(collection)
}

// GetCollectionSurveys godoc
// @Summary      List surveys of a collection in area order
// @Description  Members ordered by areaIndex; inconsistent index data is repaired before returning
// @Tags         collections
// @Produce      json
// @Param        id   path  string  true  "Collection ID"
// @Success      200  {array}  models.AreaSurvey
// @Failure      404  {object}  models.ErrorResponse
// @Router       /collections/{id}/surveys [get]
func GetCollectionSurveys(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	members, err := surveys.Default().ListByCollection(c.Context(), id)
	if err != nil {
		if errors.Is(err, collections.ErrCollectionNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(members)
}

// AttachSurvey godoc
// @Summary      Attach an existing survey to a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id        path  string                      true   "Collection ID"
// @Param        surveyId  path  string                      true   "Survey ID"
// @Param        body      body  models.AttachSurveyRequest  false  "Attach options"
// @Success      200  {object}  models.SurveyCollection
// @Failure      404  {object}  models.ErrorResponse
// @Router       /collections/{id}/surveys/{surveyId} [post]
func AttachSurvey(c *fiber.Ctx) error {
	collectionID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid collection ID")
	}
	surveyID, err := primitive.ObjectIDFromHex(c.Params("surveyId"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid survey ID")
	}

	// body ไม่บังคับ — attach เปล่าๆ ได้
	var request models.AttachSurveyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&request); err != nil {
			return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
		}
	}

	collection, err := collections.Default().Attach(c.Context(), collectionID, surveyID, request.AreaIndex, request.IsPrimary)
	if err != nil {
		if errors.Is(err, collections.ErrCollectionNotFound) || errors.Is(err, collections.ErrSurveyNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(collection)
}

// DetachSurvey godoc
// @Summary      Detach a survey from a collection
// @Description  Remaining members are reindexed; an empty collection is deleted
// @Tags         collections
// @Produce      json
// @Param        id        path  string  true  "Collection ID"
// @Param        surveyId  path  string  true  "Survey ID"
// @Success      200  {object}  collections.DetachResult
// @Failure      404  {object}  models.ErrorResponse
// @Router       /collections/{id}/surveys/{surveyId} [delete]
func DetachSurvey(c *fiber.Ctx) error {
	collectionID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid collection ID")
	}
	surveyID, err := primitive.ObjectIDFromHex(c.Params("surveyId"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid survey ID")
	}

	result, err := collections.Default().Detach(c.Context(), collectionID, surveyID)
	if err != nil {
		if errors.Is(err, collections.ErrCollectionNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(result)
}

// RenameCollection godoc
// @Summary      Update collection name / reference
// @Description  A changed collectionRef is propagated to every member survey
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "Collection ID"
// @Param        body  body  models.RenameCollectionRequest  true  "Fields to update"
// @Success      200  {object}  models.SurveyCollection
// @Failure      404  {object}  models.ErrorResponse
// @Router       /collections/{id} [put]
func RenameCollection(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var request models.RenameCollectionRequest
	if err := c.BodyParser(&request); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	collection, err := collections.Default().Rename(c.Context(), id, collections.RenameFields{
		Name:          request.Name,
		CollectionRef: request.CollectionRef,
	})
	if err != nil {
		if errors.Is(err, collections.ErrCollectionNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(collection)
}

// ReindexCollection godoc
// @Summary      Force a reindex of a collection
// @Description  Reassigns contiguous area indices by survey creation order and backfills missing membership records
// @Tags         collections
// @Produce      json
// @Param        id   path  string  true  "Collection ID"
// @Success      200  {object}  models.SurveyCollection
// @Failure      404  {object}  models.ErrorResponse
// @Router       /collections/{id}/reindex [post]
func ReindexCollection(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	collection, err := collections.Default().Reindex(c.Context(), id)
	if err != nil {
		if errors.Is(err, collections.ErrCollectionNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(collection)
}
