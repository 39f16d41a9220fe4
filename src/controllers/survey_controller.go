package controllers

import (
	"Backend-VentSurvey/src/models"
	"Backend-VentSurvey/src/services/surveys"
	"Backend-VentSurvey/src/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateSurvey godoc
// @Summary      Create a new area survey
// @Description  Create an area survey and attach it to a collection (new or existing)
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Param        body body models.CreateSurveyRequest true "Survey payload"
// @Success      201  {object}  surveys.CreateResult
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /surveys [post]
func CreateSurvey(c *fiber.Ctx) error {
	var request models.CreateSurveyRequest
	if err := c.BodyParser(&request); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}

	if fields := utils.ValidateStruct(&request.Survey); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ValidationErrorResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Validation failed",
			Fields:  fields,
		})
	}

	opts := surveys.CreateOptions{AreaIndex: request.AreaIndex, AutoCreateCollection: true}
	if request.AutoCreateCollection != nil {
		opts.AutoCreateCollection = *request.AutoCreateCollection
	}
	if request.CollectionID != nil && *request.CollectionID != "" {
		collectionID, err := primitive.ObjectIDFromHex(*request.CollectionID)
		if err != nil {
			return utils.HandleError(c, fiber.StatusBadRequest, "Invalid collectionId")
		}
		opts.CollectionID = &collectionID
	}

	result, err := surveys.Default().Create(c.Context(), &request.Survey, opts)
	if err != nil {
		if errors.Is(err, surveys.ErrInvalidSiteReference) {
			return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetSurveyByID godoc
// @Summary      Get an area survey by ID
// @Tags         surveys
// @Produce      json
// @Param        id   path  string  true  "Survey ID"
// @Success      200  {object}  models.AreaSurvey
// @Failure      404  {object}  models.ErrorResponse
// @Router       /surveys/{id} [get]
func GetSurveyByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	survey, err := surveys.Default().Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, surveys.ErrSurveyNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(survey)
}

// GetSurveysBySite godoc
// @Summary      List surveys for a site
// @Description  All surveys of a site, newest survey date first (no collection ordering)
// @Tags         surveys
// @Produce      json
// @Param        siteId   path  string  true  "Site ID"
// @Success      200  {array}  models.AreaSurvey
// @Failure      400  {object}  models.ErrorResponse
// @Router       /surveys/site/{siteId} [get]
func GetSurveysBySite(c *fiber.Ctx) error {
	siteID, err := primitive.ObjectIDFromHex(c.Params("siteId"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid site ID")
	}
	result, err := surveys.Default().ListBySite(c.Context(), siteID)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(result)
}

// UpdateSurvey godoc
// @Summary      Update an area survey
// @Description  Update survey payload fields (membership records are managed via collections API)
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Param        id     path  string             true  "Survey ID"
// @Param        body   body  models.AreaSurvey  true  "Survey fields"
// @Success      200  {object}  models.AreaSurvey
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /surveys/{id} [put]
func UpdateSurvey(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var request models.AreaSurvey
	if err := c.BodyParser(&request); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	updated, err := surveys.Default().Update(c.Context(), id, &request)
	if err != nil {
		if errors.Is(err, surveys.ErrSurveyNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(updated)
}

// DeleteSurvey godoc
// @Summary      Delete an area survey
// @Description  Delete a survey and detach it from every collection it belongs to
// @Tags         surveys
// @Produce      json
// @Param        id   path  string  true  "Survey ID"
// @Success      200
// @Failure      404  {object}  models.ErrorResponse
// @Router       /surveys/{id} [delete]
func DeleteSurvey(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	if err := surveys.Default().Delete(c.Context(), id); err != nil {
		if errors.Is(err, surveys.ErrSurveyNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(fiber.StatusOK)
}
