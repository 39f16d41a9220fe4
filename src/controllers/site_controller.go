package controllers

import (
	"Backend-VentSurvey/src/models"
	"Backend-VentSurvey/src/services/sites"
	"Backend-VentSurvey/src/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateSite godoc
// @Summary      Create a new site
// @Tags         sites
// @Accept       json
// @Produce      json
// @Param        body body models.Site true "Site data"
// @Success      201  {object}  models.Site
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /sites [post]
func CreateSite(c *fiber.Ctx) error {
	var site models.Site
	if err := c.BodyParser(&site); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if fields := utils.ValidateStruct(&site); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ValidationErrorResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Validation failed",
			Fields:  fields,
		})
	}
	if err := sites.Default().Create(c.Context(), &site); err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(site)
}

// GetSites godoc
// @Summary      List sites
// @Tags         sites
// @Produce      json
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        search  query  string  false  "Search by name / postcode / city"
// @Param        sortBy  query  string  false  "Sort field"
// @Param        order   query  string  false  "asc or desc"
// @Success      200  {object}  models.PaginatedResponse
// @Router       /sites [get]
func GetSites(c *fiber.Ctx) error {
	params := models.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid query: "+err.Error())
	}
	result, err := sites.Default().List(c.Context(), params)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(result)
}

// GetSiteByID godoc
// @Summary      Get a site by ID
// @Tags         sites
// @Produce      json
// @Param        id   path  string  true  "Site ID"
// @Success      200  {object}  models.Site
// @Failure      404  {object}  models.ErrorResponse
// @Router       /sites/{id} [get]
func GetSiteByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	site, err := sites.Default().Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, sites.ErrSiteNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(site)
}

// UpdateSite godoc
// @Summary      Update a site
// @Tags         sites
// @Accept       json
// @Produce      json
// @Param        id    path  string       true  "Site ID"
// @Param        body  body  models.Site  true  "Site data"
// @Success      200  {object}  models.Site
// @Failure      404  {object}  models.ErrorResponse
// @Router       /sites/{id} [put]
func UpdateSite(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var site models.Site
	if err := c.BodyParser(&site); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	updated, err := sites.Default().Update(c.Context(), id, &site)
	if err != nil {
		if errors.Is(err, sites.ErrSiteNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(updated)
}

// DeleteSite godoc
// @Summary      Delete a site
// @Tags         sites
// @Produce      json
// @Param        id   path  string  true  "Site ID"
// @Success      200
// @Failure      404  {object}  models.ErrorResponse
// @Router       /sites/{id} [delete]
func DeleteSite(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	if err := sites.Default().Delete(c.Context(), id); err != nil {
		if errors.Is(err, sites.ErrSiteNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(fiber.StatusOK)
}
