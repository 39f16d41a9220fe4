package controllers

import (
	"Backend-VentSurvey/src/database"
	"Backend-VentSurvey/src/jobs"
	"Backend-VentSurvey/src/models"
	"Backend-VentSurvey/src/services/collections"
	"Backend-VentSurvey/src/services/quotes"
	"Backend-VentSurvey/src/utils"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuildQuote godoc
// @Summary      Build a draft quote from a collection
// @Description  One line per equipment item and canopy across every area, priced from the price book (POA when no price is found)
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        body body models.BuildQuoteRequest true "Collection to quote"
// @Success      201  {object}  models.Quote
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /quotes [post]
func BuildQuote(c *fiber.Ctx) error {
	var request models.BuildQuoteRequest
	if err := c.BodyParser(&request); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid input: "+err.Error())
	}
	if fields := utils.ValidateStruct(&request); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ValidationErrorResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Validation failed",
			Fields:  fields,
		})
	}

	collectionID, err := primitive.ObjectIDFromHex(request.CollectionID)
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid collectionId")
	}

	quote, err := quotes.Default().Build(c.Context(), collectionID)
	if err != nil {
		if errors.Is(err, collections.ErrCollectionNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

// GetQuoteByID godoc
// @Summary      Get a quote by ID
// @Tags         quotes
// @Produce      json
// @Param        id   path  string  true  "Quote ID"
// @Success      200  {object}  models.Quote
// @Failure      404  {object}  models.ErrorResponse
// @Router       /quotes/{id} [get]
func GetQuoteByID(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	quote, err := quotes.Default().Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, quotes.ErrQuoteNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(quote)
}

// RenderQuote godoc
// @Summary      Render a quote to PDF
// @Description  Enqueued as a background task when Redis is available, otherwise rendered inline
// @Tags         quotes
// @Produce      json
// @Param        id   path  string  true  "Quote ID"
// @Success      200  {object}  models.Quote
// @Success      202  {object}  models.SuccessResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /quotes/{id}/render [post]
func RenderQuote(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}

	// quote ต้องมีอยู่ก่อนค่อย enqueue — กันงานเปล่าเข้า queue
	if _, err := quotes.Default().Get(c.Context(), id); err != nil {
		if errors.Is(err, quotes.ErrQuoteNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}

	if database.AsynqClient != nil {
		task, err := jobs.NewRenderQuoteTask(id.Hex())
		if err == nil {
			if _, err := database.AsynqClient.Enqueue(task); err == nil {
				return c.Status(fiber.StatusAccepted).JSON(models.SuccessResponse{
					Message: "Quote render queued",
				})
			}
			log.Println("⚠️ failed to enqueue render task, rendering inline:", err)
		}
	}

	quote, err := quotes.Default().Render(c.Context(), id)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(quote)
}

// DeleteQuotePDF godoc
// @Summary      Delete the rendered PDF of a quote
// @Description  Removes the PDF from storage and returns the quote to draft status
// @Tags         quotes
// @Produce      json
// @Param        id   path  string  true  "Quote ID"
// @Success      200  {object}  models.Quote
// @Failure      404  {object}  models.ErrorResponse
// @Router       /quotes/{id}/pdf [delete]
func DeleteQuotePDF(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid ID")
	}
	quote, err := quotes.Default().DeletePDF(c.Context(), id)
	if err != nil {
		if errors.Is(err, quotes.ErrQuoteNotFound) {
			return utils.HandleError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.HandleError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(quote)
}
