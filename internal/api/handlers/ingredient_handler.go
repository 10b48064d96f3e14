package handlers

import (
	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/ingredient"

	"github.com/gofiber/fiber/v2"
)

type (
	IngredientHandler interface {
		GetIngredients(c *fiber.Ctx) error
		GetIngredientDetail(c *fiber.Ctx) error
	}

	ingredientHandler struct {
		ingredientService ingredient.IngredientService
	}
)

func NewIngredientHandler(ingredientService ingredient.IngredientService) IngredientHandler {
	return &ingredientHandler{ingredientService: ingredientService}
}

// GetIngredients searches the catalog by the `name` query parameter. The raw
// value goes through the layout/percent-encoding normalizer in the service.
func (h *ingredientHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.ingredientService.Search(c.Context(), c.Query("name"))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *ingredientHandler) GetIngredientDetail(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredientByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}
