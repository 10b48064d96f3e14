package handlers

import (
	"fmt"
	"strconv"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		UploadRecipeImage(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

// GetRecipes lists recipes filtered by tags (union), author and the
// favorite/cart membership flags. The membership flags only apply when the
// caller is authenticated; anonymous requests ignore them.
func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	filter := domain.RecipeFilter{
		Author:      c.Query("author"),
		IsFavorited: domain.ParseFilterFlag(c.Query("is_favorited")),
		IsInCart:    domain.ParseFilterFlag(c.Query("is_in_shopping_cart")),
	}

	for _, tag := range c.Context().QueryArgs().PeekMulti("tags") {
		filter.Tags = append(filter.Tags, string(tag))
	}

	if userID, ok := c.Locals("user_id").(string); ok {
		filter.UserID = userID
	}

	recipes, count, err := h.recipeService.GetRecipes(c.Context(), filter, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"recipes": recipes,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	res, err := h.recipeService.GetRecipeDetail(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	req := new(domain.UpdateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), c.Params("id"), *req, userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)

	if err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), userID, role); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedDeleteRecipe, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) UploadRecipeImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	res, err := h.recipeService.UploadRecipeImage(c.Context(), file)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadImage)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.ToggleFavorite(c.Context(), c.Params("id"), userID, domain.ToggleAdd)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedToggle, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAdded)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if _, err := h.recipeService.ToggleFavorite(c.Context(), c.Params("id"), userID, domain.ToggleRemove); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedToggle, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.ToggleShoppingCart(c.Context(), c.Params("id"), userID, domain.ToggleAdd)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedToggle, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAdded)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if _, err := h.recipeService.ToggleShoppingCart(c.Context(), c.Params("id"), userID, domain.ToggleRemove); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedToggle, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadShoppingCart streams the aggregated shopping list as a plain-text
// attachment. The report is rendered in memory, nothing touches the disk.
func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	file, err := h.recipeService.DownloadShoppingCart(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedDownload, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", file.Filename))
	return c.Send(file.Content)
}
