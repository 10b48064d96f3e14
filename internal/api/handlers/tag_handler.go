package handlers

import (
	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/tag"

	"github.com/gofiber/fiber/v2"
)

type (
	TagHandler interface {
		GetTags(c *fiber.Ctx) error
		GetTagDetail(c *fiber.Ctx) error
	}

	tagHandler struct {
		tagService tag.TagService
	}
)

func NewTagHandler(tagService tag.TagService) TagHandler {
	return &tagHandler{tagService: tagService}
}

func (h *tagHandler) GetTags(c *fiber.Ctx) error {
	res, err := h.tagService.GetTags(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *tagHandler) GetTagDetail(c *fiber.Ctx) error {
	res, err := h.tagService.GetTagByID(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTags)
}
