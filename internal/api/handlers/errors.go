package handlers

import (
	"errors"

	"foodgram/domain"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps service errors to response codes: 404 for missing
// targets, 401 for failed credentials, 403 for permission and verification
// failures, 500 for the unknown-relation programming error, 400 for
// everything else (invalid toggles, empty cart, malformed input).
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrCredentialsNotMatch):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrUserNotAllowed),
		errors.Is(err, domain.ErrAccountNotVerified):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnknownRelation):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}
