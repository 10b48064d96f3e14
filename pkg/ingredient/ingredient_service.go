package ingredient

import (
	"context"
	"net/url"
	"strings"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
)

// Character pair for queries typed with a Latin layout while a Cyrillic one
// was intended. Positions correspond key for key on a standard keyboard.
const (
	latinLayout    = `qwertyuiop[]asdfghjkl;'zxcvbnm,./`
	cyrillicLayout = `йцукенгшщзхъфывапролджЭячсмитьбю.`
)

var layoutTable = buildLayoutTable()

func buildLayoutTable() map[rune]rune {
	latin := []rune(latinLayout)
	cyrillic := []rune(cyrillicLayout)
	table := make(map[rune]rune, len(latin))
	for i, r := range latin {
		table[r] = cyrillic[i]
	}
	return table
}

// NormalizeQuery canonicalizes a raw ingredient search query. A query that
// arrives percent-encoded (leading '%') is URL-decoded; anything else is run
// through the keyboard-layout table. The result is lowercased because
// ingredient names are stored lowercase.
func NormalizeQuery(raw string) string {
	if raw == "" {
		return ""
	}

	if raw[0] == '%' {
		if decoded, err := url.PathUnescape(raw); err == nil {
			raw = decoded
		}
	} else {
		var b strings.Builder
		b.Grow(len(raw))
		for _, r := range raw {
			if replacement, ok := layoutTable[r]; ok {
				b.WriteRune(replacement)
			} else {
				b.WriteRune(r)
			}
		}
		raw = b.String()
	}

	return strings.ToLower(raw)
}

type (
	IngredientService interface {
		Search(ctx context.Context, rawQuery string) ([]domain.IngredientResponse, error)
		GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

// Search returns the whole catalog for an empty query. Otherwise prefix
// matches come first in their natural order, followed by substring matches
// that are not already in the prefix group.
func (s *ingredientService) Search(ctx context.Context, rawQuery string) ([]domain.IngredientResponse, error) {
	if rawQuery == "" {
		ingredients, err := s.ingredientRepository.GetIngredients(ctx)
		if err != nil {
			return nil, err
		}
		return toIngredientResponses(ingredients), nil
	}

	name := NormalizeQuery(rawQuery)

	prefixMatches, err := s.ingredientRepository.SearchByPrefix(ctx, name)
	if err != nil {
		return nil, err
	}

	containsMatches, err := s.ingredientRepository.SearchByContains(ctx, name)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(prefixMatches))
	ranked := make([]*entities.Ingredient, 0, len(prefixMatches)+len(containsMatches))
	for _, ing := range prefixMatches {
		seen[ing.ID] = true
		ranked = append(ranked, ing)
	}
	for _, ing := range containsMatches {
		if !seen[ing.ID] {
			ranked = append(ranked, ing)
		}
	}

	return toIngredientResponses(ranked), nil
}

func (s *ingredientService) GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		return domain.IngredientResponse{}, err
	}
	return toIngredientResponse(ingredient), nil
}

func toIngredientResponse(ingredient *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              ingredient.ID.String(),
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

func toIngredientResponses(ingredients []*entities.Ingredient) []domain.IngredientResponse {
	responses := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		responses = append(responses, toIngredientResponse(ing))
	}
	return responses
}
