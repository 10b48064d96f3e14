package ingredient

import (
	"context"
	"strings"
	"testing"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngredientRepository struct {
	ingredients []*entities.Ingredient
}

func newFakeIngredientRepository(names ...string) *fakeIngredientRepository {
	repo := &fakeIngredientRepository{}
	for _, name := range names {
		repo.ingredients = append(repo.ingredients, &entities.Ingredient{
			ID:              uuid.New(),
			Name:            name,
			MeasurementUnit: "г",
		})
	}
	return repo
}

func (f *fakeIngredientRepository) GetIngredients(_ context.Context) ([]*entities.Ingredient, error) {
	return f.ingredients, nil
}

func (f *fakeIngredientRepository) GetIngredientByID(_ context.Context, id string) (*entities.Ingredient, error) {
	for _, ing := range f.ingredients {
		if ing.ID.String() == id {
			return ing, nil
		}
	}
	return nil, domain.ErrIngredientNotFound
}

func (f *fakeIngredientRepository) SearchByPrefix(_ context.Context, name string) ([]*entities.Ingredient, error) {
	var matches []*entities.Ingredient
	for _, ing := range f.ingredients {
		if strings.HasPrefix(ing.Name, name) {
			matches = append(matches, ing)
		}
	}
	return matches, nil
}

func (f *fakeIngredientRepository) SearchByContains(_ context.Context, name string) ([]*entities.Ingredient, error) {
	var matches []*entities.Ingredient
	for _, ing := range f.ingredients {
		if strings.Contains(ing.Name, name) {
			matches = append(matches, ing)
		}
	}
	return matches, nil
}

func TestNormalizeQueryKeyboardLayout(t *testing.T) {
	// "Vjcrdf" typed on a Latin layout is "москва" on the intended one.
	assert.Equal(t, "москва", NormalizeQuery("Vjcrdf"))
}

func TestNormalizeQueryPercentEncoded(t *testing.T) {
	assert.Equal(t, "москва", NormalizeQuery("%D0%BC%D0%BE%D1%81%D0%BA%D0%B2%D0%B0"))
}

func TestNormalizeQueryLowercases(t *testing.T) {
	assert.Equal(t, "апельсин", NormalizeQuery("АПЕЛЬСИН"))
}

func TestNormalizeQueryEmpty(t *testing.T) {
	assert.Equal(t, "", NormalizeQuery(""))
}

func TestSearchRanksPrefixBeforeSubstring(t *testing.T) {
	repo := newFakeIngredientRepository("апельсин", "свежий апельсин", "мандарин")
	service := NewIngredientService(repo)

	results, err := service.Search(context.Background(), "апельсин")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "апельсин", results[0].Name)
	assert.Equal(t, "свежий апельсин", results[1].Name)
}

func TestSearchLayoutMismatchEquivalence(t *testing.T) {
	repo := newFakeIngredientRepository("москва", "московская булка", "соль")
	service := NewIngredientService(repo)

	direct, err := service.Search(context.Background(), "москва")
	require.NoError(t, err)

	mismatched, err := service.Search(context.Background(), "Vjcrdf")
	require.NoError(t, err)

	assert.Equal(t, direct, mismatched)
}

func TestSearchNoDuplicates(t *testing.T) {
	repo := newFakeIngredientRepository("соль", "соль морская")
	service := NewIngredientService(repo)

	results, err := service.Search(context.Background(), "соль")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, res := range results {
		assert.False(t, seen[res.ID], "duplicate ingredient %s", res.Name)
		seen[res.ID] = true
	}
	assert.Len(t, results, 2)
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	repo := newFakeIngredientRepository("соль", "сахар", "мука")
	service := NewIngredientService(repo)

	results, err := service.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}
