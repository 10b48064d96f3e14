package recipe

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, id string) error
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, int64, error)
		ReplaceTags(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag) error
		ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, ingredients []*entities.AmountIngredient) error

		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		HasCartItems(ctx context.Context, userID uuid.UUID) (bool, error)
		GetCartIngredients(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit("Tags", "Ingredients").Save(recipe).Error
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{}).Error
}

// GetRecipes applies the list filters. Tags are a union (any matching slug),
// the rest compose conjunctively. The favorite and cart flags carry
// three-state semantics: an explicit falsy value excludes the user's members,
// which differs from leaving the parameter out. Anonymous callers
// (filter.UserID empty) never reach the flag branches.
func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Recipe{})

	// Union over slugs; the IN-subquery keeps a recipe carrying several of
	// the requested tags from appearing more than once.
	if len(filter.Tags) > 0 {
		query = query.Where(
			"recipes.id IN (SELECT recipe_tags.recipe_id FROM recipe_tags JOIN tags ON tags.id = recipe_tags.tag_id WHERE tags.slug IN ?)",
			filter.Tags,
		)
	}

	if filter.Author != "" {
		query = query.Where("recipes.author_id = ?", filter.Author)
	}

	if filter.UserID != "" {
		switch filter.IsInCart {
		case domain.FlagTrue:
			query = query.Where(
				"EXISTS (SELECT 1 FROM cart_items WHERE cart_items.recipe_id = recipes.id AND cart_items.user_id = ?)",
				filter.UserID,
			)
		case domain.FlagFalse:
			query = query.Where(
				"NOT EXISTS (SELECT 1 FROM cart_items WHERE cart_items.recipe_id = recipes.id AND cart_items.user_id = ?)",
				filter.UserID,
			)
		}

		switch filter.IsFavorited {
		case domain.FlagTrue:
			query = query.Where(
				"EXISTS (SELECT 1 FROM favorites WHERE favorites.recipe_id = recipes.id AND favorites.user_id = ?)",
				filter.UserID,
			)
		case domain.FlagFalse:
			query = query.Where(
				"NOT EXISTS (SELECT 1 FROM favorites WHERE favorites.recipe_id = recipes.id AND favorites.user_id = ?)",
				filter.UserID,
			)
		}
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []*entities.Recipe
	offset := (page - 1) * limit
	if err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Offset(offset).
		Limit(limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Limit(limit).
		Order("created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) ReplaceTags(ctx context.Context, recipe *entities.Recipe, tags []*entities.Tag) error {
	return r.db.WithContext(ctx).Model(recipe).Association("Tags").Replace(tags)
}

func (r *recipeRepository) ReplaceIngredients(ctx context.Context, recipeID uuid.UUID, ingredients []*entities.AmountIngredient) error {
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&entities.AmountIngredient{}).Error; err != nil {
		return err
	}
	if len(ingredients) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(ingredients).Error
}

func (r *recipeRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *recipeRepository) HasCartItems(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.CartItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetCartIngredients returns one row per ingredient entry of every recipe in
// the user's cart, unaggregated. Summing by (name, unit) happens in the
// service.
func (r *recipeRepository) GetCartIngredients(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Model(&entities.AmountIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, amount_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = amount_ingredients.ingredient_id").
		Joins("JOIN cart_items ON cart_items.recipe_id = amount_ingredients.recipe_id").
		Where("cart_items.user_id = ?", userID).
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
