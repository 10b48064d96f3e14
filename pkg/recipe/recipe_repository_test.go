package recipe

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a throwaway sqlite database with the schema laid out by
// hand; the production DDL relies on Postgres defaults sqlite cannot parse.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE users (id text PRIMARY KEY, username text, email text, first_name text, last_name text, password text, role text, is_verified numeric, created_at datetime, updated_at datetime)`,
		`CREATE TABLE tags (id text PRIMARY KEY, name text, color text, slug text)`,
		`CREATE TABLE ingredients (id text PRIMARY KEY, name text, measurement_unit text)`,
		`CREATE TABLE recipes (id text PRIMARY KEY, author_id text, name text, image_url text, text text, cooking_time integer, created_at datetime, updated_at datetime)`,
		`CREATE TABLE recipe_tags (recipe_id text, tag_id text, PRIMARY KEY (recipe_id, tag_id))`,
		`CREATE TABLE amount_ingredients (id text PRIMARY KEY, recipe_id text, ingredient_id text, amount integer)`,
		`CREATE TABLE favorites (id text PRIMARY KEY, user_id text, recipe_id text, created_at datetime)`,
		`CREATE TABLE cart_items (id text PRIMARY KEY, user_id text, recipe_id text, created_at datetime)`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@foodgram.ml",
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTag(t *testing.T, db *gorm.DB, slug string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{
		ID:    uuid.New(),
		Name:  slug,
		Color: "49B64E",
		Slug:  slug,
	}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func seedRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string, tags ...*entities.Tag) *entities.Recipe {
	t.Helper()
	rec := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        name,
		CookingTime: 10,
		Tags:        tags,
	}
	require.NoError(t, NewRecipeRepository(db).CreateRecipe(context.Background(), rec))
	return rec
}

func recipeIDs(recipes []*entities.Recipe) []string {
	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID.String())
	}
	return ids
}

func TestGetRecipesTagFilterUnionWithoutDuplicates(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	author := seedUser(t, db, "chef")

	breakfast := seedTag(t, db, "breakfast")
	dinner := seedTag(t, db, "dinner")
	lunch := seedTag(t, db, "lunch")

	both := seedRecipe(t, db, author, "каша", breakfast, dinner)
	one := seedRecipe(t, db, author, "суп", breakfast)
	seedRecipe(t, db, author, "салат", lunch)

	recipes, count, err := repo.GetRecipes(context.Background(), domain.RecipeFilter{
		Tags: []string{"breakfast", "dinner"},
	}, 1, 20)
	require.NoError(t, err)

	// "каша" carries both requested tags but must appear exactly once.
	assert.Equal(t, int64(2), count)
	assert.ElementsMatch(t, []string{both.ID.String(), one.ID.String()}, recipeIDs(recipes))
}

func TestGetRecipesFavoriteFlagThreeState(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	author := seedUser(t, db, "chef")
	viewer := seedUser(t, db, "viewer")

	liked := seedRecipe(t, db, author, "борщ")
	other := seedRecipe(t, db, author, "щи")

	require.NoError(t, db.Create(&entities.Favorite{
		ID:        uuid.New(),
		UserID:    viewer.ID,
		RecipeID:  liked.ID,
		CreatedAt: time.Now(),
	}).Error)

	truthy, count, err := repo.GetRecipes(context.Background(), domain.RecipeFilter{
		IsFavorited: domain.FlagTrue,
		UserID:      viewer.ID.String(),
	}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.ElementsMatch(t, []string{liked.ID.String()}, recipeIDs(truthy))

	// Explicit false excludes the viewer's favorites, it is not a no-op.
	falsy, count, err := repo.GetRecipes(context.Background(), domain.RecipeFilter{
		IsFavorited: domain.FlagFalse,
		UserID:      viewer.ID.String(),
	}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.ElementsMatch(t, []string{other.ID.String()}, recipeIDs(falsy))

	absent, count, err := repo.GetRecipes(context.Background(), domain.RecipeFilter{
		UserID: viewer.ID.String(),
	}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.ElementsMatch(t, []string{liked.ID.String(), other.ID.String()}, recipeIDs(absent))
}

func TestGetRecipesCartFlagExcludesOnExplicitFalse(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	author := seedUser(t, db, "chef")
	viewer := seedUser(t, db, "viewer")

	carted := seedRecipe(t, db, author, "плов")
	other := seedRecipe(t, db, author, "рагу")

	require.NoError(t, db.Create(&entities.CartItem{
		ID:        uuid.New(),
		UserID:    viewer.ID,
		RecipeID:  carted.ID,
		CreatedAt: time.Now(),
	}).Error)

	falsy, count, err := repo.GetRecipes(context.Background(), domain.RecipeFilter{
		IsInCart: domain.FlagFalse,
		UserID:   viewer.ID.String(),
	}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.ElementsMatch(t, []string{other.ID.String()}, recipeIDs(falsy))
}

func TestGetRecipesTagAndFlagFiltersCompose(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecipeRepository(db)
	author := seedUser(t, db, "chef")
	viewer := seedUser(t, db, "viewer")

	breakfast := seedTag(t, db, "breakfast")

	tagged := seedRecipe(t, db, author, "каша", breakfast)
	taggedAndLiked := seedRecipe(t, db, author, "сырники", breakfast)
	seedRecipe(t, db, author, "борщ")

	require.NoError(t, db.Create(&entities.Favorite{
		ID:        uuid.New(),
		UserID:    viewer.ID,
		RecipeID:  taggedAndLiked.ID,
		CreatedAt: time.Now(),
	}).Error)

	recipes, count, err := repo.GetRecipes(context.Background(), domain.RecipeFilter{
		Tags:        []string{"breakfast"},
		IsFavorited: domain.FlagFalse,
		UserID:      viewer.ID.String(),
	}, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), count)
	assert.ElementsMatch(t, []string{tagged.ID.String()}, recipeIDs(recipes))
}
