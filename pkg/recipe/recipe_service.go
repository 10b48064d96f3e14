package recipe

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/relation"
	"foodgram/pkg/tag"

	"github.com/google/uuid"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]domain.RecipeResponse, int64, error)
		GetRecipeDetail(ctx context.Context, recipeID, userID string) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID, role string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID, userID, role string) error
		UploadRecipeImage(ctx context.Context, file *multipart.FileHeader) (domain.UploadImageResponse, error)

		ToggleFavorite(ctx context.Context, recipeID, userID string, action domain.ToggleAction) (domain.ShortRecipeResponse, error)
		ToggleShoppingCart(ctx context.Context, recipeID, userID string, action domain.ToggleAction) (domain.ShortRecipeResponse, error)
		DownloadShoppingCart(ctx context.Context, userID string) (domain.ShoppingListFile, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		relationService      relation.RelationService
		s3                   storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	relationService relation.RelationService,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		relationService:      relationService,
		s3:                   s3,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]domain.RecipeResponse, int64, error) {
	// The membership flags apply only to authenticated callers; for
	// anonymous ones they are dropped, not rejected.
	if filter.UserID == "" {
		filter.IsFavorited = domain.FlagAbsent
		filter.IsInCart = domain.FlagAbsent
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}

	sets, err := s.loadMemberships(ctx, filter.UserID, recipes)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		responses = append(responses, toRecipeResponse(r, filter.UserID, sets))
	}
	return responses, count, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	sets, err := s.loadMemberships(ctx, userID, []*entities.Recipe{recipe})
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(recipe, userID, sets), nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if req.CookingTime <= 0 {
		return domain.RecipeResponse{}, domain.ErrInvalidCookingTime
	}

	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipeID := uuid.New()
	ingredients, err := s.resolveIngredients(ctx, recipeID, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          recipeID,
		AuthorID:    authorUUID,
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Tags:        tags,
		Ingredients: ingredients,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), userID)
}

// UpdateRecipe mutates a recipe; only the author or an admin may do so.
func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID, role string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if recipe.AuthorID.String() != userID && role != domain.RoleAdmin {
		return domain.RecipeResponse{}, domain.ErrUserNotAllowed
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.ImageURL != "" {
		recipe.ImageURL = req.ImageURL
	}
	if req.Text != "" {
		recipe.Text = req.Text
	}
	if req.CookingTime != 0 {
		if req.CookingTime < 0 {
			return domain.RecipeResponse{}, domain.ErrInvalidCookingTime
		}
		recipe.CookingTime = req.CookingTime
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	if len(req.TagIDs) > 0 {
		tags, err := s.resolveTags(ctx, req.TagIDs)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		if err := s.recipeRepository.ReplaceTags(ctx, recipe, tags); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	if len(req.Ingredients) > 0 {
		ingredients, err := s.resolveIngredients(ctx, recipe.ID, req.Ingredients)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		if err := s.recipeRepository.ReplaceIngredients(ctx, recipe.ID, ingredients); err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	return s.GetRecipeDetail(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, userID, role string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}

	if recipe.AuthorID.String() != userID && role != domain.RoleAdmin {
		return domain.ErrUserNotAllowed
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, file *multipart.FileHeader) (domain.UploadImageResponse, error) {
	key := "recipes/" + uuid.New().String() + filepath.Ext(file.Filename)
	imageURL, err := s.s3.UploadFile(ctx, key, file)
	if err != nil {
		return domain.UploadImageResponse{}, err
	}
	return domain.UploadImageResponse{ImageURL: imageURL}, nil
}

func (s *recipeService) ToggleFavorite(ctx context.Context, recipeID, userID string, action domain.ToggleAction) (domain.ShortRecipeResponse, error) {
	return s.toggle(ctx, recipeID, userID, domain.RelationFavorite, action)
}

func (s *recipeService) ToggleShoppingCart(ctx context.Context, recipeID, userID string, action domain.ToggleAction) (domain.ShortRecipeResponse, error) {
	return s.toggle(ctx, recipeID, userID, domain.RelationShoppingCart, action)
}

// toggle verifies the target recipe exists before touching the membership
// set; the strictness rules live in the relation service.
func (s *recipeService) toggle(ctx context.Context, recipeID, userID string, key domain.RelationKey, action domain.ToggleAction) (domain.ShortRecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.ShortRecipeResponse{}, err
	}

	if err := s.relationService.Toggle(ctx, userID, recipeID, key, action); err != nil {
		return domain.ShortRecipeResponse{}, err
	}

	return toShortRecipeResponse(recipe), nil
}

func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID string) (domain.ShoppingListFile, error) {
	user, err := s.recipeRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.ShoppingListFile{}, err
	}

	hasItems, err := s.recipeRepository.HasCartItems(ctx, user.ID)
	if err != nil {
		return domain.ShoppingListFile{}, err
	}
	if !hasItems {
		return domain.ShoppingListFile{}, domain.ErrEmptyCart
	}

	rows, err := s.recipeRepository.GetCartIngredients(ctx, user.ID)
	if err != nil {
		return domain.ShoppingListFile{}, err
	}

	return domain.ShoppingListFile{
		Filename: ShoppingListFilename(user.Username),
		Content:  RenderShoppingList(user.FirstName, AggregateShoppingList(rows), time.Now()),
	}, nil
}

func (s *recipeService) resolveTags(ctx context.Context, tagIDs []string) ([]*entities.Tag, error) {
	tags, err := s.tagRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, domain.ErrTagNotFound
	}
	return tags, nil
}

func (s *recipeService) resolveIngredients(ctx context.Context, recipeID uuid.UUID, reqs []domain.AmountIngredientRequest) ([]*entities.AmountIngredient, error) {
	ingredients := make([]*entities.AmountIngredient, 0, len(reqs))
	for _, req := range reqs {
		if req.Amount <= 0 {
			return nil, domain.ErrInvalidAmount
		}

		ing, err := s.ingredientRepository.GetIngredientByID(ctx, req.IngredientID)
		if err != nil {
			return nil, err
		}

		ingredients = append(ingredients, &entities.AmountIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: ing.ID,
			Amount:       req.Amount,
		})
	}
	return ingredients, nil
}

// membershipSets holds the caller's favorite, cart and subscription members
// for one page of recipes, fetched with one query per relation.
type membershipSets struct {
	favorites     map[string]bool
	cart          map[string]bool
	subscriptions map[string]bool
}

func (s *recipeService) loadMemberships(ctx context.Context, userID string, recipes []*entities.Recipe) (membershipSets, error) {
	var sets membershipSets
	if userID == "" || len(recipes) == 0 {
		return sets, nil
	}

	recipeIDs := make([]string, 0, len(recipes))
	authorIDs := make([]string, 0, len(recipes))
	seenAuthors := make(map[string]bool, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID.String())
		if r.Author != nil && !seenAuthors[r.Author.ID.String()] {
			seenAuthors[r.Author.ID.String()] = true
			authorIDs = append(authorIDs, r.Author.ID.String())
		}
	}

	var err error
	if sets.favorites, err = s.relationService.Memberships(ctx, userID, recipeIDs, domain.RelationFavorite); err != nil {
		return membershipSets{}, err
	}
	if sets.cart, err = s.relationService.Memberships(ctx, userID, recipeIDs, domain.RelationShoppingCart); err != nil {
		return membershipSets{}, err
	}
	if len(authorIDs) > 0 {
		if sets.subscriptions, err = s.relationService.Memberships(ctx, userID, authorIDs, domain.RelationSubscribe); err != nil {
			return membershipSets{}, err
		}
	}
	return sets, nil
}

func toRecipeResponse(recipe *entities.Recipe, userID string, sets membershipSets) domain.RecipeResponse {
	res := domain.RecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		CreatedAt:   recipe.CreatedAt,
	}

	if recipe.Author != nil {
		res.Author = domain.UserResponse{
			ID:        recipe.Author.ID.String(),
			Username:  recipe.Author.Username,
			Email:     recipe.Author.Email,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
			CreatedAt: recipe.Author.CreatedAt,
		}
	}

	res.Tags = make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		res.Tags = append(res.Tags, domain.TagResponse{
			ID:    t.ID.String(),
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}

	res.Ingredients = make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, ai := range recipe.Ingredients {
		ingRes := domain.RecipeIngredientResponse{
			ID:     ai.IngredientID.String(),
			Amount: ai.Amount,
		}
		if ai.Ingredient != nil {
			ingRes.Name = ai.Ingredient.Name
			ingRes.MeasurementUnit = ai.Ingredient.MeasurementUnit
		}
		res.Ingredients = append(res.Ingredients, ingRes)
	}

	if userID != "" {
		res.IsFavorited = sets.favorites[recipe.ID.String()]
		res.IsInCart = sets.cart[recipe.ID.String()]
		if recipe.Author != nil && recipe.Author.ID.String() != userID {
			res.Author.IsSubscribed = sets.subscriptions[recipe.Author.ID.String()]
		}
	}

	return res
}

func toShortRecipeResponse(recipe *entities.Recipe) domain.ShortRecipeResponse {
	return domain.ShortRecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}
