package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetRecipes       = "success get recipes"
	MessageSuccessGetRecipeDetail  = "success get recipe detail"
	MessageSuccessCreateRecipe     = "recipe created successfully"
	MessageSuccessUpdateRecipe     = "recipe updated successfully"
	MessageSuccessDeleteRecipe     = "recipe deleted successfully"
	MessageSuccessUploadImage      = "image uploaded successfully"
	MessageSuccessDownloadShopping = "shopping list generated"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedUploadImage     = "failed to upload image"
	MessageFailedDownload        = "failed to generate shopping list"

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrEmptyCart          = errors.New("shopping cart is empty")
	ErrInvalidAmount      = errors.New("ingredient amount must be positive")
	ErrInvalidCookingTime = errors.New("cooking time must be positive")
)

// FilterFlag is the three-state value of is_favorited / is_in_shopping_cart.
// An explicit falsy value excludes the user's members, which is not the same
// as leaving the parameter out.
type FilterFlag int

const (
	FlagAbsent FilterFlag = iota
	FlagTrue
	FlagFalse
)

// ParseFilterFlag recognizes two fixed symbol sets; anything else is treated
// as if the parameter were absent.
func ParseFilterFlag(value string) FilterFlag {
	switch value {
	case "1", "true":
		return FlagTrue
	case "0", "false":
		return FlagFalse
	default:
		return FlagAbsent
	}
}

type (
	RecipeFilter struct {
		Tags        []string
		Author      string
		IsFavorited FilterFlag
		IsInCart    FilterFlag
		// UserID is empty for anonymous callers; the flag filters are
		// silently ignored in that case.
		UserID string
	}

	AmountIngredientRequest struct {
		IngredientID string `json:"ingredient_id" validate:"required,uuid"`
		Amount       int    `json:"amount" validate:"required,min=1"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		ImageURL    string                    `json:"image_url,omitempty"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
		TagIDs      []string                  `json:"tag_ids" validate:"required,min=1,dive,uuid"`
		Ingredients []AmountIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
	}

	UpdateRecipeRequest struct {
		Name        string                    `json:"name,omitempty"`
		ImageURL    string                    `json:"image_url,omitempty"`
		Text        string                    `json:"text,omitempty"`
		CookingTime int                       `json:"cooking_time,omitempty"`
		TagIDs      []string                  `json:"tag_ids,omitempty" validate:"omitempty,dive,uuid"`
		Ingredients []AmountIngredientRequest `json:"ingredients,omitempty" validate:"omitempty,dive"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID          string                     `json:"id"`
		Name        string                     `json:"name"`
		ImageURL    string                     `json:"image_url,omitempty"`
		Text        string                     `json:"text"`
		CookingTime int                        `json:"cooking_time"`
		Author      UserResponse               `json:"author"`
		Tags        []TagResponse              `json:"tags"`
		Ingredients []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited bool                       `json:"is_favorited"`
		IsInCart    bool                       `json:"is_in_shopping_cart"`
		CreatedAt   time.Time                  `json:"created_at"`
	}

	// ShortRecipeResponse is the compact payload returned by the
	// favorite/shopping-cart toggles and subscription previews.
	ShortRecipeResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ImageURL    string `json:"image_url,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}

	// ShoppingListItem is one aggregated line of the exported report.
	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	ShoppingListFile struct {
		Filename string
		Content  []byte
	}

	UploadImageResponse struct {
		ImageURL string `json:"image_url"`
	}
)
