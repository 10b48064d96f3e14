package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url,omitempty"`
	Text        string    `gorm:"type:text" json:"text"`
	CookingTime int       `json:"cooking_time"` // in minutes

	Author      *User               `gorm:"foreignKey:AuthorID"`
	Tags        []*Tag              `gorm:"many2many:recipe_tags" json:"tags,omitempty"`
	Ingredients []*AmountIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Timestamp
}

// AmountIngredient lives only as long as its owning recipe.
type AmountIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID     uuid.UUID `gorm:"uniqueIndex:idx_amount_ingredients_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"uniqueIndex:idx_amount_ingredients_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `json:"amount"`

	Recipe     *Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_favorites_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"uniqueIndex:idx_favorites_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_cart_items_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"uniqueIndex:idx_cart_items_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
}
