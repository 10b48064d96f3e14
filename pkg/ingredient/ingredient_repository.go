package ingredient

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	IngredientRepository interface {
		GetIngredients(ctx context.Context) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error)
		SearchByPrefix(ctx context.Context, name string) ([]*entities.Ingredient, error)
		SearchByContains(ctx context.Context, name string) ([]*entities.Ingredient, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) GetIngredients(ctx context.Context) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).Order("id").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) SearchByPrefix(ctx context.Context, name string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).
		Where("name LIKE ?", name+"%").
		Order("id").
		Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) SearchByContains(ctx context.Context, name string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).
		Where("name LIKE ?", "%"+name+"%").
		Order("id").
		Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}
