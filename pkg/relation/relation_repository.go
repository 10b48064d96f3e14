package relation

import (
	"context"
	"time"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RelationRepository interface {
		Exists(ctx context.Context, key domain.RelationKey, userID, targetID uuid.UUID) (bool, error)
		ListTargets(ctx context.Context, key domain.RelationKey, userID uuid.UUID, targetIDs []uuid.UUID) ([]uuid.UUID, error)
		Add(ctx context.Context, key domain.RelationKey, userID, targetID uuid.UUID) error
		Remove(ctx context.Context, key domain.RelationKey, userID, targetID uuid.UUID) error
	}

	relationRepository struct {
		db *gorm.DB
	}
)

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

// resolve maps a relation key to its join table model and target column.
// The key set is closed; an unrecognized key is a programming error and
// surfaces as domain.ErrUnknownRelation.
func resolve(key domain.RelationKey) (interface{}, string, error) {
	switch key {
	case domain.RelationSubscribe:
		return &entities.Subscription{}, "author_id", nil
	case domain.RelationFavorite:
		return &entities.Favorite{}, "recipe_id", nil
	case domain.RelationShoppingCart:
		return &entities.CartItem{}, "recipe_id", nil
	default:
		return nil, "", domain.ErrUnknownRelation
	}
}

func (r *relationRepository) Exists(ctx context.Context, key domain.RelationKey, userID, targetID uuid.UUID) (bool, error) {
	model, targetColumn, err := resolve(key)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND "+targetColumn+" = ?", userID, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTargets returns the subset of targetIDs the user is a member of, in a
// single query per relation.
func (r *relationRepository) ListTargets(ctx context.Context, key domain.RelationKey, userID uuid.UUID, targetIDs []uuid.UUID) ([]uuid.UUID, error) {
	model, targetColumn, err := resolve(key)
	if err != nil {
		return nil, err
	}
	if len(targetIDs) == 0 {
		return nil, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND "+targetColumn+" IN ?", userID, targetIDs).
		Pluck(targetColumn, &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *relationRepository) Add(ctx context.Context, key domain.RelationKey, userID, targetID uuid.UUID) error {
	switch key {
	case domain.RelationSubscribe:
		return r.db.WithContext(ctx).Create(&entities.Subscription{
			ID:        uuid.New(),
			UserID:    userID,
			AuthorID:  targetID,
			CreatedAt: time.Now(),
		}).Error
	case domain.RelationFavorite:
		return r.db.WithContext(ctx).Create(&entities.Favorite{
			ID:        uuid.New(),
			UserID:    userID,
			RecipeID:  targetID,
			CreatedAt: time.Now(),
		}).Error
	case domain.RelationShoppingCart:
		return r.db.WithContext(ctx).Create(&entities.CartItem{
			ID:        uuid.New(),
			UserID:    userID,
			RecipeID:  targetID,
			CreatedAt: time.Now(),
		}).Error
	default:
		return domain.ErrUnknownRelation
	}
}

func (r *relationRepository) Remove(ctx context.Context, key domain.RelationKey, userID, targetID uuid.UUID) error {
	model, targetColumn, err := resolve(key)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("user_id = ? AND "+targetColumn+" = ?", userID, targetID).
		Delete(model).Error
}
