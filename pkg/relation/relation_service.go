package relation

import (
	"context"

	"foodgram/domain"

	"github.com/google/uuid"
)

type (
	// RelationService mutates one membership set per call. A toggle is
	// strict: adding an existing member or removing a missing one fails
	// with domain.ErrInvalidToggle instead of being a no-op.
	RelationService interface {
		Toggle(ctx context.Context, userID, targetID string, key domain.RelationKey, action domain.ToggleAction) error
		IsMember(ctx context.Context, userID, targetID string, key domain.RelationKey) (bool, error)
		Memberships(ctx context.Context, userID string, targetIDs []string, key domain.RelationKey) (map[string]bool, error)
	}

	relationService struct {
		relationRepository RelationRepository
	}
)

func NewRelationService(relationRepository RelationRepository) RelationService {
	return &relationService{relationRepository: relationRepository}
}

func (s *relationService) Toggle(ctx context.Context, userID, targetID string, key domain.RelationKey, action domain.ToggleAction) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return domain.ErrParseUUID
	}

	if key == domain.RelationSubscribe && userUUID == targetUUID {
		return domain.ErrSelfSubscribe
	}

	exists, err := s.relationRepository.Exists(ctx, key, userUUID, targetUUID)
	if err != nil {
		return err
	}

	switch {
	case action == domain.ToggleAdd && !exists:
		return s.relationRepository.Add(ctx, key, userUUID, targetUUID)
	case action == domain.ToggleRemove && exists:
		return s.relationRepository.Remove(ctx, key, userUUID, targetUUID)
	default:
		return domain.ErrInvalidToggle
	}
}

func (s *relationService) IsMember(ctx context.Context, userID, targetID string, key domain.RelationKey) (bool, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return false, domain.ErrParseUUID
	}

	targetUUID, err := uuid.Parse(targetID)
	if err != nil {
		return false, domain.ErrParseUUID
	}

	return s.relationRepository.Exists(ctx, key, userUUID, targetUUID)
}

// Memberships answers the membership question for a whole page of targets at
// once instead of one query per target.
func (s *relationService) Memberships(ctx context.Context, userID string, targetIDs []string, key domain.RelationKey) (map[string]bool, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	targetUUIDs := make([]uuid.UUID, 0, len(targetIDs))
	for _, id := range targetIDs {
		targetUUID, err := uuid.Parse(id)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		targetUUIDs = append(targetUUIDs, targetUUID)
	}

	members, err := s.relationRepository.ListTargets(ctx, key, userUUID, targetUUIDs)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(members))
	for _, id := range members {
		set[id.String()] = true
	}
	return set, nil
}
