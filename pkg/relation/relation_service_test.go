package relation

import (
	"context"
	"testing"

	"foodgram/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelationRepository struct {
	members map[string]bool
}

func newFakeRelationRepository() *fakeRelationRepository {
	return &fakeRelationRepository{members: make(map[string]bool)}
}

func membershipKey(key domain.RelationKey, userID, targetID uuid.UUID) string {
	return string(key) + "/" + userID.String() + "/" + targetID.String()
}

func knownKey(key domain.RelationKey) bool {
	switch key {
	case domain.RelationSubscribe, domain.RelationFavorite, domain.RelationShoppingCart:
		return true
	}
	return false
}

func (f *fakeRelationRepository) Exists(_ context.Context, key domain.RelationKey, userID, targetID uuid.UUID) (bool, error) {
	if !knownKey(key) {
		return false, domain.ErrUnknownRelation
	}
	return f.members[membershipKey(key, userID, targetID)], nil
}

func (f *fakeRelationRepository) ListTargets(_ context.Context, key domain.RelationKey, userID uuid.UUID, targetIDs []uuid.UUID) ([]uuid.UUID, error) {
	if !knownKey(key) {
		return nil, domain.ErrUnknownRelation
	}
	var members []uuid.UUID
	for _, targetID := range targetIDs {
		if f.members[membershipKey(key, userID, targetID)] {
			members = append(members, targetID)
		}
	}
	return members, nil
}

func (f *fakeRelationRepository) Add(_ context.Context, key domain.RelationKey, userID, targetID uuid.UUID) error {
	if !knownKey(key) {
		return domain.ErrUnknownRelation
	}
	f.members[membershipKey(key, userID, targetID)] = true
	return nil
}

func (f *fakeRelationRepository) Remove(_ context.Context, key domain.RelationKey, userID, targetID uuid.UUID) error {
	if !knownKey(key) {
		return domain.ErrUnknownRelation
	}
	delete(f.members, membershipKey(key, userID, targetID))
	return nil
}

func TestToggleAddTwiceIsStrict(t *testing.T) {
	service := NewRelationService(newFakeRelationRepository())
	userID := uuid.New().String()
	recipeID := uuid.New().String()

	err := service.Toggle(context.Background(), userID, recipeID, domain.RelationFavorite, domain.ToggleAdd)
	require.NoError(t, err)

	err = service.Toggle(context.Background(), userID, recipeID, domain.RelationFavorite, domain.ToggleAdd)
	assert.ErrorIs(t, err, domain.ErrInvalidToggle)
}

func TestToggleRemoveTwiceIsStrict(t *testing.T) {
	service := NewRelationService(newFakeRelationRepository())
	userID := uuid.New().String()
	recipeID := uuid.New().String()

	require.NoError(t, service.Toggle(context.Background(), userID, recipeID, domain.RelationShoppingCart, domain.ToggleAdd))
	require.NoError(t, service.Toggle(context.Background(), userID, recipeID, domain.RelationShoppingCart, domain.ToggleRemove))

	err := service.Toggle(context.Background(), userID, recipeID, domain.RelationShoppingCart, domain.ToggleRemove)
	assert.ErrorIs(t, err, domain.ErrInvalidToggle)
}

func TestToggleAddThenRemoveRestoresMembership(t *testing.T) {
	service := NewRelationService(newFakeRelationRepository())
	userID := uuid.New().String()
	recipeID := uuid.New().String()

	before, err := service.IsMember(context.Background(), userID, recipeID, domain.RelationFavorite)
	require.NoError(t, err)
	require.False(t, before)

	require.NoError(t, service.Toggle(context.Background(), userID, recipeID, domain.RelationFavorite, domain.ToggleAdd))
	require.NoError(t, service.Toggle(context.Background(), userID, recipeID, domain.RelationFavorite, domain.ToggleRemove))

	after, err := service.IsMember(context.Background(), userID, recipeID, domain.RelationFavorite)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestToggleRemoveWhenNotMember(t *testing.T) {
	service := NewRelationService(newFakeRelationRepository())

	err := service.Toggle(context.Background(), uuid.New().String(), uuid.New().String(), domain.RelationFavorite, domain.ToggleRemove)
	assert.ErrorIs(t, err, domain.ErrInvalidToggle)
}

func TestToggleSelfSubscribe(t *testing.T) {
	service := NewRelationService(newFakeRelationRepository())
	userID := uuid.New().String()

	err := service.Toggle(context.Background(), userID, userID, domain.RelationSubscribe, domain.ToggleAdd)
	assert.ErrorIs(t, err, domain.ErrSelfSubscribe)
}

func TestToggleUnknownRelation(t *testing.T) {
	service := NewRelationService(newFakeRelationRepository())

	err := service.Toggle(context.Background(), uuid.New().String(), uuid.New().String(), domain.RelationKey("bogus"), domain.ToggleAdd)
	assert.ErrorIs(t, err, domain.ErrUnknownRelation)
}

func TestMembershipsReportsOnlyMembers(t *testing.T) {
	service := NewRelationService(newFakeRelationRepository())
	userID := uuid.New().String()
	member := uuid.New().String()
	outsider := uuid.New().String()

	require.NoError(t, service.Toggle(context.Background(), userID, member, domain.RelationFavorite, domain.ToggleAdd))

	set, err := service.Memberships(context.Background(), userID, []string{member, outsider}, domain.RelationFavorite)
	require.NoError(t, err)

	assert.True(t, set[member])
	assert.False(t, set[outsider])
}

func TestMembershipsInvalidTargetID(t *testing.T) {
	service := NewRelationService(newFakeRelationRepository())

	_, err := service.Memberships(context.Background(), uuid.New().String(), []string{"not-a-uuid"}, domain.RelationFavorite)
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestToggleInvalidID(t *testing.T) {
	service := NewRelationService(newFakeRelationRepository())

	err := service.Toggle(context.Background(), "not-a-uuid", uuid.New().String(), domain.RelationFavorite, domain.ToggleAdd)
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}
