package user

import (
	"context"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/entities"

	jwtgo "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepository struct {
	users map[string]*entities.User
}

func newFakeUserRepository(users ...*entities.User) *fakeUserRepository {
	repo := &fakeUserRepository{users: make(map[string]*entities.User)}
	for _, u := range users {
		repo.users[u.ID.String()] = u
	}
	return repo
}

func (f *fakeUserRepository) RegisterUser(_ context.Context, user *entities.User) error {
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepository) UpdateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepository) GetUserByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepository) GetUsers(_ context.Context, _, _ int) ([]*entities.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepository) GetSubscriptions(_ context.Context, _ uuid.UUID, _, _ int) ([]*entities.User, int64, error) {
	return nil, 0, nil
}

// fakeRecipeCatalog counts preview lookups so tests can assert which paths
// touch the recipe store.
type fakeRecipeCatalog struct {
	previewCalls int
}

func (f *fakeRecipeCatalog) CreateRecipe(_ context.Context, _ *entities.Recipe) error { return nil }

func (f *fakeRecipeCatalog) GetRecipeByID(_ context.Context, _ string) (*entities.Recipe, error) {
	return nil, domain.ErrRecipeNotFound
}

func (f *fakeRecipeCatalog) UpdateRecipe(_ context.Context, _ *entities.Recipe) error { return nil }

func (f *fakeRecipeCatalog) DeleteRecipe(_ context.Context, _ string) error { return nil }

func (f *fakeRecipeCatalog) GetRecipes(_ context.Context, _ domain.RecipeFilter, _, _ int) ([]*entities.Recipe, int64, error) {
	return nil, 0, nil
}

func (f *fakeRecipeCatalog) GetRecipesByAuthor(_ context.Context, _ string, _ int) ([]*entities.Recipe, int64, error) {
	f.previewCalls++
	return nil, 0, nil
}

func (f *fakeRecipeCatalog) ReplaceTags(_ context.Context, _ *entities.Recipe, _ []*entities.Tag) error {
	return nil
}

func (f *fakeRecipeCatalog) ReplaceIngredients(_ context.Context, _ uuid.UUID, _ []*entities.AmountIngredient) error {
	return nil
}

func (f *fakeRecipeCatalog) GetUserByID(_ context.Context, _ string) (*entities.User, error) {
	return nil, domain.ErrUserNotFound
}

func (f *fakeRecipeCatalog) HasCartItems(_ context.Context, _ uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeRecipeCatalog) GetCartIngredients(_ context.Context, _ uuid.UUID) ([]domain.ShoppingListItem, error) {
	return nil, nil
}

type fakeRelationService struct {
	members map[string]bool
}

func newFakeRelationService() *fakeRelationService {
	return &fakeRelationService{members: make(map[string]bool)}
}

func (f *fakeRelationService) Toggle(_ context.Context, userID, targetID string, key domain.RelationKey, action domain.ToggleAction) error {
	k := string(key) + "/" + userID + "/" + targetID
	exists := f.members[k]

	switch {
	case action == domain.ToggleAdd && !exists:
		f.members[k] = true
		return nil
	case action == domain.ToggleRemove && exists:
		delete(f.members, k)
		return nil
	default:
		return domain.ErrInvalidToggle
	}
}

func (f *fakeRelationService) IsMember(_ context.Context, userID, targetID string, key domain.RelationKey) (bool, error) {
	return f.members[string(key)+"/"+userID+"/"+targetID], nil
}

func (f *fakeRelationService) Memberships(_ context.Context, userID string, targetIDs []string, key domain.RelationKey) (map[string]bool, error) {
	set := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		if f.members[string(key)+"/"+userID+"/"+id] {
			set[id] = true
		}
	}
	return set, nil
}

type fakeJWTService struct{}

func (fakeJWTService) GenerateTokenUser(userId string, _ string) string { return "token-" + userId }

func (fakeJWTService) ValidateTokenUser(_ string) (*jwtgo.Token, error) {
	return nil, domain.ErrTokenInvalid
}

func (fakeJWTService) GetUserIDByToken(_ string) (string, string, error) {
	return "", "", domain.ErrTokenInvalid
}

func (fakeJWTService) GenerateTokenVerify(_ map[string]any, _ time.Duration) (string, error) {
	return "verify-token", nil
}

func (fakeJWTService) ValidateTokenVerify(_ string) (jwtgo.MapClaims, error) {
	return jwtgo.MapClaims{}, nil
}

func seedAccount(t *testing.T, password string, verified bool) *entities.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &entities.User{
		ID:         uuid.New(),
		Username:   "chef",
		Email:      "chef@foodgram.ml",
		FirstName:  "Иван",
		Password:   string(hashed),
		Role:       domain.RoleUser,
		IsVerified: verified,
	}
}

func TestLoginRejectsUnverifiedAccount(t *testing.T) {
	account := seedAccount(t, "password123", false)
	service := NewUserService(newFakeUserRepository(account), &fakeRecipeCatalog{}, newFakeRelationService(), fakeJWTService{})

	_, err := service.Login(context.Background(), domain.UserLoginRequest{
		Email:    account.Email,
		Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotVerified)
}

func TestLoginVerifiedAccount(t *testing.T) {
	account := seedAccount(t, "password123", true)
	service := NewUserService(newFakeUserRepository(account), &fakeRecipeCatalog{}, newFakeRelationService(), fakeJWTService{})

	res, err := service.Login(context.Background(), domain.UserLoginRequest{
		Email:    account.Email,
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleUser, res.Role)
}

func TestLoginWrongPasswordBeforeVerificationCheck(t *testing.T) {
	account := seedAccount(t, "password123", false)
	service := NewUserService(newFakeUserRepository(account), &fakeRecipeCatalog{}, newFakeRelationService(), fakeJWTService{})

	_, err := service.Login(context.Background(), domain.UserLoginRequest{
		Email:    account.Email,
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsNotMatch)
}

func TestVerifyEmailUnlocksLogin(t *testing.T) {
	account := seedAccount(t, "password123", false)
	repo := newFakeUserRepository(account)
	service := NewUserService(repo, &fakeRecipeCatalog{}, newFakeRelationService(), verifyClaimsJWT{userID: account.ID.String()})

	require.NoError(t, service.VerifyEmail(context.Background(), "verify-token"))

	res, err := service.Login(context.Background(), domain.UserLoginRequest{
		Email:    account.Email,
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

// verifyClaimsJWT returns a fixed user_id claim from ValidateTokenVerify.
type verifyClaimsJWT struct {
	fakeJWTService
	userID string
}

func (v verifyClaimsJWT) ValidateTokenVerify(_ string) (jwtgo.MapClaims, error) {
	return jwtgo.MapClaims{"user_id": v.userID}, nil
}

func TestUnsubscribeSkipsRecipePreview(t *testing.T) {
	author := seedAccount(t, "password123", true)
	catalog := &fakeRecipeCatalog{}
	service := NewUserService(newFakeUserRepository(author), catalog, newFakeRelationService(), fakeJWTService{})
	userID := uuid.New().String()

	res, err := service.Subscribe(context.Background(), author.ID.String(), userID, domain.ToggleAdd)
	require.NoError(t, err)
	assert.True(t, res.IsSubscribed)
	assert.Equal(t, 1, catalog.previewCalls)

	removed, err := service.Subscribe(context.Background(), author.ID.String(), userID, domain.ToggleRemove)
	require.NoError(t, err)

	// 204 carries no body, so removal must not assemble the preview.
	assert.Equal(t, 1, catalog.previewCalls)
	assert.Equal(t, domain.UserSubscribeResponse{}, removed)
}
