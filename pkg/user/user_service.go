package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/relation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Number of recipes included in a subscription preview.
const subscribePreviewLimit = 3

type (
	UserService interface {
		Register(ctx context.Context, req domain.UserRegisterRequest) (domain.UserRegisterResponse, error)
		Login(ctx context.Context, req domain.UserLoginRequest) (domain.UserLoginResponse, error)
		VerifyEmail(ctx context.Context, token string) error
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, page, limit int, requesterID string) ([]domain.UserResponse, int64, error)
		GetUserDetail(ctx context.Context, id, requesterID string) (domain.UserResponse, error)

		Subscribe(ctx context.Context, authorID, userID string, action domain.ToggleAction) (domain.UserSubscribeResponse, error)
		GetSubscriptions(ctx context.Context, userID string, page, limit int) ([]domain.UserSubscribeResponse, int64, error)
	}

	userService struct {
		userRepository   UserRepository
		recipeRepository recipe.RecipeRepository
		relationService  relation.RelationService
		jwtService       jwt.JWTService
	}
)

func NewUserService(
	userRepository UserRepository,
	recipeRepository recipe.RecipeRepository,
	relationService relation.RelationService,
	jwtService jwt.JWTService,
) UserService {
	return &userService{
		userRepository:   userRepository,
		recipeRepository: recipeRepository,
		relationService:  relationService,
		jwtService:       jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.UserRegisterRequest) (domain.UserRegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.UserRegisterResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserRegisterResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.UserRegisterResponse{}, domain.ErrUsernameAlreadyTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserRegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserRegisterResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      domain.RoleUser,
	}

	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		return domain.UserRegisterResponse{}, err
	}

	if err := s.sendVerificationEmail(user); err != nil {
		// Registration already committed; the user can request a new mail.
		fmt.Println("failed to send verification email:", err)
	}

	return domain.UserRegisterResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) sendVerificationEmail(user *entities.User) error {
	token, err := s.jwtService.GenerateTokenVerify(
		map[string]any{"user_id": user.ID.String()},
		24*time.Hour,
	)
	if err != nil {
		return err
	}

	verifyLink := fmt.Sprintf("%s/api/v1/users/verify?token=%s", utils.GetConfig("APP_URL"), token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Confirm your Foodgram account by following <a href=%q>this link</a>.</p>",
		user.FirstName, verifyLink,
	)
	return mailing.SendMail(user.Email, "Verify your Foodgram account", body)
}

func (s *userService) Login(ctx context.Context, req domain.UserLoginRequest) (domain.UserLoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.UserLoginResponse{}, domain.ErrCredentialsNotMatch
		}
		return domain.UserLoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.UserLoginResponse{}, domain.ErrCredentialsNotMatch
	}

	if !user.IsVerified {
		return domain.UserLoginResponse{}, domain.ErrAccountNotVerified
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return domain.UserLoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateTokenVerify(token)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return domain.ErrTokenInvalid
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	user.IsVerified = true
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) GetUsers(ctx context.Context, page, limit int, requesterID string) ([]domain.UserResponse, int64, error) {
	users, count, err := s.userRepository.GetUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		res := toUserResponse(u)
		if requesterID != "" && requesterID != res.ID {
			isSubscribed, err := s.relationService.IsMember(ctx, requesterID, res.ID, domain.RelationSubscribe)
			if err != nil {
				return nil, 0, err
			}
			res.IsSubscribed = isSubscribed
		}
		responses = append(responses, res)
	}

	return responses, count, nil
}

func (s *userService) GetUserDetail(ctx context.Context, id, requesterID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}

	res := toUserResponse(user)
	if requesterID != "" && requesterID != id {
		isSubscribed, err := s.relationService.IsMember(ctx, requesterID, id, domain.RelationSubscribe)
		if err != nil {
			return domain.UserResponse{}, err
		}
		res.IsSubscribed = isSubscribed
	}
	return res, nil
}

// Subscribe toggles the requester's subscription to an author. The author
// must exist; strictness of the toggle itself is enforced by the relation
// service.
func (s *userService) Subscribe(ctx context.Context, authorID, userID string, action domain.ToggleAction) (domain.UserSubscribeResponse, error) {
	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return domain.UserSubscribeResponse{}, err
	}

	if err := s.relationService.Toggle(ctx, userID, authorID, domain.RelationSubscribe, action); err != nil {
		return domain.UserSubscribeResponse{}, err
	}

	// Removal answers 204 with no body, so the preview is only assembled
	// when subscribing.
	if action == domain.ToggleRemove {
		return domain.UserSubscribeResponse{}, nil
	}

	return s.toSubscribeResponse(ctx, author, true)
}

func (s *userService) GetSubscriptions(ctx context.Context, userID string, page, limit int) ([]domain.UserSubscribeResponse, int64, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	authors, count, err := s.userRepository.GetSubscriptions(ctx, userUUID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.UserSubscribeResponse, 0, len(authors))
	for _, author := range authors {
		res, err := s.toSubscribeResponse(ctx, author, true)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, res)
	}

	return responses, count, nil
}

func (s *userService) toSubscribeResponse(ctx context.Context, author *entities.User, isSubscribed bool) (domain.UserSubscribeResponse, error) {
	recipes, recipesCount, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID.String(), subscribePreviewLimit)
	if err != nil {
		return domain.UserSubscribeResponse{}, err
	}

	res := domain.UserSubscribeResponse{
		UserResponse: toUserResponse(author),
		Recipes:      make([]domain.ShortRecipeResponse, 0, len(recipes)),
		RecipesCount: recipesCount,
	}
	res.IsSubscribed = isSubscribed

	for _, r := range recipes {
		res.Recipes = append(res.Recipes, domain.ShortRecipeResponse{
			ID:          r.ID.String(),
			Name:        r.Name,
			ImageURL:    r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}

	return res, nil
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}
