package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetUser          = "success get user"
	MessageSuccessGetUsers         = "success get users"
	MessageSuccessVerify           = "email verified successfully"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetUser          = "failed to get user"
	MessageFailedGetUsers         = "failed to get users"
	MessageFailedVerify           = "failed to verify email"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrUserNotFound         = errors.New("user not found")
	ErrEmailAlreadyExists   = errors.New("email already registered")
	ErrUsernameAlreadyTaken = errors.New("username already taken")
	ErrCredentialsNotMatch  = errors.New("credentials do not match")
	ErrAccountNotVerified   = errors.New("account not verified")
)

type (
	UserRegisterRequest struct {
		Username  string `json:"username" validate:"required,min=3,max=150"`
		Email     string `json:"email" validate:"required,email"`
		FirstName string `json:"first_name" validate:"required"`
		LastName  string `json:"last_name" validate:"required"`
		Password  string `json:"password" validate:"required,min=8"`
	}

	UserRegisterResponse struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	UserLoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UserLoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UserResponse struct {
		ID           string    `json:"id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		FirstName    string    `json:"first_name"`
		LastName     string    `json:"last_name"`
		IsSubscribed bool      `json:"is_subscribed"`
		CreatedAt    time.Time `json:"created_at"`
	}

	// UserSubscribeResponse is the payload returned when a subscription is
	// created, the author plus a short preview of their recipes.
	UserSubscribeResponse struct {
		UserResponse
		Recipes      []ShortRecipeResponse `json:"recipes"`
		RecipesCount int64                 `json:"recipes_count"`
	}
)
