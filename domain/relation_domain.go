package domain

import "errors"

// RelationKey selects one of the authenticated user's membership sets.
// The set of keys is closed; an unknown key is a programming error.
type RelationKey string

const (
	RelationSubscribe    RelationKey = "subscribe"
	RelationFavorite     RelationKey = "favorite"
	RelationShoppingCart RelationKey = "shopping_cart"
)

// ToggleAction is derived from the HTTP method: POST adds, DELETE removes.
type ToggleAction string

const (
	ToggleAdd    ToggleAction = "add"
	ToggleRemove ToggleAction = "remove"
)

var (
	MessageFailedToggle  = "failed to toggle relation"
	MessageSuccessAdded  = "added successfully"
	MessageSuccessRemove = "removed successfully"

	ErrUnknownRelation = errors.New("unknown relation key")
	ErrInvalidToggle   = errors.New("invalid toggle for current membership state")
	ErrSelfSubscribe   = errors.New("cannot subscribe to yourself")
)
