package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Username   string    `gorm:"uniqueIndex" json:"username"`
	Email      string    `gorm:"uniqueIndex" json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Password   string    `json:"-"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`

	Timestamp
}

type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_subscriptions_user_author" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"uniqueIndex:idx_subscriptions_user_author" json:"author_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User `gorm:"foreignKey:UserID"`
	Author *User `gorm:"foreignKey:AuthorID"`
}
