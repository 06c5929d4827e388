package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a user's review of a game. The unique index on
// (game_id, user_id) backs the one-review-per-user-per-game invariant.
type Review struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	GameID     uint   `json:"game_id" gorm:"uniqueIndex:idx_reviews_game_user;not null"`
	UserID     string `json:"user_id" gorm:"uniqueIndex:idx_reviews_game_user;type:varchar(36);not null"`
	Rating     int    `json:"rating" validate:"required,min=1,max=10"`
	Body       string `json:"body" gorm:"type:text" validate:"required,max=2000"`
	gorm.Model `json:"-"`
}

// GameReview is a review joined with its author, as shown on a game page.
type GameReview struct {
	ID        uint      `json:"id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
}

// UserReview is a review joined with its game, as shown on the profile page.
type UserReview struct {
	ID        uint      `json:"id"`
	Rating    int       `json:"rating"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	GameID    uint      `json:"game_id"`
	GameTitle string    `json:"game_title"`
	ImageURL  string    `json:"image_url"`
}
