package models

import "time"

// WishlistEntry marks a game as wished by a user. Membership is a set:
// the composite primary key guarantees at most one row per pair.
type WishlistEntry struct {
	UserID    string `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	GameID    uint   `json:"game_id" gorm:"primaryKey"`
	CreatedAt time.Time
}
