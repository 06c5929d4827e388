package models

import "gorm.io/gorm"

// Game represents a catalog entry. Genre and Platform are comma-separated
// tag lists, matching how the catalog filters them (substring match).
type Game struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	Title         string `json:"title" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Genre         string `json:"genre" gorm:"type:varchar(255)"`
	Platform      string `json:"platform" gorm:"type:varchar(255)"`
	ReleaseYear   int    `json:"release_year"` // 0 means unknown
	Description   string `json:"description"`
	ImageURL      string `json:"image_url" gorm:"type:varchar(512)"`
	AverageRating int    `json:"average_rating"` // 0-100, derived from reviews
	SteamAppID    *int64 `json:"steam_app_id,omitempty" gorm:"uniqueIndex"`
	gorm.Model    `json:"-"`
}

// GameSummary is the listing shape used by the catalog grid.
type GameSummary struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Genre         string `json:"genre"`
	Platform      string `json:"platform"`
	AverageRating int    `json:"average_rating"`
	ImageURL      string `json:"image_url"`
	InWishlist    bool   `json:"in_wishlist" gorm:"-"`
}
