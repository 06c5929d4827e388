package repositories

import "gameseerr/internal/models"

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	// Add inserts the pair, wrapping ErrDuplicateEntry when it already exists.
	Add(userID string, gameID uint) error
	// Remove deletes the pair and reports whether a row was actually removed.
	Remove(userID string, gameID uint) (bool, error)
	Contains(userID string, gameID uint) (bool, error)
	GameIDs(userID string) ([]uint, error)
	Games(userID string) ([]models.GameSummary, error)
}
