package repositories

import (
	"errors"
	"fmt"

	"gameseerr/internal/models"

	"gorm.io/gorm"
)

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
// The (user_id, game_id) composite primary key is the invariant: toggles
// racing each other resolve at the constraint, not in application code.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{
		db: db,
	}
}

// Add inserts the pair, wrapping ErrDuplicateEntry when it already exists.
func (r *GORMWishlistRepository) Add(userID string, gameID uint) error {
	entry := models.WishlistEntry{UserID: userID, GameID: gameID}
	if err := r.db.Create(&entry).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("wishlist entry (%s, %d): %w", userID, gameID, ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

// Remove deletes the pair and reports whether a row was actually removed.
func (r *GORMWishlistRepository) Remove(userID string, gameID uint) (bool, error) {
	res := r.db.Where("user_id = ? AND game_id = ?", userID, gameID).
		Delete(&models.WishlistEntry{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove wishlist entry: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Contains reports whether the pair is present.
func (r *GORMWishlistRepository) Contains(userID string, gameID uint) (bool, error) {
	var entry models.WishlistEntry
	err := r.db.First(&entry, "user_id = ? AND game_id = ?", userID, gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check wishlist entry: %w", err)
	}
	return true, nil
}

// GameIDs returns the IDs of all games in a user's wishlist.
func (r *GORMWishlistRepository) GameIDs(userID string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.WishlistEntry{}).
		Where("user_id = ?", userID).
		Pluck("game_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist IDs: %w", err)
	}
	return ids, nil
}

// Games returns a user's wishlist games ordered by title.
func (r *GORMWishlistRepository) Games(userID string) ([]models.GameSummary, error) {
	var games []models.GameSummary
	err := r.db.Model(&models.Game{}).
		Select("games.id, games.title, games.genre, games.platform, games.average_rating, games.image_url").
		Joins("JOIN wishlist_entries ON wishlist_entries.game_id = games.id").
		Where("wishlist_entries.user_id = ?", userID).
		Order("games.title ASC").
		Scan(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist games: %w", err)
	}
	return games, nil
}
