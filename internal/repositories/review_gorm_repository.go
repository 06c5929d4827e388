package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"gameseerr/internal/models"

	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{
		db: db,
	}
}

// GetByID retrieves a single review by its ID.
func (r *GORMReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review by ID %d: %w", id, err)
	}
	return &review, nil
}

// GetByUserAndGame retrieves the review a user wrote for a game, if any.
func (r *GORMReviewRepository) GetByUserAndGame(userID string, gameID uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "user_id = ? AND game_id = ?", userID, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("review by user %s for game %d: %w", userID, gameID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review for game %d: %w", gameID, err)
	}
	return &review, nil
}

// ListByGame returns a game's reviews with their authors, newest first.
func (r *GORMReviewRepository) ListByGame(gameID uint) ([]models.GameReview, error) {
	var reviews []models.GameReview
	err := r.db.Model(&models.Review{}).
		Select("reviews.id, reviews.rating, reviews.body, reviews.created_at, reviews.user_id, users.username, users.avatar_url").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.game_id = ?", gameID).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for game %d: %w", gameID, err)
	}
	return reviews, nil
}

// ListByUser returns a user's reviews with their games, newest first.
func (r *GORMReviewRepository) ListByUser(userID string) ([]models.UserReview, error) {
	var reviews []models.UserReview
	err := r.db.Model(&models.Review{}).
		Select("reviews.id, reviews.rating, reviews.body, reviews.created_at, games.id AS game_id, games.title AS game_title, games.image_url").
		Joins("JOIN games ON games.id = reviews.game_id").
		Where("reviews.user_id = ?", userID).
		Order("reviews.created_at DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for user %s: %w", userID, err)
	}
	return reviews, nil
}

// Create inserts a new review row.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("review for game %d: %w", review.GameID, ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Update saves all fields of an existing review.
func (r *GORMReviewRepository) Update(review *models.Review) error {
	res := r.db.Save(review)
	if res.Error != nil {
		return fmt.Errorf("failed to update review %d: %w", review.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("review with ID %d: %w", review.ID, ErrNotFound)
	}
	return nil
}

// DeleteOwned removes the review only when it belongs to userID. The
// delete is hard: a soft-deleted row would keep holding the unique
// (game_id, user_id) index and block the user from reviewing again.
func (r *GORMReviewRepository) DeleteOwned(id uint, userID string) error {
	err := r.db.Unscoped().Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Review{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}
	return nil
}

// AverageRating computes AVG(rating) on the 1-10 scale, nil when the game
// has no reviews.
func (r *GORMReviewRepository) AverageRating(gameID uint) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.Model(&models.Review{}).
		Where("game_id = ?", gameID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average reviews for game %d: %w", gameID, err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
