package repositories

import "gameseerr/internal/models"

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	GetByID(id uint) (*models.Review, error)
	GetByUserAndGame(userID string, gameID uint) (*models.Review, error)
	ListByGame(gameID uint) ([]models.GameReview, error)
	ListByUser(userID string) ([]models.UserReview, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
	// DeleteOwned removes the review only when it belongs to userID.
	// Deleting a missing or foreign review is a silent no-op.
	DeleteOwned(id uint, userID string) error
	// AverageRating returns nil when the game has no reviews.
	AverageRating(gameID uint) (*float64, error)
}
