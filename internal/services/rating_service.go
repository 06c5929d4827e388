package services

import (
	"fmt"
	"math"

	"gameseerr/internal/repositories"
)

// RatingService keeps games.average_rating consistent with the review set.
type RatingService struct {
	reviewRepo repositories.ReviewRepository
	gameRepo   repositories.GameRepository
}

// NewRatingService creates a new RatingService.
func NewRatingService(reviewRepo repositories.ReviewRepository, gameRepo repositories.GameRepository) *RatingService {
	return &RatingService{
		reviewRepo: reviewRepo,
		gameRepo:   gameRepo,
	}
}

// Recalculate recomputes a game's displayed rating from its reviews and
// persists it unconditionally. Reviews are on a 1-10 scale, the displayed
// value on 0-100, so the mean is scaled by 10 and rounded to the nearest
// integer (half away from zero). A game with no reviews gets 0.
func (s *RatingService) Recalculate(gameID uint) error {
	avg, err := s.reviewRepo.AverageRating(gameID)
	if err != nil {
		return fmt.Errorf("failed to recalculate rating for game %d: %w", gameID, err)
	}

	rating := 0
	if avg != nil {
		rating = int(math.Round(*avg * 10))
	}

	if err := s.gameRepo.UpdateAverageRating(gameID, rating); err != nil {
		return fmt.Errorf("failed to persist rating for game %d: %w", gameID, err)
	}
	return nil
}
