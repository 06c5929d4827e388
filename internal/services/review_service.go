package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gameseerr/internal/models"
	"gameseerr/internal/repositories"
	"gameseerr/pkg/rabbitmq"
)

// MaxReviewBodyLength bounds the free-text body of a review.
const MaxReviewBodyLength = 2000

// ErrInvalidReview is wrapped by validation failures; nothing has been
// mutated when it is returned.
var ErrInvalidReview = errors.New("invalid review")

// ReviewService enforces one-review-per-(user,game) and keeps the
// aggregated rating accurate. Every mutation recalculates synchronously
// before the caller observes success.
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	rating     *RatingService
	mqClient   *rabbitmq.Client
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, rating *RatingService, mqClient *rabbitmq.Client) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		rating:     rating,
		mqClient:   mqClient,
	}
}

// Submit creates or updates the caller's review for a game. When reviewID
// is set and owned by the caller, that row is updated in place; otherwise
// the service upserts by (user, game) identity, so a second submission can
// never produce a second row.
func (s *ReviewService) Submit(userID string, gameID uint, rating int, body string, reviewID uint) error {
	body = strings.TrimSpace(body)
	switch {
	case gameID == 0:
		return fmt.Errorf("%w: missing game", ErrInvalidReview)
	case rating < 1 || rating > 10:
		return fmt.Errorf("%w: rating must be between 1 and 10", ErrInvalidReview)
	case body == "":
		return fmt.Errorf("%w: body must not be empty", ErrInvalidReview)
	case len(body) > MaxReviewBodyLength:
		return fmt.Errorf("%w: body exceeds %d characters", ErrInvalidReview, MaxReviewBodyLength)
	}

	persisted := false
	if reviewID > 0 {
		existing, err := s.reviewRepo.GetByID(reviewID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		// A foreign or mismatched review ID silently falls through to the
		// identity upsert instead of reporting whether the row exists.
		if err == nil && existing.UserID == userID && existing.GameID == gameID {
			existing.Rating = rating
			existing.Body = body
			if err := s.reviewRepo.Update(existing); err != nil {
				return err
			}
			persisted = true
		}
	}

	if !persisted {
		if err := s.upsertByIdentity(userID, gameID, rating, body); err != nil {
			return err
		}
	}

	if err := s.rating.Recalculate(gameID); err != nil {
		return err
	}

	s.publish("review.submitted", userID, gameID)
	return nil
}

// Delete removes the caller's review. Deleting a missing or foreign review
// is a silent no-op, and the rating is recalculated either way.
func (s *ReviewService) Delete(userID string, reviewID, gameID uint) error {
	if reviewID == 0 || gameID == 0 {
		return fmt.Errorf("%w: missing review or game", ErrInvalidReview)
	}

	if err := s.reviewRepo.DeleteOwned(reviewID, userID); err != nil {
		return err
	}

	if err := s.rating.Recalculate(gameID); err != nil {
		return err
	}

	s.publish("review.deleted", userID, gameID)
	return nil
}

// ListForGame returns a game's reviews with author info, newest first.
func (s *ReviewService) ListForGame(gameID uint) ([]models.GameReview, error) {
	return s.reviewRepo.ListByGame(gameID)
}

// ListForUser returns a user's reviews with game info, newest first.
func (s *ReviewService) ListForUser(userID string) ([]models.UserReview, error) {
	return s.reviewRepo.ListByUser(userID)
}

func (s *ReviewService) upsertByIdentity(userID string, gameID uint, rating int, body string) error {
	existing, err := s.reviewRepo.GetByUserAndGame(userID, gameID)
	switch {
	case err == nil:
		existing.Rating = rating
		existing.Body = body
		return s.reviewRepo.Update(existing)
	case errors.Is(err, repositories.ErrNotFound):
		review := &models.Review{GameID: gameID, UserID: userID, Rating: rating, Body: body}
		createErr := s.reviewRepo.Create(review)
		if createErr == nil {
			return nil
		}
		if !errors.Is(createErr, repositories.ErrDuplicateEntry) {
			return createErr
		}
		// Lost a race against a concurrent submit for the same pair:
		// the unique index held, so update the row that won.
		winner, getErr := s.reviewRepo.GetByUserAndGame(userID, gameID)
		if getErr != nil {
			return getErr
		}
		winner.Rating = rating
		winner.Body = body
		return s.reviewRepo.Update(winner)
	default:
		return err
	}
}

func (s *ReviewService) publish(event, userID string, gameID uint) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishCatalogEvent(event, map[string]interface{}{
		"user_id": userID,
		"game_id": gameID,
	})
	if err != nil {
		log.Printf("Warning: failed to publish %s event for game %d: %v", event, gameID, err)
	}
}
