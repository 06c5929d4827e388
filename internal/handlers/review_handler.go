package handlers

import (
	"errors"
	"log"
	"strconv"

	"gameseerr/internal/middleware"
	"gameseerr/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for game reviews.
type ReviewHandler struct {
	reviewService *services.ReviewService
	validate      *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the review routes; all of them require auth.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/games/:id/reviews", h.HandleSubmitReview)
	router.Delete("/reviews/:id", h.HandleDeleteReview)
}

// SubmitReviewRequest is the body of a review submission. ReviewID is set
// when the client edits an existing review in place.
type SubmitReviewRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=10"`
	Body     string `json:"body" validate:"required,max=2000"`
	ReviewID uint   `json:"review_id"`
}

// HandleSubmitReview creates or updates the caller's review for a game
// and responds with the game's recalculated state location.
func (h *ReviewHandler) HandleSubmitReview(c *fiber.Ctx) error {
	gameID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || gameID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid game ID",
		})
	}

	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrorMap(err),
		})
	}

	userID := middleware.UserID(c)
	if err := h.reviewService.Submit(userID, uint(gameID), req.Rating, req.Body, req.ReviewID); err != nil {
		if errors.Is(err, services.ErrInvalidReview) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid review",
				"error":   err.Error(),
			})
		}
		log.Printf("Error submitting review for game %d: %v", gameID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not submit review",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review saved",
		"game_id": gameID,
	})
}

// HandleDeleteReview removes the caller's review. Deleting someone else's
// review is a silent no-op; the rating is recalculated regardless.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	reviewID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || reviewID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid review ID",
		})
	}
	gameID, err := strconv.ParseUint(c.Query("game_id"), 10, 32)
	if err != nil || gameID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid game ID",
		})
	}

	userID := middleware.UserID(c)
	if err := h.reviewService.Delete(userID, uint(reviewID), uint(gameID)); err != nil {
		if errors.Is(err, services.ErrInvalidReview) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid review",
				"error":   err.Error(),
			})
		}
		log.Printf("Error deleting review %d: %v", reviewID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete review",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Review deleted",
		"game_id": gameID,
	})
}
