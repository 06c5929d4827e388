package handlers

import (
	"errors"
	"log"

	"gameseerr/internal/middleware"
	"gameseerr/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles wishlist toggles and listing.
type WishlistHandler struct {
	wishlistService *services.WishlistService
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(wishlistService *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// RegisterPublicRoutes registers the toggle endpoint on the optional-auth
// router so it can answer anonymous callers with a login status instead of
// the generic auth error. It must be called before any auth-required
// middleware is mounted on the same prefix, or that middleware answers
// anonymous toggles first.
func (h *WishlistHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Post("/wishlist/toggle", h.HandleToggle)
}

// RegisterRoutes registers the wishlist routes that require auth.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/wishlist", h.HandleListWishlist)
}

// ToggleRequest is the body of a wishlist toggle.
type ToggleRequest struct {
	GameID uint `json:"game_id"`
}

// HandleToggle flips a game's wishlist membership for the caller. The
// response status tells the client which way it went.
func (h *WishlistHandler) HandleToggle(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "login",
		})
	}

	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error",
		})
	}

	status, err := h.wishlistService.Toggle(userID, req.GameID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidGame) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error",
			})
		}
		log.Printf("Error toggling wishlist for user %s game %d: %v", userID, req.GameID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
		})
	}

	return c.JSON(fiber.Map{
		"status": status,
	})
}

// HandleListWishlist returns the caller's wishlisted games ordered by title.
func (h *WishlistHandler) HandleListWishlist(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	games, err := h.wishlistService.Games(userID)
	if err != nil {
		log.Printf("Error listing wishlist for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not fetch wishlist",
		})
	}

	return c.JSON(fiber.Map{
		"count": len(games),
		"games": games,
	})
}
