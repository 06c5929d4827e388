package handlers

import (
	"errors"
	"log"
	"strconv"

	"gameseerr/internal/middleware"
	"gameseerr/internal/repositories"
	"gameseerr/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for browsing the game catalog.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app. The
// routes are public; an attached OptionalAuth middleware supplies the
// user ID for wishlist-aware responses.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/games", h.HandleListGames)
	router.Get("/games/:id", h.HandleGetGame)
	router.Get("/genres", h.HandleListGenres)
}

// HandleListGames returns the filtered, ordered catalog listing.
// Query params: q (search text), genre (tag filter), tab (view name).
// Malformed or missing parameters degrade to "no filter applied".
func (h *CatalogHandler) HandleListGames(c *fiber.Ctx) error {
	filter := repositories.CatalogFilter{
		Search: c.Query("q"),
		Genre:  c.Query("genre"),
		View:   c.Query("tab"),
		UserID: middleware.UserID(c),
	}

	games, err := h.catalogService.Browse(filter)
	if err != nil {
		log.Printf("Error browsing catalog: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve games",
		})
	}

	return c.JSON(fiber.Map{
		"count": len(games),
		"games": games,
	})
}

// HandleGetGame returns one game with reviews, related games and the
// caller's wishlist flag.
func (h *CatalogHandler) HandleGetGame(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid game ID",
		})
	}

	detail, err := h.catalogService.GameDetail(uint(id), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Game not found",
			})
		}
		log.Printf("Error loading game %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve game",
		})
	}

	return c.JSON(detail)
}

// HandleListGenres returns the distinct genre tags for the filter select.
func (h *CatalogHandler) HandleListGenres(c *fiber.Ctx) error {
	genres, err := h.catalogService.Genres()
	if err != nil {
		log.Printf("Error listing genres: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve genres",
		})
	}
	return c.JSON(fiber.Map{"genres": genres})
}
