package repositories

import (
	"gameseerr/internal/models"
)

// CatalogFilter describes one catalog listing request. Empty fields mean
// "no filter on this axis"; UserID is only consulted for the wishlist view.
type CatalogFilter struct {
	Search string
	Genre  string
	View   string
	UserID string
}

// GameRepository defines the interface for game data access.
type GameRepository interface {
	Search(filter CatalogFilter) ([]models.GameSummary, error)
	GetByID(id uint) (*models.Game, error)
	Related(gameID uint, genre string, limit int) ([]models.GameSummary, error)
	DistinctGenreFields() ([]string, error)
	GetBySteamAppID(appID int64) (*models.Game, error)
	UpsertBySteamAppID(game *models.Game) error
	ListSteamAppIDs() ([]int64, error)
	UpdateAverageRating(id uint, rating int) error
	UpdateImageURL(id uint, imageURL string) error
}
