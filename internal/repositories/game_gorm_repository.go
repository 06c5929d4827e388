package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gameseerr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// viewOrder maps a catalog view/tab to its ORDER BY clause. The sort per
// view changes independently of the filters, so it lives in one table
// instead of being spread over conditionals.
var viewOrder = map[string]string{
	"home":     "id DESC",
	"trending": "id DESC",
	"top":      "average_rating DESC",
	"new":      "release_year DESC, id DESC",
	"upcoming": "release_year DESC, id DESC",
	"wish":     "id DESC",
}

const defaultOrder = "id DESC"

// summaryColumns is the projection used by every listing query.
const summaryColumns = "id, title, genre, platform, average_rating, image_url"

// GORMGameRepository is a GORM implementation of GameRepository.
type GORMGameRepository struct {
	db *gorm.DB
}

// NewGORMGameRepository creates a new instance of GORMGameRepository.
func NewGORMGameRepository(db *gorm.DB) *GORMGameRepository {
	return &GORMGameRepository{
		db: db,
	}
}

// Search runs one parameterized query composed from the filter's active
// axes. Every predicate is ANDed; absent axes simply add no clause.
func (r *GORMGameRepository) Search(filter CatalogFilter) ([]models.GameSummary, error) {
	q := r.db.Model(&models.Game{}).Select(summaryColumns)

	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where(
			"LOWER(title) LIKE ? OR LOWER(genre) LIKE ? OR LOWER(platform) LIKE ? OR LOWER(description) LIKE ?",
			like, like, like, like,
		)
	}
	if g := strings.TrimSpace(filter.Genre); g != "" {
		q = q.Where("LOWER(genre) LIKE ?", "%"+strings.ToLower(g)+"%")
	}
	if filter.View == "wish" && filter.UserID != "" {
		q = q.Where("id IN (?)",
			r.db.Model(&models.WishlistEntry{}).Select("game_id").Where("user_id = ?", filter.UserID))
	}

	order, ok := viewOrder[filter.View]
	if !ok {
		order = defaultOrder
	}

	var games []models.GameSummary
	if err := q.Order(order).Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to search games: %w", err)
	}
	return games, nil
}

// GetByID retrieves a single game by its ID from the database.
func (r *GORMGameRepository) GetByID(id uint) (*models.Game, error) {
	var game models.Game
	if err := r.db.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get game by ID %d: %w", id, err)
	}
	return &game, nil
}

// Related returns up to limit games sharing the genre, best rated first.
func (r *GORMGameRepository) Related(gameID uint, genre string, limit int) ([]models.GameSummary, error) {
	var games []models.GameSummary
	err := r.db.Model(&models.Game{}).
		Select(summaryColumns).
		Where("id <> ? AND genre LIKE ?", gameID, "%"+strings.TrimSpace(genre)+"%").
		Order("average_rating DESC").
		Limit(limit).
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get related games: %w", err)
	}
	return games, nil
}

// DistinctGenreFields returns the raw distinct genre column values; each
// value may still be a comma-separated tag list.
func (r *GORMGameRepository) DistinctGenreFields() ([]string, error) {
	var fields []string
	err := r.db.Model(&models.Game{}).
		Distinct("genre").
		Where("genre <> ''").
		Order("genre ASC").
		Pluck("genre", &fields).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return fields, nil
}

// GetBySteamAppID retrieves a game by its Steam app ID.
func (r *GORMGameRepository) GetBySteamAppID(appID int64) (*models.Game, error) {
	var game models.Game
	if err := r.db.First(&game, "steam_app_id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game with steam app ID %d: %w", appID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get game by steam app ID %d: %w", appID, err)
	}
	return &game, nil
}

// UpsertBySteamAppID inserts the game or, when a row with the same
// steam_app_id exists, updates its metadata in the same statement. The
// image URL is left to UpdateImageURL so a failed cover download never
// clobbers an existing one.
func (r *GORMGameRepository) UpsertBySteamAppID(game *models.Game) error {
	if game.SteamAppID == nil {
		return fmt.Errorf("cannot upsert game %q without a steam app ID", game.Title)
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "steam_app_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "genre", "platform", "release_year", "description", "average_rating", "updated_at",
		}),
	}).Create(game).Error
	if err != nil {
		return fmt.Errorf("failed to upsert game %q: %w", game.Title, err)
	}
	return nil
}

// ListSteamAppIDs returns every steam app ID currently in the catalog.
func (r *GORMGameRepository) ListSteamAppIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&models.Game{}).
		Where("steam_app_id IS NOT NULL").
		Order("id ASC").
		Pluck("steam_app_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list steam app IDs: %w", err)
	}
	return ids, nil
}

// UpdateAverageRating overwrites the derived rating for a game.
func (r *GORMGameRepository) UpdateAverageRating(id uint, rating int) error {
	err := r.db.Model(&models.Game{}).Where("id = ?", id).
		Update("average_rating", rating).Error
	if err != nil {
		return fmt.Errorf("failed to update rating for game %d: %w", id, err)
	}
	return nil
}

// UpdateImageURL stores the path of a freshly saved cover image.
func (r *GORMGameRepository) UpdateImageURL(id uint, imageURL string) error {
	err := r.db.Model(&models.Game{}).Where("id = ?", id).
		Update("image_url", imageURL).Error
	if err != nil {
		return fmt.Errorf("failed to update image for game %d: %w", id, err)
	}
	return nil
}
