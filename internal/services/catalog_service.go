package services

import (
	"sort"
	"strings"

	"gameseerr/internal/models"
	"gameseerr/internal/repositories"
)

const relatedGamesLimit = 6

// GameDetail is everything the game page needs in one shot.
type GameDetail struct {
	Game       models.Game          `json:"game"`
	Reviews    []models.GameReview  `json:"reviews"`
	Related    []models.GameSummary `json:"related"`
	InWishlist bool                 `json:"in_wishlist"`
}

// CatalogService answers catalog listing and detail requests.
type CatalogService struct {
	gameRepo     repositories.GameRepository
	reviewRepo   repositories.ReviewRepository
	wishlistRepo repositories.WishlistRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(gameRepo repositories.GameRepository, reviewRepo repositories.ReviewRepository, wishlistRepo repositories.WishlistRepository) *CatalogService {
	return &CatalogService{
		gameRepo:     gameRepo,
		reviewRepo:   reviewRepo,
		wishlistRepo: wishlistRepo,
	}
}

// Browse runs the composed catalog query and, for authenticated callers,
// marks which results are already wished.
func (s *CatalogService) Browse(filter repositories.CatalogFilter) ([]models.GameSummary, error) {
	games, err := s.gameRepo.Search(filter)
	if err != nil {
		return nil, err
	}

	if filter.UserID != "" && len(games) > 0 {
		ids, err := s.wishlistRepo.GameIDs(filter.UserID)
		if err != nil {
			return nil, err
		}
		wished := make(map[uint]bool, len(ids))
		for _, id := range ids {
			wished[id] = true
		}
		for i := range games {
			games[i].InWishlist = wished[games[i].ID]
		}
	}
	return games, nil
}

// GameDetail loads a game with its reviews, related games sharing the
// genre, and the caller's wishlist flag. userID may be empty.
func (s *CatalogService) GameDetail(gameID uint, userID string) (*GameDetail, error) {
	game, err := s.gameRepo.GetByID(gameID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByGame(gameID)
	if err != nil {
		return nil, err
	}

	related, err := s.gameRepo.Related(gameID, game.Genre, relatedGamesLimit)
	if err != nil {
		return nil, err
	}

	detail := &GameDetail{Game: *game, Reviews: reviews, Related: related}
	if userID != "" {
		inWishlist, err := s.wishlistRepo.Contains(userID, gameID)
		if err != nil {
			return nil, err
		}
		detail.InWishlist = inWishlist
	}
	return detail, nil
}

// Genres splits the comma-separated genre fields into individual tags,
// de-duplicated and sorted case-insensitively, for the filter dropdown.
func (s *CatalogService) Genres() ([]string, error) {
	fields, err := s.gameRepo.DistinctGenreFields()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var genres []string
	for _, field := range fields {
		for _, tag := range strings.Split(field, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			genres = append(genres, tag)
		}
	}
	sort.Slice(genres, func(i, j int) bool {
		return strings.ToLower(genres[i]) < strings.ToLower(genres[j])
	})
	return genres, nil
}
