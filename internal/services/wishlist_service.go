package services

import (
	"errors"
	"fmt"

	"gameseerr/internal/models"
	"gameseerr/internal/repositories"
)

// Toggle outcomes reported to the client.
const (
	WishlistAdded   = "added"
	WishlistRemoved = "removed"
)

// ErrInvalidGame is returned for a toggle without a usable game ID.
var ErrInvalidGame = errors.New("invalid game")

// WishlistService maintains the per-user wishlist set.
type WishlistService struct {
	wishlistRepo repositories.WishlistRepository
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(wishlistRepo repositories.WishlistRepository) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
	}
}

// Toggle flips the membership of gameID in the user's wishlist and reports
// which way it went. The remove-first order makes concurrent double-clicks
// resolve at the storage constraint: whichever call loses the insert race
// sees a duplicate key and still reports "added".
func (s *WishlistService) Toggle(userID string, gameID uint) (string, error) {
	if gameID == 0 {
		return "", fmt.Errorf("%w: missing game ID", ErrInvalidGame)
	}

	removed, err := s.wishlistRepo.Remove(userID, gameID)
	if err != nil {
		return "", err
	}
	if removed {
		return WishlistRemoved, nil
	}

	if err := s.wishlistRepo.Add(userID, gameID); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEntry) {
			return WishlistAdded, nil
		}
		return "", err
	}
	return WishlistAdded, nil
}

// Games returns the user's wishlist games ordered by title.
func (s *WishlistService) Games(userID string) ([]models.GameSummary, error) {
	return s.wishlistRepo.Games(userID)
}
