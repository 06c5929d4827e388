package handlers

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"gameseerr/internal/middleware"
	"gameseerr/internal/repositories"
	"gameseerr/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var allowedAvatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ProfileHandler handles the authenticated user's profile endpoints.
type ProfileHandler struct {
	authService     *services.AuthService
	reviewService   *services.ReviewService
	wishlistService *services.WishlistService
	avatarDir       string
	validate        *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler. Avatars uploaded through
// it are written under avatarDir.
func NewProfileHandler(authService *services.AuthService, reviewService *services.ReviewService, wishlistService *services.WishlistService, avatarDir string) *ProfileHandler {
	return &ProfileHandler{
		authService:     authService,
		reviewService:   reviewService,
		wishlistService: wishlistService,
		avatarDir:       avatarDir,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the profile routes; all of them require auth.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/profile", h.HandleGetProfile)
	router.Put("/profile", h.HandleUpdateProfile)
	router.Post("/profile/avatar", h.HandleUploadAvatar)
}

// HandleGetProfile returns the caller's account, their reviews and their
// wishlist in one payload.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error fetching profile for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not fetch profile",
		})
	}

	reviews, err := h.reviewService.ListForUser(userID)
	if err != nil {
		log.Printf("Error fetching reviews for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not fetch profile",
		})
	}

	wishlist, err := h.wishlistService.Games(userID)
	if err != nil {
		log.Printf("Error fetching wishlist for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not fetch profile",
		})
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"user":     user,
		"reviews":  reviews,
		"wishlist": wishlist,
	})
}

// UpdateProfileRequest is the body of a profile update. Password is
// optional; when set it must be confirmed.
type UpdateProfileRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=32"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"omitempty,min=6"`
	ConfirmPassword string `json:"confirm_password"`
}

// HandleUpdateProfile changes the caller's username, email and optionally
// password.
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
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

	if req.Password != "" && req.Password != req.ConfirmPassword {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Passwords do not match",
		})
	}

	userID := middleware.UserID(c)
	user, err := h.authService.UpdateProfile(userID, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUsername) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid username",
			})
		}
		if errors.Is(err, repositories.ErrDuplicateEntry) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Username or email already in use",
			})
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error updating profile for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update profile",
		})
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"user":    user,
	})
}

// HandleUploadAvatar stores an uploaded image and points the caller's
// avatar_url at it.
func (h *ProfileHandler) HandleUploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing avatar file",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAvatarExts[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unsupported image type",
		})
	}

	userID := middleware.UserID(c)
	name := fmt.Sprintf("user-%s-%d%s", userID, time.Now().Unix(), ext)
	dest := filepath.Join(h.avatarDir, name)
	if err := c.SaveFile(file, dest); err != nil {
		log.Printf("Error saving avatar for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not save avatar",
		})
	}

	avatarURL := "/avatars/" + name
	if err := h.authService.UpdateAvatar(userID, avatarURL); err != nil {
		log.Printf("Error updating avatar for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update avatar",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "Avatar updated",
		"avatar_url": avatarURL,
	})
}
