package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"gameseerr/internal/handlers"
	"gameseerr/internal/middleware"
	"gameseerr/internal/models"
	"gameseerr/internal/repositories"
	"gameseerr/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services wired the same way the server binary wires them.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory database")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	err = db.AutoMigrate(&models.User{}, &models.Game{}, &models.Review{}, &models.WishlistEntry{})
	require.NoError(t, err, "failed to auto-migrate database")

	userRepo := repositories.NewGORMUserRepository(db)
	gameRepo := repositories.NewGORMGameRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	wishlistRepo := repositories.NewGORMWishlistRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	ratingService := services.NewRatingService(reviewRepo, gameRepo)
	reviewService := services.NewReviewService(reviewRepo, ratingService, nil) // nil for RabbitMQ client
	wishlistService := services.NewWishlistService(wishlistRepo)
	catalogService := services.NewCatalogService(gameRepo, reviewRepo, wishlistRepo)

	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	profileHandler := handlers.NewProfileHandler(authService, reviewService, wishlistService, t.TempDir())

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	// Public routes go first: AuthRequired is a prefix middleware, so
	// anything mounted after it would be answered by it for anonymous
	// callers.
	authHandler.RegisterRoutes(apiV1)
	public := apiV1.Group("", middleware.OptionalAuth(authService))
	catalogHandler.RegisterRoutes(public)
	wishlistHandler.RegisterPublicRoutes(public)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	reviewHandler.RegisterRoutes(protected)
	profileHandler.RegisterRoutes(protected)
	wishlistHandler.RegisterRoutes(protected)

	seedGamesForTest(t, db)
	return app
}

// seedGamesForTest populates the catalog for tests.
func seedGamesForTest(t *testing.T, db *gorm.DB) {
	t.Helper()
	games := []models.Game{
		{Title: "Elden Ring", Genre: "Action, RPG", Platform: "PC", ReleaseYear: 2022, AverageRating: 95, Description: "A vast fantasy realm"},
		{Title: "Stardew Valley", Genre: "Simulation, RPG", Platform: "PC", ReleaseYear: 2016, AverageRating: 89},
		{Title: "Hollow Knight", Genre: "Metroidvania", Platform: "PC, Switch", ReleaseYear: 2017, AverageRating: 90},
	}
	for i := range games {
		require.NoError(t, db.Create(&games[i]).Error)
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return resp, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"login":    username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User registered successfully", body["message"])

	// Duplicate registration conflicts.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login works with the username and with the email.
	for _, login := range []string{"testuser", "test@example.com"} {
		resp, body = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"login":    login,
			"password": "password123",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["token"])
	}

	// Wrong password is rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"login":    "testuser",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCatalogBrowsingIsPublic(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/games", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["count"])

	// Search narrows the listing.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/games?q=elden", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])

	// Genre tags are split out of the comma-separated fields.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/genres", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	genres, ok := body["genres"].([]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []interface{}{"Action", "Metroidvania", "RPG", "Simulation"}, genres)
}

func TestReviewLifecycleUpdatesRating(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "reviewer")

	// Submitting without a token is rejected.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/games/1/reviews", "", map[string]interface{}{
		"rating": 8, "body": "Nice",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/games/1/reviews", token, map[string]interface{}{
		"rating": 8, "body": "Masterpiece",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// The game's aggregate rating reflects the single review (8 -> 80).
	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/games/1", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	game := body["game"].(map[string]interface{})
	assert.Equal(t, float64(80), game["average_rating"])
	reviews := body["reviews"].([]interface{})
	require.Len(t, reviews, 1)
	assert.Equal(t, "reviewer", reviews[0].(map[string]interface{})["username"])

	// Submitting again replaces the review instead of adding a second one.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/games/1/reviews", token, map[string]interface{}{
		"rating": 6, "body": "On reflection, flawed",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/games/1", "", nil)
	game = body["game"].(map[string]interface{})
	assert.Equal(t, float64(60), game["average_rating"])
	reviews = body["reviews"].([]interface{})
	require.Len(t, reviews, 1)

	// Deleting resets the aggregate to zero.
	reviewID := int(reviews[0].(map[string]interface{})["id"].(float64))
	resp, _ = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/v1/reviews/%d?game_id=1", reviewID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/games/1", "", nil)
	game = body["game"].(map[string]interface{})
	assert.Equal(t, float64(0), game["average_rating"])
}

func TestReviewValidationRejected(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "critic")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/games/1/reviews", token, map[string]interface{}{
		"rating": 11, "body": "Too enthusiastic",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/games/1/reviews", token, map[string]interface{}{
		"rating": 5, "body": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWishlistToggle(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "collector")

	// Anonymous toggles are told to log in.
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/wishlist/toggle", "", map[string]interface{}{
		"game_id": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "login", body["status"])

	// Missing game ID is an error.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/wishlist/toggle", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "error", body["status"])

	// First toggle adds, second removes.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/wishlist/toggle", token, map[string]interface{}{
		"game_id": 1,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "added", body["status"])

	// The catalog flags the wished game for the signed-in caller only.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/games/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["in_wishlist"])
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/games/1", "", nil)
	assert.Equal(t, false, body["in_wishlist"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/wishlist", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/wishlist/toggle", token, map[string]interface{}{
		"game_id": 1,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "removed", body["status"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/wishlist", token, nil)
	assert.Equal(t, float64(0), body["count"])
}

func TestWishlistTabFiltersCatalog(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "lister")

	for _, gameID := range []int{1, 3} {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/wishlist/toggle", token, map[string]interface{}{
			"game_id": gameID,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/games?tab=wish", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	// Without a token the wish tab degrades to the full listing.
	resp, body = doJSON(t, app, http.MethodGet, "/api/v1/games?tab=wish", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["count"])
}

func TestProfileReadAndUpdate(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "profileuser")

	resp, _ := doJSON(t, app, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "profileuser", user["username"])
	// The password hash never leaves the server.
	assert.Empty(t, user["password"])

	resp, body = doJSON(t, app, http.MethodPut, "/api/v1/profile", token, map[string]string{
		"username": "renameduser",
		"email":    "renamed@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	user = body["user"].(map[string]interface{})
	assert.Equal(t, "renameduser", user["username"])

	// Password change requires a matching confirmation.
	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/profile", token, map[string]string{
		"username":         "renameduser",
		"email":            "renamed@example.com",
		"password":         "newpassword",
		"confirm_password": "different",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPut, "/api/v1/profile", token, map[string]string{
		"username":         "renameduser",
		"email":            "renamed@example.com",
		"password":         "newpassword",
		"confirm_password": "newpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The old password no longer works, the new one does.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"login": "renameduser", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"login": "renameduser", "password": "newpassword",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProfileUpdateConflicts(t *testing.T) {
	app := setupApp(t)
	registerAndLogin(t, app, "existing")
	token := registerAndLogin(t, app, "renamer")

	resp, _ := doJSON(t, app, http.MethodPut, "/api/v1/profile", token, map[string]string{
		"username": "existing",
		"email":    "renamer@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
