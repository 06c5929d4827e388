package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"gameseerr/internal/covers"
	"gameseerr/internal/models"
	"gameseerr/internal/repositories"
	"gameseerr/internal/steam"
	"gameseerr/pkg/rabbitmq"
)

// Placeholder rating range for rows where neither Steam nor the local
// catalog has a positive rating, so the UI never shows an empty bar.
const (
	placeholderRatingMin = 70
	placeholderRatingMax = 90
)

// MetadataSource is the slice of the Steam client the importer needs;
// tests substitute a stub.
type MetadataSource interface {
	AppDetails(appID int64) (*steam.AppDetails, error)
	FetchCover(appID int64) ([]byte, error)
}

// ImportItem is one unit of import work: a Steam app ID plus fallback
// metadata used when neither Steam nor the local catalog has a value.
// Explicitly requested IDs carry a zero-valued fallback.
type ImportItem struct {
	AppID    int64
	Fallback models.Game
}

// ImportReport aggregates one batch run. Succeeded+Skipped+Failed always
// equals the number of work items.
type ImportReport struct {
	Succeeded int
	Skipped   int
	Failed    int
	Lines     []string
}

// Total returns the number of processed work items.
func (r *ImportReport) Total() int {
	return r.Succeeded + r.Skipped + r.Failed
}

func (r *ImportReport) logf(format string, args ...interface{}) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

// ImportService reconciles local catalog rows against Steam metadata.
// It runs out-of-band (cmd/import); one bad app ID never aborts a batch.
type ImportService struct {
	gameRepo repositories.GameRepository
	source   MetadataSource
	mqClient *rabbitmq.Client
	coverDir string
	rng      *rand.Rand
}

// NewImportService creates a new ImportService.
func NewImportService(gameRepo repositories.GameRepository, source MetadataSource, mqClient *rabbitmq.Client, coverDir string) *ImportService {
	return &ImportService{
		gameRepo: gameRepo,
		source:   source,
		mqClient: mqClient,
		coverDir: coverDir,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run imports the given app IDs. With no explicit IDs it falls back to
// every Steam app ID already in the catalog, and on an empty catalog to
// the built-in seed list.
func (s *ImportService) Run(appIDs []int64) (*ImportReport, error) {
	items, err := s.workList(appIDs)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for _, item := range items {
		s.importOne(item, report)
	}
	return report, nil
}

func (s *ImportService) workList(appIDs []int64) ([]ImportItem, error) {
	if len(appIDs) > 0 {
		items := make([]ImportItem, 0, len(appIDs))
		for _, id := range appIDs {
			items = append(items, ImportItem{AppID: id})
		}
		return items, nil
	}

	known, err := s.gameRepo.ListSteamAppIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work list: %w", err)
	}
	if len(known) > 0 {
		items := make([]ImportItem, 0, len(known))
		for _, id := range known {
			items = append(items, ImportItem{AppID: id})
		}
		return items, nil
	}

	return seedCatalog(), nil
}

// importOne processes a single app ID. The metadata upsert is
// all-or-nothing; the cover download afterwards is best-effort and its
// failure only produces a warning line.
func (s *ImportService) importOne(item ImportItem, report *ImportReport) {
	meta, err := s.source.AppDetails(item.AppID)
	if err != nil {
		// Fetch failures and missing titles are skips, not hard failures:
		// Steam being unreachable for one ID must not poison the batch.
		report.Skipped++
		report.logf("skip %d: %v", item.AppID, err)
		return
	}

	local, err := s.gameRepo.GetBySteamAppID(item.AppID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		report.Failed++
		report.logf("fail %d: %v", item.AppID, err)
		return
	}

	game := s.merge(item, meta, local)
	if err := s.gameRepo.UpsertBySteamAppID(&game); err != nil {
		report.Failed++
		report.logf("fail %d (%s): %v", item.AppID, game.Title, err)
		return
	}
	report.Succeeded++

	line := fmt.Sprintf("ok %d: %s", item.AppID, game.Title)
	if coverPath, err := s.saveCover(item.AppID, game.Title); err != nil {
		line += fmt.Sprintf(" (cover failed: %v)", err)
	} else {
		line += " -> " + coverPath
	}
	report.logf("%s", line)

	s.publishImported(item.AppID, game.Title)
}

// merge applies the field precedence: Steam value when present, else the
// existing local value, else the seed fallback, else an empty default.
// Missing Steam fields are nil pointers, never sentinel zeros, so a
// genuine 0 can't be mistaken for absence.
func (s *ImportService) merge(item ImportItem, meta *steam.AppDetails, local *models.Game) models.Game {
	fb := item.Fallback
	appID := item.AppID
	game := models.Game{Title: meta.Name, SteamAppID: &appID}

	game.Description = fb.Description
	if local != nil && local.Description != "" {
		game.Description = local.Description
	}
	if meta.Description != nil {
		game.Description = *meta.Description
	}

	game.ReleaseYear = fb.ReleaseYear
	if local != nil && local.ReleaseYear > 0 {
		game.ReleaseYear = local.ReleaseYear
	}
	if meta.ReleaseYear != nil {
		game.ReleaseYear = *meta.ReleaseYear
	}

	game.Genre = fb.Genre
	if local != nil && local.Genre != "" {
		game.Genre = local.Genre
	}
	if len(meta.Genres) > 0 {
		game.Genre = strings.Join(meta.Genres, ", ")
	}

	// Platforms are a union: Steam only knows PC/Mac/Linux, the local or
	// fallback string carries the consoles.
	localPlatform := fb.Platform
	if local != nil && local.Platform != "" {
		localPlatform = local.Platform
	}
	game.Platform = mergePlatforms(meta.Platforms, localPlatform)

	game.AverageRating = s.mergeRating(meta, local, fb)
	return game
}

// mergeRating prefers a positive Steam Metacritic score, then a positive
// existing local rating, then a positive fallback rating, and finally a
// placeholder so a brand-new row is never unrated.
func (s *ImportService) mergeRating(meta *steam.AppDetails, local *models.Game, fb models.Game) int {
	if meta.MetacriticScore != nil && *meta.MetacriticScore > 0 {
		return *meta.MetacriticScore
	}
	if local != nil && local.AverageRating > 0 {
		return local.AverageRating
	}
	if fb.AverageRating > 0 {
		return fb.AverageRating
	}
	return placeholderRatingMin + s.rng.Intn(placeholderRatingMax-placeholderRatingMin+1)
}

// mergePlatforms unions the Steam platform list with a comma-separated
// local string, de-duplicated, first occurrence order preserved.
func mergePlatforms(steamPlatforms []string, localPlatform string) string {
	seen := make(map[string]bool)
	var merged []string
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		merged = append(merged, p)
	}
	for _, p := range steamPlatforms {
		add(p)
	}
	for _, p := range strings.Split(localPlatform, ",") {
		add(p)
	}
	return strings.Join(merged, ", ")
}

func (s *ImportService) saveCover(appID int64, title string) (string, error) {
	data, err := s.source.FetchCover(appID)
	if err != nil {
		return "", err
	}
	path, err := covers.Save(s.coverDir, title, data)
	if err != nil {
		return "", err
	}

	row, err := s.gameRepo.GetBySteamAppID(appID)
	if err != nil {
		return "", err
	}
	if err := s.gameRepo.UpdateImageURL(row.ID, path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *ImportService) publishImported(appID int64, title string) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishCatalogEvent("game.imported", map[string]interface{}{
		"steam_app_id": appID,
		"title":        title,
	})
	if err != nil {
		log.Printf("Warning: failed to publish game.imported event for %d: %v", appID, err)
	}
}
