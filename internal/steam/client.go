// Package steam talks to the Steam storefront API and CDN, the external
// metadata source for the catalog importer.
package steam

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"
)

const (
	// DefaultAPIURL is the storefront appdetails endpoint.
	DefaultAPIURL = "https://store.steampowered.com/api/appdetails"
	// DefaultCDNURL serves the 600x900 library covers.
	DefaultCDNURL = "https://cdn.cloudflare.steamstatic.com/steam/apps"

	requestTimeout = 10 * time.Second
)

// ErrNoMetadata means Steam answered but has no usable data for the app.
// The importer counts these as skips, not failures.
var ErrNoMetadata = errors.New("no metadata for app")

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// AppDetails holds the merged-relevant subset of a storefront response.
// Optional fields are pointers so "Steam did not say" is distinguishable
// from an empty or zero value.
type AppDetails struct {
	Name            string
	Description     *string
	ReleaseYear     *int
	Genres          []string
	Platforms       []string // PC/Mac/Linux only; consoles come from local data
	MetacriticScore *int
}

// Client fetches app metadata and cover images.
type Client struct {
	apiURL string
	cdnURL string
	http   *http.Client
}

// NewClient creates a Client. Empty URLs fall back to the public Steam
// endpoints; tests point both at an httptest server.
func NewClient(apiURL, cdnURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if cdnURL == "" {
		cdnURL = DefaultCDNURL
	}
	return &Client{
		apiURL: apiURL,
		cdnURL: cdnURL,
		http:   &http.Client{Timeout: requestTimeout},
	}
}

// appdetailsEnvelope mirrors the storefront response: a map keyed by the
// requested app ID.
type appdetailsEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Name             string `json:"name"`
		ShortDescription string `json:"short_description"`
		ReleaseDate      struct {
			Date string `json:"date"`
		} `json:"release_date"`
		Genres []struct {
			Description string `json:"description"`
		} `json:"genres"`
		Platforms struct {
			Windows bool `json:"windows"`
			Mac     bool `json:"mac"`
			Linux   bool `json:"linux"`
		} `json:"platforms"`
		Metacritic *struct {
			Score int `json:"score"`
		} `json:"metacritic"`
	} `json:"data"`
}

// AppDetails fetches and parses storefront metadata for one app.
// Returns ErrNoMetadata when Steam has nothing useful for the ID.
func (c *Client) AppDetails(appID int64) (*AppDetails, error) {
	url := fmt.Sprintf("%s?appids=%d&l=en&cc=gb", c.apiURL, appID)
	resp, err := c.http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("appdetails request for %d: %w", appID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("appdetails request for %d: unexpected status %d", appID, resp.StatusCode)
	}

	var envelope map[string]appdetailsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("appdetails response for %d: %w", appID, err)
	}

	entry, ok := envelope[strconv.FormatInt(appID, 10)]
	if !ok || !entry.Success || entry.Data.Name == "" {
		return nil, fmt.Errorf("app %d: %w", appID, ErrNoMetadata)
	}

	d := entry.Data
	details := &AppDetails{Name: d.Name}

	if d.ShortDescription != "" {
		details.Description = &d.ShortDescription
	}
	if m := yearRe.FindString(d.ReleaseDate.Date); m != "" {
		year, _ := strconv.Atoi(m)
		details.ReleaseYear = &year
	}
	for _, g := range d.Genres {
		if g.Description != "" {
			details.Genres = append(details.Genres, g.Description)
		}
	}
	if d.Platforms.Windows {
		details.Platforms = append(details.Platforms, "PC")
	}
	if d.Platforms.Mac {
		details.Platforms = append(details.Platforms, "Mac")
	}
	if d.Platforms.Linux {
		details.Platforms = append(details.Platforms, "Linux")
	}
	if d.Metacritic != nil {
		score := d.Metacritic.Score
		details.MetacriticScore = &score
	}
	return details, nil
}

// CoverURL builds the 600x900 library cover URL for an app.
func (c *Client) CoverURL(appID int64) string {
	return fmt.Sprintf("%s/%d/library_600x900.jpg", c.cdnURL, appID)
}

// FetchCover downloads the raw cover image bytes for an app.
func (c *Client) FetchCover(appID int64) ([]byte, error) {
	resp, err := c.http.Get(c.CoverURL(appID))
	if err != nil {
		return nil, fmt.Errorf("cover request for %d: %w", appID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover request for %d: unexpected status %d", appID, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cover download for %d: %w", appID, err)
	}
	return data, nil
}
