package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dbobbgit/room-of-requirement/internal/models"
)

const rawgBaseURL = "https://api.rawg.io/api"

// RAWGClient talks to the RAWG video games database. RAWG only supports
// query-string key auth; a missing key is a hard configuration error.
type RAWGClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewRAWGClient(apiKey string) *RAWGClient {
	return &RAWGClient{
		apiKey:  apiKey,
		baseURL: rawgBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (r *RAWGClient) SetBaseURL(api string) {
	r.baseURL = api
}

func (r *RAWGClient) MediaType() models.MediaType {
	return models.MediaTypeGame
}

// GameDetails is RAWG's game record. The search endpoint returns the same
// shape with fewer fields populated, so one struct covers both.
type GameDetails struct {
	ID              int                 `json:"id"`
	Name            string              `json:"name"`
	Released        string              `json:"released"`
	BackgroundImage string              `json:"background_image"`
	DescriptionRaw  string              `json:"description_raw"`
	Metacritic      int                 `json:"metacritic"`
	Rating          float64             `json:"rating"`
	Genres          []RAWGGenre         `json:"genres"`
	Platforms       []RAWGPlatformEntry `json:"platforms"`
}

type RAWGGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type RAWGPlatformEntry struct {
	Platform RAWGPlatform `json:"platform"`
}

type RAWGPlatform struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (r *RAWGClient) sendRequest(ctx context.Context, path string, params url.Values, target interface{}) error {
	if r.apiKey == "" {
		return &ConfigError{Provider: "RAWG", Missing: "api key"}
	}
	params.Set("key", r.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.URL.RawQuery = params.Encode()

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach RAWG: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Provider: "RAWG", URL: req.URL.Path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode RAWG response: %w", err)
	}
	return nil
}

func (r *RAWGClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("page_size", "10")

	var searchResp struct {
		Results []GameDetails `json:"results"`
	}
	if err := r.sendRequest(ctx, "/games", params, &searchResp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(searchResp.Results))
	for _, g := range searchResp.Results {
		results = append(results, SearchResult{
			ID:       strconv.Itoa(g.ID),
			Title:    g.Name,
			Year:     yearOf(g.Released),
			ThumbURL: g.BackgroundImage,
			Stars:    g.Rating, // RAWG user ratings are already 0-5
		})
	}
	return results, nil
}

// FetchGame retrieves the full detail record for one game.
func (r *RAWGClient) FetchGame(ctx context.Context, id string) (GameDetails, error) {
	var details GameDetails
	if err := r.sendRequest(ctx, "/games/"+url.PathEscape(id), url.Values{}, &details); err != nil {
		return GameDetails{}, err
	}
	return details, nil
}

func (r *RAWGClient) Lookup(ctx context.Context, id string) (models.Prefill, error) {
	details, err := r.FetchGame(ctx, id)
	if err != nil {
		return models.Prefill{}, err
	}
	return MapGame(details), nil
}
