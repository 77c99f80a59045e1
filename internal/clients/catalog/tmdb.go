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

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"

	// Poster size tiers served by TMDB's image CDN.
	tmdbPosterSizeThumb  = "w92"
	tmdbPosterSizeMedium = "w342"
)

// tmdbAuth is the authentication mode for a TMDB client, resolved once at
// construction. TMDB accepts either a v4 bearer token or a v3 api_key query
// parameter; the token wins when both are configured.
type tmdbAuth interface {
	apply(req *http.Request, params url.Values) url.Values
}

type tmdbTokenAuth struct{ token string }

func (a tmdbTokenAuth) apply(req *http.Request, params url.Values) url.Values {
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	return params
}

type tmdbKeyAuth struct{ key string }

func (a tmdbKeyAuth) apply(_ *http.Request, params url.Values) url.Values {
	params.Set("api_key", a.key)
	return params
}

type TMDBClient struct {
	auth       tmdbAuth
	language   string
	baseURL    string
	imageBase  string
	posterSize string
	httpClient *http.Client
}

func NewTMDBClient(apiKey, apiToken, language, posterSize string) *TMDBClient {
	var auth tmdbAuth
	switch {
	case apiToken != "":
		auth = tmdbTokenAuth{token: apiToken}
	case apiKey != "":
		auth = tmdbKeyAuth{key: apiKey}
	}
	if posterSize == "" {
		posterSize = tmdbPosterSizeMedium
	}
	return &TMDBClient{
		auth:       auth,
		language:   language,
		baseURL:    tmdbBaseURL,
		imageBase:  tmdbImageBaseURL,
		posterSize: posterSize,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBaseURL points the client at a different API host. Used by tests and
// the fake catalog tool.
func (t *TMDBClient) SetBaseURL(api, images string) {
	t.baseURL = api
	if images != "" {
		t.imageBase = images
	}
}

func (t *TMDBClient) MediaType() models.MediaType {
	return models.MediaTypeMovie
}

func (t *TMDBClient) sendRequest(ctx context.Context, path string, params url.Values, target interface{}) error {
	if t.auth == nil {
		return &ConfigError{Provider: "TMDB", Missing: "api key or token"}
	}
	if t.language != "" {
		params.Set("language", t.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.URL.RawQuery = t.auth.apply(req, params).Encode()

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach TMDB: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Provider: "TMDB", URL: req.URL.Path, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}

// tmdbMovie is the shape TMDB returns for one search hit.
type tmdbMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

// MovieDetails is the richer record fetched by id, with credits requested
// inline via append_to_response so no extra round trip is needed.
type MovieDetails struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	ReleaseDate string      `json:"release_date"`
	Overview    string      `json:"overview"`
	PosterPath  string      `json:"poster_path"`
	VoteAverage float64     `json:"vote_average"`
	Genres      []TMDBGenre `json:"genres"`
	Credits     TMDBCredits `json:"credits"`
}

type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type TMDBCredits struct {
	Crew []TMDBCrewMember `json:"crew"`
}

type TMDBCrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

func (t *TMDBClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var searchResp struct {
		Results []tmdbMovie `json:"results"`
	}
	if err := t.sendRequest(ctx, "/search/movie", params, &searchResp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(searchResp.Results))
	for _, m := range searchResp.Results {
		thumb := ""
		if m.PosterPath != "" {
			thumb = joinImageURL(t.imageBase, tmdbPosterSizeThumb, m.PosterPath)
		}
		results = append(results, SearchResult{
			ID:       strconv.Itoa(m.ID),
			Title:    m.Title,
			Year:     yearOf(m.ReleaseDate),
			ThumbURL: thumb,
			Stars:    m.VoteAverage / 2,
		})
	}
	return results, nil
}

// FetchMovie retrieves the full detail record for one movie.
func (t *TMDBClient) FetchMovie(ctx context.Context, id string) (MovieDetails, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,videos,images")

	var details MovieDetails
	if err := t.sendRequest(ctx, "/movie/"+url.PathEscape(id), params, &details); err != nil {
		return MovieDetails{}, err
	}
	return details, nil
}

func (t *TMDBClient) Lookup(ctx context.Context, id string) (models.Prefill, error) {
	details, err := t.FetchMovie(ctx, id)
	if err != nil {
		return models.Prefill{}, err
	}
	return MapMovie(details, t.imageBase, t.posterSize), nil
}
