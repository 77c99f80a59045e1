package catalog

import (
	"context"

	"github.com/dbobbgit/room-of-requirement/internal/models"
)

// Provider is the interface for one external catalog service.
type Provider interface {
	// MediaType reports which kind of collection item this provider covers.
	MediaType() models.MediaType
	// Search returns candidate entries for a free-text query.
	Search(ctx context.Context, query string) ([]SearchResult, error)
	// Lookup fetches the full detail record for one entry and maps it to a
	// form prefill.
	Lookup(ctx context.Context, id string) (models.Prefill, error)
}

// SearchResult is a standardized struct for one search hit, shown to the
// user for selection. IDs are strings to accommodate different providers.
type SearchResult struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Year     int     `json:"year,omitempty"`
	ThumbURL string  `json:"thumb_url,omitempty"`
	Stars    float64 `json:"stars,omitempty"` // 0-5 display scale
}
