package catalog

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dbobbgit/room-of-requirement/internal/models"
)

// Mapping functions translate a provider's detail record into a form
// prefill. They are pure and never fail: every missing field degrades to a
// documented default instead of an error.

// MapMovie normalizes a TMDB movie record. The poster path is joined with
// the image CDN base and the configured size tier; an empty path leaves
// ImageURL unset.
func MapMovie(d MovieDetails, imageBase, posterSize string) models.Prefill {
	p := models.Prefill{
		Type:       models.MediaTypeMovie,
		ProviderID: strconv.Itoa(d.ID),
		Title:      models.StringPtr(d.Title),
		Year:       models.IntPtr(yearOf(d.ReleaseDate)),
		Genre:      models.StringPtr(firstGenre(tmdbGenreNames(d.Genres))),
		Director:   models.StringPtr(directorOf(d.Credits)),
		Notes:      models.StringPtr(d.Overview),
		// TMDB vote averages are already on the internal 0-10 scale.
		Rating: models.IntPtr(int(math.Round(d.VoteAverage))),
	}
	if d.PosterPath != "" {
		p.ImageURL = models.StringPtr(joinImageURL(imageBase, posterSize, d.PosterPath))
	}
	return p
}

// MapGame normalizes a RAWG game record. The rating is the metacritic
// score when present; a zero score is treated as absent and falls back to
// the 0-5 user rating scaled onto the internal 0-10 scale.
func MapGame(d GameDetails) models.Prefill {
	rating := d.Metacritic
	if rating == 0 {
		rating = int(math.Round(d.Rating * 2))
	}
	p := models.Prefill{
		Type:       models.MediaTypeGame,
		ProviderID: strconv.Itoa(d.ID),
		Title:      models.StringPtr(d.Name),
		Year:       models.IntPtr(yearOf(d.Released)),
		Genre:      models.StringPtr(firstGenre(rawgGenreNames(d.Genres))),
		Platform:   models.StringPtr(firstPlatform(d.Platforms)),
		Notes:      models.StringPtr(d.DescriptionRaw),
		Rating:     models.IntPtr(rating),
	}
	if d.BackgroundImage != "" {
		p.ImageURL = models.StringPtr(d.BackgroundImage)
	}
	return p
}

// yearOf extracts the four-digit year from a YYYY-MM-DD release date.
// Missing or malformed dates map to 0.
func yearOf(releaseDate string) int {
	if releaseDate == "" {
		return 0
	}
	if t, err := time.Parse("2006-01-02", releaseDate); err == nil {
		return t.Year()
	}
	return 0
}

func firstGenre(names []string) string {
	if len(names) == 0 {
		return "Unknown"
	}
	return names[0]
}

func tmdbGenreNames(genres []TMDBGenre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

func rawgGenreNames(genres []RAWGGenre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names
}

// directorOf picks the first crew member whose job is "director",
// case-insensitively. An empty or absent crew list maps to "Unknown".
func directorOf(credits TMDBCredits) string {
	for _, member := range credits.Crew {
		if strings.EqualFold(member.Job, "Director") {
			return member.Name
		}
	}
	return "Unknown"
}

func firstPlatform(platforms []RAWGPlatformEntry) string {
	if len(platforms) == 0 {
		return "Unknown"
	}
	return platforms[0].Platform.Name
}

func joinImageURL(base, size, path string) string {
	return base + "/" + size + path
}
