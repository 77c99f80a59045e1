package models

import (
	"fmt"
	"math"
	"time"
)

type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeGame  MediaType = "game"
	MediaTypeBook  MediaType = "book"
	MediaTypeMusic MediaType = "music"
)

// MediaTypes lists every supported media type. Switches over MediaType
// elsewhere in the codebase must cover all of these.
var MediaTypes = []MediaType{MediaTypeMovie, MediaTypeGame, MediaTypeBook, MediaTypeMusic}

func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(s) {
	case MediaTypeMovie, MediaTypeGame, MediaTypeBook, MediaTypeMusic:
		return MediaType(s), nil
	}
	return "", fmt.Errorf("unsupported media type %q", s)
}

// User is a member of the household sharing the collection. Supplied by
// configuration; there is no real account system behind it.
type User struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Initial string `json:"initial" yaml:"initial"`
	Avatar  string `json:"avatar,omitempty" yaml:"avatar"`
}

// MediaRecord is one finalized collection item. Fields below the base block
// belong to a single media type and are only set when Type matches.
type MediaRecord struct {
	ID         string    `json:"id"`
	Type       MediaType `json:"type"`
	Title      string    `json:"title"`
	Year       int       `json:"year"`
	Genre      string    `json:"genre"`
	Rating     int       `json:"rating"` // 0-10, displayed as 0-5 stars
	Notes      string    `json:"notes,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	DateAdded  time.Time `json:"date_added"`
	AddedBy    User      `json:"added_by"`
	SharedWith []User    `json:"shared_with,omitempty"`

	Director string `json:"director,omitempty"` // movie
	Platform string `json:"platform,omitempty"` // game
	Author   string `json:"author,omitempty"`   // book
	Pages    int    `json:"pages,omitempty"`    // book
	Artist   string `json:"artist,omitempty"`   // music
	Tracks   int    `json:"tracks,omitempty"`   // music
}

// Stars returns the display rating on the 0-5 star scale.
func (m *MediaRecord) Stars() float64 {
	return RatingToStars(m.Rating)
}

// StarsToRating converts a 0-5 star value (half-step precision) to the
// internal 0-10 scale.
func StarsToRating(stars float64) (int, error) {
	if stars < 0 || stars > 5 {
		return 0, fmt.Errorf("star rating %.1f out of range [0, 5]", stars)
	}
	doubled := stars * 2
	if doubled != math.Trunc(doubled) {
		return 0, fmt.Errorf("star rating %.2f not a half-step value", stars)
	}
	return int(doubled), nil
}

// RatingToStars converts an internal 0-10 rating to the 0-5 star scale.
func RatingToStars(rating int) float64 {
	return float64(rating) / 2
}
