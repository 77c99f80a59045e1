package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dbobbgit/room-of-requirement/internal/models"
)

// ValidationError reports a required field left blank at submit time. No
// record is emitted when validation fails.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field %q is blank", e.Field)
}

// Form collects the fields for one media type and produces a finalized
// MediaRecord on submit. Fields of other media types are never emitted.
type Form struct {
	mediaType models.MediaType

	Title    string
	Year     int
	Genre    string
	Rating   int // internal 0-10 scale
	Notes    string
	ImageURL string

	Director string
	Platform string
	Author   string
	Pages    int
	Artist   string
	Tracks   int

	sharedIDs []string
}

func New(mediaType models.MediaType) *Form {
	return &Form{mediaType: mediaType}
}

func (f *Form) MediaType() models.MediaType {
	return f.mediaType
}

// ApplyPrefill overwrites every field the prefill specifies and leaves the
// rest at their current values. Applying a second prefill replaces the
// previous autofill under the same rule; there is no field-level merge
// across two prefills.
func (f *Form) ApplyPrefill(p models.Prefill) {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Year != nil {
		f.Year = *p.Year
	}
	if p.Genre != nil {
		f.Genre = *p.Genre
	}
	if p.Rating != nil {
		f.Rating = *p.Rating
	}
	if p.Notes != nil {
		f.Notes = *p.Notes
	}
	if p.ImageURL != nil {
		f.ImageURL = *p.ImageURL
	}

	switch f.mediaType {
	case models.MediaTypeMovie:
		if p.Director != nil {
			f.Director = *p.Director
		}
	case models.MediaTypeGame:
		if p.Platform != nil {
			f.Platform = *p.Platform
		}
	case models.MediaTypeBook:
		if p.Author != nil {
			f.Author = *p.Author
		}
		if p.Pages != nil {
			f.Pages = *p.Pages
		}
	case models.MediaTypeMusic:
		if p.Artist != nil {
			f.Artist = *p.Artist
		}
		if p.Tracks != nil {
			f.Tracks = *p.Tracks
		}
	}
}

// SetStars sets the rating from the 0-5 display scale, half-step
// precision. The internal value is always the doubled star count.
func (f *Form) SetStars(stars float64) error {
	rating, err := models.StarsToRating(stars)
	if err != nil {
		return err
	}
	f.Rating = rating
	return nil
}

// Stars reports the rating on the display scale.
func (f *Form) Stars() float64 {
	return models.RatingToStars(f.Rating)
}

// ShareWith replaces the set of selected user ids.
func (f *Form) ShareWith(userIDs ...string) {
	f.sharedIDs = append([]string(nil), userIDs...)
}

func (f *Form) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Field: "title"}
	}
	if f.Year == 0 {
		return &ValidationError{Field: "year"}
	}
	if strings.TrimSpace(f.Genre) == "" {
		return &ValidationError{Field: "genre"}
	}

	switch f.mediaType {
	case models.MediaTypeMovie:
		// No extra required fields beyond the base set.
	case models.MediaTypeGame:
		if strings.TrimSpace(f.Platform) == "" {
			return &ValidationError{Field: "platform"}
		}
	case models.MediaTypeBook:
		if strings.TrimSpace(f.Author) == "" {
			return &ValidationError{Field: "author"}
		}
	case models.MediaTypeMusic:
		if strings.TrimSpace(f.Artist) == "" {
			return &ValidationError{Field: "artist"}
		}
	default:
		return fmt.Errorf("unsupported media type %q", f.mediaType)
	}
	return nil
}

// Submit validates the form and builds the finalized record. DateAdded is
// stamped here, exactly once; the caller owns the record afterwards. The
// current user never appears in SharedWith, whatever was selected.
func (f *Form) Submit(now time.Time, currentUser models.User, availableUsers []models.User) (*models.MediaRecord, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(f.sharedIDs))
	for _, id := range f.sharedIDs {
		selected[id] = true
	}
	var sharedWith []models.User
	for _, u := range availableUsers {
		if selected[u.ID] && u.ID != currentUser.ID {
			sharedWith = append(sharedWith, u)
		}
	}

	record := &models.MediaRecord{
		ID:         uuid.NewString(),
		Type:       f.mediaType,
		Title:      f.Title,
		Year:       f.Year,
		Genre:      f.Genre,
		Rating:     f.Rating,
		Notes:      f.Notes,
		ImageURL:   f.ImageURL,
		DateAdded:  now,
		AddedBy:    currentUser,
		SharedWith: sharedWith,
	}

	switch f.mediaType {
	case models.MediaTypeMovie:
		record.Director = f.Director
	case models.MediaTypeGame:
		record.Platform = f.Platform
	case models.MediaTypeBook:
		record.Author = f.Author
		record.Pages = f.Pages
	case models.MediaTypeMusic:
		record.Artist = f.Artist
		record.Tracks = f.Tracks
	}
	return record, nil
}
