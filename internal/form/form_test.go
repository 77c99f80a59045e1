package form

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbobbgit/room-of-requirement/internal/models"
)

var (
	alice   = models.User{ID: "u1", Name: "Alice", Initial: "A"}
	bob     = models.User{ID: "u2", Name: "Bob", Initial: "B"}
	charlie = models.User{ID: "u3", Name: "Charlie", Initial: "C"}
	diana   = models.User{ID: "u4", Name: "Diana", Initial: "D"}

	household = []models.User{alice, bob, charlie, diana}
)

func validMovieForm() *Form {
	f := New(models.MediaTypeMovie)
	f.Title = "Fight Club"
	f.Year = 1999
	f.Genre = "Drama"
	f.Director = "David Fincher"
	return f
}

func TestSubmitBuildsMovieRecord(t *testing.T) {
	f := validMovieForm()
	require.NoError(t, f.SetStars(4.5))
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	record, err := f.Submit(now, alice, household)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, models.MediaTypeMovie, record.Type)
	assert.Equal(t, "Fight Club", record.Title)
	assert.Equal(t, 1999, record.Year)
	assert.Equal(t, "David Fincher", record.Director)
	assert.Equal(t, 9, record.Rating)
	assert.Equal(t, now, record.DateAdded)
	assert.Equal(t, alice, record.AddedBy)

	// Variant fields of other media types stay zero.
	assert.Empty(t, record.Platform)
	assert.Empty(t, record.Author)
	assert.Zero(t, record.Pages)
	assert.Empty(t, record.Artist)
	assert.Zero(t, record.Tracks)
}

func TestRequiredFieldsPerVariant(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name      string
		build     func() *Form
		wantField string
	}{
		{"missing title", func() *Form {
			f := validMovieForm()
			f.Title = "  "
			return f
		}, "title"},
		{"missing year", func() *Form {
			f := validMovieForm()
			f.Year = 0
			return f
		}, "year"},
		{"missing genre", func() *Form {
			f := validMovieForm()
			f.Genre = ""
			return f
		}, "genre"},
		{"game missing platform", func() *Form {
			f := New(models.MediaTypeGame)
			f.Title = "GTA V"
			f.Year = 2013
			f.Genre = "Action"
			return f
		}, "platform"},
		{"book missing author", func() *Form {
			f := New(models.MediaTypeBook)
			f.Title = "Dune"
			f.Year = 1965
			f.Genre = "Sci-Fi"
			return f
		}, "author"},
		{"music missing artist", func() *Form {
			f := New(models.MediaTypeMusic)
			f.Title = "OK Computer"
			f.Year = 1997
			f.Genre = "Rock"
			return f
		}, "artist"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record, err := tc.build().Submit(now, alice, household)
			assert.Nil(t, record, "no record may be emitted on validation failure")
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tc.wantField, valErr.Field)
		})
	}
}

func TestMovieNeedsNoExtraRequiredFields(t *testing.T) {
	f := validMovieForm()
	f.Director = ""

	_, err := f.Submit(time.Now(), alice, household)
	assert.NoError(t, err)
}

func TestApplyPrefillOverwritesOnlySpecifiedFields(t *testing.T) {
	f := New(models.MediaTypeMovie)
	f.Title = "typed by hand"
	f.Notes = "my own notes"

	f.ApplyPrefill(models.Prefill{
		Type:     models.MediaTypeMovie,
		Title:    models.StringPtr("Fight Club"),
		Year:     models.IntPtr(1999),
		Director: models.StringPtr("David Fincher"),
	})

	assert.Equal(t, "Fight Club", f.Title)
	assert.Equal(t, 1999, f.Year)
	assert.Equal(t, "David Fincher", f.Director)
	assert.Equal(t, "my own notes", f.Notes, "unspecified fields keep their value")
}

func TestReapplyingPrefillReplacesPreviousAutofill(t *testing.T) {
	f := New(models.MediaTypeMovie)

	f.ApplyPrefill(models.Prefill{
		Title:    models.StringPtr("Fight Club"),
		Year:     models.IntPtr(1999),
		Director: models.StringPtr("David Fincher"),
		Notes:    models.StringPtr("An insomniac."),
	})
	f.ApplyPrefill(models.Prefill{
		Title:    models.StringPtr("The Matrix"),
		Year:     models.IntPtr(1999),
		Director: models.StringPtr("Lana Wachowski"),
		Notes:    models.StringPtr("A hacker learns the truth."),
	})

	assert.Equal(t, "The Matrix", f.Title)
	assert.Equal(t, "Lana Wachowski", f.Director)
	assert.Equal(t, "A hacker learns the truth.", f.Notes)
}

func TestPrefillIgnoresForeignVariantFields(t *testing.T) {
	f := New(models.MediaTypeMovie)

	f.ApplyPrefill(models.Prefill{
		Title:    models.StringPtr("Confused"),
		Platform: models.StringPtr("PC"),
		Author:   models.StringPtr("Nobody"),
	})

	assert.Empty(t, f.Platform)
	assert.Empty(t, f.Author)
}

func TestStarRatingRoundTrip(t *testing.T) {
	f := validMovieForm()

	require.NoError(t, f.SetStars(3.5))
	assert.Equal(t, 7, f.Rating, "3.5 stars stores internal rating 7")
	assert.Equal(t, 3.5, f.Stars(), "internal rating 7 reads back as 3.5 stars")

	record, err := f.Submit(time.Now(), alice, household)
	require.NoError(t, err)
	assert.Equal(t, 7, record.Rating)
	assert.Equal(t, 3.5, record.Stars())
}

func TestStarRatingRejectsInvalidValues(t *testing.T) {
	f := validMovieForm()
	assert.Error(t, f.SetStars(5.5))
	assert.Error(t, f.SetStars(-0.5))
	assert.Error(t, f.SetStars(3.25))
}

func TestSharedWithExcludesCurrentUser(t *testing.T) {
	f := validMovieForm()
	// The current user sneaks into their own selection alongside two others.
	f.ShareWith(alice.ID, bob.ID, diana.ID)

	record, err := f.Submit(time.Now(), alice, household)
	require.NoError(t, err)

	assert.Equal(t, []models.User{bob, diana}, record.SharedWith)
}

func TestSharedWithUnknownIDsDropped(t *testing.T) {
	f := validMovieForm()
	f.ShareWith("u99", bob.ID)

	record, err := f.Submit(time.Now(), alice, household)
	require.NoError(t, err)

	assert.Equal(t, []models.User{bob}, record.SharedWith)
}

func TestSubmitTwiceDiffersOnlyInStampedFields(t *testing.T) {
	f := validMovieForm()
	require.NoError(t, f.SetStars(4))
	f.ShareWith(bob.ID)

	first, err := f.Submit(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), alice, household)
	require.NoError(t, err)
	second, err := f.Submit(time.Date(2026, 9, 1, 12, 0, 1, 0, time.UTC), alice, household)
	require.NoError(t, err)

	assert.NotEqual(t, first.DateAdded, second.DateAdded)
	assert.NotEqual(t, first.ID, second.ID)

	// Everything else matches.
	second.ID = first.ID
	second.DateAdded = first.DateAdded
	assert.Equal(t, first, second)
}
