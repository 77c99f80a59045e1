package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRAWGTestServer(t *testing.T, handler http.HandlerFunc) *RAWGClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewRAWGClient("rawg-key")
	client.SetBaseURL(srv.URL)
	return client
}

func TestRAWGSearchParams(t *testing.T) {
	var gotKey, gotSearch, gotPageSize string
	client := newRAWGTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotSearch = r.URL.Query().Get("search")
		gotPageSize = r.URL.Query().Get("page_size")
		w.Write([]byte(`{"count":1,"results":[{"id":3498,"name":"Grand Theft Auto V","released":"2013-09-17","background_image":"https://media.rawg.io/gta.jpg","rating":4.47}]}`))
	})

	results, err := client.Search(context.Background(), "gta")
	require.NoError(t, err)

	assert.Equal(t, "rawg-key", gotKey)
	assert.Equal(t, "gta", gotSearch)
	assert.Equal(t, "10", gotPageSize)

	require.Len(t, results, 1)
	assert.Equal(t, "3498", results[0].ID)
	assert.Equal(t, "Grand Theft Auto V", results[0].Title)
	assert.Equal(t, 2013, results[0].Year)
	assert.Equal(t, "https://media.rawg.io/gta.jpg", results[0].ThumbURL)
}

func TestRAWGMissingKeyIsConfigError(t *testing.T) {
	client := NewRAWGClient("")

	_, err := client.Search(context.Background(), "anything")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "RAWG", cfgErr.Provider)

	_, err = client.FetchGame(context.Background(), "1")
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRAWGNon2xxIsHTTPError(t *testing.T) {
	client := newRAWGTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), "anything")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestRAWGLookupMapsDetails(t *testing.T) {
	client := newRAWGTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/3328", r.URL.Path)
		w.Write([]byte(`{
			"id": 3328, "name": "The Witcher 3: Wild Hunt", "released": "2015-05-18",
			"background_image": "https://media.rawg.io/witcher3.jpg",
			"description_raw": "Geralt hunts monsters.",
			"metacritic": 92, "rating": 4.66,
			"genres": [{"id": 5, "name": "RPG"}],
			"platforms": [{"platform": {"id": 18, "name": "PlayStation 4"}}]
		}`))
	})

	prefill, err := client.Lookup(context.Background(), "3328")
	require.NoError(t, err)

	require.NotNil(t, prefill.Platform)
	assert.Equal(t, "PlayStation 4", *prefill.Platform)
	require.NotNil(t, prefill.Rating)
	assert.Equal(t, 92, *prefill.Rating)
	require.NotNil(t, prefill.Notes)
	assert.Equal(t, "Geralt hunts monsters.", *prefill.Notes)
}
