package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// A tiny stand-in for TMDB and RAWG so the app can be exercised without
// real API keys. Point the clients at http://localhost:8090 with
// SetBaseURL (or run against it manually with curl).

type fakeMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
}

var fakeMovies = []fakeMovie{
	{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", PosterPath: "/fight-club.jpg", Overview: "An insomniac and a soap salesman.", VoteAverage: 8.4},
	{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31", PosterPath: "/the-matrix.jpg", Overview: "A hacker learns the truth.", VoteAverage: 8.2},
	{ID: 680, Title: "Pulp Fiction", ReleaseDate: "1994-09-10", PosterPath: "/pulp-fiction.jpg", Overview: "Interwoven stories of crime.", VoteAverage: 8.5},
}

type fakeGame struct {
	ID              int                      `json:"id"`
	Name            string                   `json:"name"`
	Released        string                   `json:"released"`
	BackgroundImage string                   `json:"background_image"`
	DescriptionRaw  string                   `json:"description_raw"`
	Metacritic      int                      `json:"metacritic"`
	Rating          float64                  `json:"rating"`
	Genres          []map[string]interface{} `json:"genres"`
	Platforms       []map[string]interface{} `json:"platforms"`
}

var fakeGames = []fakeGame{
	{ID: 3498, Name: "Grand Theft Auto V", Released: "2013-09-17", Metacritic: 92, Rating: 4.47,
		Genres:    []map[string]interface{}{{"id": 4, "name": "Action"}},
		Platforms: []map[string]interface{}{{"platform": map[string]interface{}{"id": 4, "name": "PC"}}}},
	{ID: 3328, Name: "The Witcher 3: Wild Hunt", Released: "2015-05-18", Metacritic: 92, Rating: 4.66,
		Genres:    []map[string]interface{}{{"id": 5, "name": "RPG"}},
		Platforms: []map[string]interface{}{{"platform": map[string]interface{}{"id": 18, "name": "PlayStation 4"}}}},
}

func main() {
	http.HandleFunc("/search/movie", searchMoviesHandler)
	http.HandleFunc("/movie/", movieDetailsHandler)
	http.HandleFunc("/games", searchGamesHandler)
	http.HandleFunc("/games/", gameDetailsHandler)

	fmt.Println("Fake catalog server starting on :8090")
	fmt.Println("TMDB-shaped endpoints: /search/movie, /movie/{id}")
	fmt.Println("RAWG-shaped endpoints: /games, /games/{id}")
	log.Fatal(http.ListenAndServe(":8090", nil))
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func searchMoviesHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("query"))
	var results []fakeMovie
	for _, m := range fakeMovies {
		if query == "" || strings.Contains(strings.ToLower(m.Title), query) {
			results = append(results, m)
		}
	}
	writeJSON(w, map[string]interface{}{"results": results})
}

func movieDetailsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/movie/"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	for _, m := range fakeMovies {
		if m.ID == id {
			detail := map[string]interface{}{
				"id": m.ID, "title": m.Title, "release_date": m.ReleaseDate,
				"poster_path": m.PosterPath, "overview": m.Overview,
				"vote_average": m.VoteAverage,
				"genres":       []map[string]interface{}{{"id": 18, "name": "Drama"}},
				"credits": map[string]interface{}{
					"crew": []map[string]interface{}{
						{"name": "Jane Placeholder", "job": "Director", "department": "Directing"},
					},
				},
			}
			writeJSON(w, detail)
			return
		}
	}
	http.NotFound(w, r)
}

func searchGamesHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("search"))
	var results []fakeGame
	for _, g := range fakeGames {
		if query == "" || strings.Contains(strings.ToLower(g.Name), query) {
			results = append(results, g)
		}
	}
	writeJSON(w, map[string]interface{}{"count": len(results), "results": results})
}

func gameDetailsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/games/"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	for _, g := range fakeGames {
		if g.ID == id {
			writeJSON(w, g)
			return
		}
	}
	http.NotFound(w, r)
}
