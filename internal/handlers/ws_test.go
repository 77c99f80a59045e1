package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbobbgit/room-of-requirement/internal/config"
	"github.com/dbobbgit/room-of-requirement/internal/models"
	"github.com/dbobbgit/room-of-requirement/internal/search"
)

type wsTestMessage struct {
	Kind    string           `json:"kind"`
	State   *search.Snapshot `json:"snapshot"`
	Prefill *models.Prefill  `json:"prefill"`
}

func dialSearchSocket(t *testing.T, srv *httptest.Server, mediaType string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/search/ws?type=" + mediaType
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads server messages until pred matches one, failing the test
// if nothing matches within two seconds.
func readUntil(t *testing.T, conn *websocket.Conn, pred func(wsTestMessage) bool) wsTestMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg wsTestMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if pred(msg) {
			return msg
		}
	}
}

func TestSearchSocketRoundTrip(t *testing.T) {
	router := testRouter(t, func(cfg *config.Config) {
		cfg.Search.DebounceMs = 20
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn := dialSearchSocket(t, srv, "movie")

	require.NoError(t, conn.WriteJSON(map[string]string{"input": "fight club"}))
	msg := readUntil(t, conn, func(m wsTestMessage) bool {
		return m.Kind == "state" && m.State.State == search.StateResults
	})
	require.Len(t, msg.State.Results, 1)
	assert.Equal(t, "Fight Club", msg.State.Results[0].Title)

	require.NoError(t, conn.WriteJSON(map[string]string{"select": "550"}))
	msg = readUntil(t, conn, func(m wsTestMessage) bool {
		return m.Kind == "prefill"
	})
	require.NotNil(t, msg.Prefill)
	require.NotNil(t, msg.Prefill.Title)
	assert.Equal(t, "Fight Club", *msg.Prefill.Title)
	require.NotNil(t, msg.Prefill.Director)
	assert.Equal(t, "David Fincher", *msg.Prefill.Director)
}

func TestSearchSocketShortInputGoesIdle(t *testing.T) {
	router := testRouter(t, func(cfg *config.Config) {
		cfg.Search.DebounceMs = 20
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn := dialSearchSocket(t, srv, "movie")

	require.NoError(t, conn.WriteJSON(map[string]string{"input": "f"}))
	msg := readUntil(t, conn, func(m wsTestMessage) bool { return m.Kind == "state" })
	assert.Equal(t, search.StateIdle, msg.State.State)
	assert.Empty(t, msg.State.Results)
}

func TestSearchSocketRejectsBadType(t *testing.T) {
	router := testRouter(t, nil)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/search/ws?type=vinyl"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
}
