package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dbobbgit/room-of-requirement/internal/models"
	"github.com/dbobbgit/room-of-requirement/internal/search"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The UI is served from the same host in deployments we care about.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClientMessage is what the UI sends over the search socket: either a
// keystroke or a result selection.
type wsClientMessage struct {
	Input  *string `json:"input,omitempty"`
	Select string  `json:"select,omitempty"`
}

// wsServerMessage is pushed back: panel state snapshots as the debounced
// search progresses, then the mapped prefill after a selection.
type wsServerMessage struct {
	Kind    string           `json:"kind"` // "state" | "prefill"
	State   *search.Snapshot `json:"snapshot,omitempty"`
	Prefill *models.Prefill  `json:"prefill,omitempty"`
}

// SearchSocket runs one debounced catalog search session over a websocket.
// The server owns the debounce window and the latest-wins ordering, so the
// UI only forwards raw keystrokes.
func (h *APIHandler) SearchSocket(w http.ResponseWriter, r *http.Request) {
	mediaType, err := models.ParseMediaType(r.URL.Query().Get("type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID, panel, err := h.manager.OpenSearch(mediaType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer h.manager.CloseSearch(sessionID)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed:", err)
		return
	}
	defer conn.Close()

	// Outbound messages are funneled through one writer goroutine; the
	// panel listener must never block, so a slow consumer loses
	// intermediate snapshots rather than stalling the search.
	out := make(chan wsServerMessage, 64)
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case msg := <-out:
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			case <-quit:
				return
			}
		}
	}()

	panel.Listen(func(snap search.Snapshot) {
		select {
		case out <- wsServerMessage{Kind: "state", State: &snap}:
		default:
		}
	})
	panel.OnSelect(func(p models.Prefill) {
		select {
		case out <- wsServerMessage{Kind: "prefill", Prefill: &p}:
		default:
		}
	})

	for {
		var msg wsClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch {
		case msg.Input != nil:
			panel.SetQuery(*msg.Input)
		case msg.Select != "":
			// Selection fetches details synchronously; run it off the read
			// loop so further keystrokes are not blocked behind it.
			go panel.Select(context.Background(), msg.Select)
		}
	}

	close(quit)
	<-done
}
