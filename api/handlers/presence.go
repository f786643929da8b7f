package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/lawbridge/lawbridge-api/config"
	"github.com/lawbridge/lawbridge-api/realtime"
)

// Presence exported for testing purposes
type Presence struct {
	Hub *realtime.Hub
}

// OnlineUsersHandler returns the current presence snapshot
func (p Presence) OnlineUsersHandler(w http.ResponseWriter, r *http.Request) {
	b, err := json.Marshal(map[string][]string{"online": p.Hub.Tracker().Online()})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// OnlineUsersSocketHandler joins the shared presence channel. The client
// receives the authoritative sync snapshot on connect, then join/leave
// deltas as other members come and go. The user only counts as online once
// it sends a track event; closing the last connection marks it offline.
func (p Presence) OnlineUsersSocketHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		config.ErrorStatus("user_id query parameter is required", http.StatusBadRequest, w, fmt.Errorf("missing user_id"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("failed to upgrade websocket", "userId", userID, "error", err)
		return
	}
	defer conn.Close()

	p.Hub.JoinPresence(userID, conn)
	defer p.Hub.LeavePresence(userID, conn)

	for {
		var ev realtime.Event
		if err := conn.ReadJSON(&ev); err != nil {
			return
		}
		if ev.Event == realtime.EventTrack {
			p.Hub.TrackPresence(userID)
		}
	}
}
