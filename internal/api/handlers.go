package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/inklineapp/inkline/backend/internal/room"
)

// JSON surface over the live registry. There is no database behind this:
// room state is in-memory only and does not survive a restart.
type API struct {
	registry *room.Registry
}

func New(registry *room.Registry) *API {
	return &API{
		registry: registry,
	}
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	clients := 0
	strokes := 0
	for _, rm := range a.registry.Rooms() {
		clients += rm.MemberCount()
		strokes += rm.StrokeCount()
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"rooms":     a.registry.Len(),
		"clients":   clients,
		"strokes":   strokes,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type RoomResponse struct {
	ID          string    `json:"id"`
	ActiveUsers int       `json:"active_users"`
	StrokeCount int       `json:"stroke_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a *API) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	rooms := a.registry.Rooms()
	response := make([]RoomResponse, len(rooms))
	for i, rm := range rooms {
		response[i] = RoomResponse{
			ID:          rm.ID,
			ActiveUsers: rm.MemberCount(),
			StrokeCount: rm.StrokeCount(),
			CreatedAt:   rm.CreatedAt,
		}
	}
	sort.Slice(response, func(i, j int) bool {
		return response[i].ID < response[j].ID
	})

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"rooms": response,
		"count": len(response),
	})
}
