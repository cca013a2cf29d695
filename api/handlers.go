package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"concentration-server/config"
	"concentration-server/game"
)

// SessionCounter reports how many sessions are running.
type SessionCounter interface {
	Count() int
}

// Handler holds dependencies for API handlers.
type Handler struct {
	Config   *config.Config
	Sessions SessionCounter
}

// NewHandler creates a new API handler with the given dependencies.
func NewHandler(cfg *config.Config, sessions SessionCounter) *Handler {
	return &Handler{
		Config:   cfg,
		Sessions: sessions,
	}
}

// CatalogResponse is the JSON structure for /api/catalog.
type CatalogResponse struct {
	Faces      []game.CardFace `json:"faces"`
	TotalPairs int             `json:"totalPairs"`
}

// HealthResponse is the JSON structure for /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Catalog returns the faces every new game is dealt from.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	faces := h.Config.Catalog
	if faces == nil {
		faces = []game.CardFace{}
	}
	writeJSON(w, CatalogResponse{Faces: faces, TotalPairs: len(faces)})
}

// Health reports liveness and the number of running sessions.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	n := 0
	if h.Sessions != nil {
		n = h.Sessions.Count()
	}
	writeJSON(w, HealthResponse{Status: "ok", Sessions: n})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "tag", "api", "err", err)
	}
}
