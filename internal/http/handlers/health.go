package handlers

import (
	"net/http"
	"time"
)

// Availability records which collaborators initialised at startup.
type Availability struct {
	Calendar  bool
	Inventory bool
	Assistant bool
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Calendar  string `json:"calendar"`
	Inventory string `json:"inventory"`
	Assistant string `json:"assistant"`
}

// HealthHandler reports process liveness and startup state of each collaborator.
// It does not probe the collaborators.
type HealthHandler struct {
	avail Availability
	now   func() time.Time
}

func NewHealthHandler(avail Availability) *HealthHandler {
	return &HealthHandler{avail: avail, now: time.Now}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
		Calendar:  label(h.avail.Calendar, "Connected"),
		Inventory: label(h.avail.Inventory, "Connected"),
		Assistant: label(h.avail.Assistant, "Configured"),
	})
}

func label(ok bool, yes string) string {
	if ok {
		return yes
	}
	return "Not configured"
}
