package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventra/internal/adapters/http/perf"
	"eventra/internal/domain/event"
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleHealth serves GET /healthz.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.DB.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// shareReport is what the static script posts after a share attempt.
type shareReport struct {
	NativeAvailable bool   `json:"nativeAvailable"`
	NativeError     string `json:"nativeError"`
	CopyError       string `json:"copyError"`
}

// shareResponse tells the script whether and what to show.
type shareResponse struct {
	Outcome event.ShareOutcome `json:"outcome"`
	Notify  bool               `json:"notify"`
	Message string             `json:"message,omitempty"`
}

var shareMessages = map[event.ShareOutcome]string{
	event.ShareCopied: "Link copied to clipboard",
	event.ShareFailed: "Unable to share this event",
}

// handleShare serves POST /share.
func handleShare(w http.ResponseWriter, r *http.Request) {
	var report shareReport
	if err := strictDecode(w, r, &report); err != nil {
		http.Error(w, "invalid share report", http.StatusBadRequest)
		return
	}
	outcome := event.DecideShare(event.ShareAttempt{
		NativeAvailable: report.NativeAvailable,
		NativeErr:       report.NativeError,
		CopyErr:         report.CopyError,
	})
	resp := shareResponse{Outcome: outcome, Notify: outcome.Notify()}
	if resp.Notify {
		resp.Message = shareMessages[outcome]
	}
	writeJSON(w, http.StatusOK, resp)
}

// perfPage is the data for perf.html.
type perfPage struct {
	Window   time.Duration
	Snapshot perf.Snapshot
}

// handlePerf serves GET /debug/perf?window=15m as HTML or JSON.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	window, err := time.ParseDuration(r.URL.Query().Get("window"))
	if err != nil || window <= 0 {
		window = 15 * time.Minute
	}
	var snap perf.Snapshot
	if app.Collector != nil {
		snap = app.Collector.Snapshot(timeNow().Add(-window), 10)
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, snap)
		return
	}
	renderTemplate(w, r, http.StatusOK, "perf.html", perfPage{Window: window, Snapshot: snap})
}
