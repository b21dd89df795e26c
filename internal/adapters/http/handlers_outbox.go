package web

import (
	"errors"
	"net/http"
	"strconv"

	"eventra/internal/application/orchestrators"
	"eventra/internal/domain/outbox"
)

// handleOutboxList serves GET /debug/outbox?status=failed|pending&limit=N.
func handleOutboxList(w http.ResponseWriter, r *http.Request) {
	if app.Outbox == nil {
		http.Error(w, "outbox disabled", http.StatusNotFound)
		return
	}
	limit := 50
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	var entries []outbox.Entry
	var err error
	switch r.URL.Query().Get("status") {
	case "", outbox.StatusFailed:
		entries, err = app.Outbox.ListFailed(r.Context(), limit)
	case outbox.StatusPending:
		entries, err = app.Outbox.ListPending(r.Context(), limit)
	default:
		http.Error(w, "status must be failed or pending", http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	if entries == nil {
		entries = []outbox.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleOutboxRetry serves POST /debug/outbox/{id}/retry, attempting the entry
// immediately regardless of its backoff.
func handleOutboxRetry(w http.ResponseWriter, r *http.Request) {
	if app.Processor == nil {
		http.Error(w, "outbox disabled", http.StatusNotFound)
		return
	}
	err := app.Processor.ProcessSingle(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, orchestrators.ErrTerminalEntry):
		http.Error(w, err.Error(), http.StatusConflict)
	case err != nil:
		writeJSON(w, http.StatusBadGateway, map[string]string{"status": "attempt failed", "error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "delivered"})
	}
}
