// Package api exposes session reconstruction over HTTP: callers post the
// decoded-field records produced by an external decoder and receive the
// normalized packets or reconstructed sessions back as JSON.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"SessionSpectra/internal/engine/session"
	"SessionSpectra/internal/ingest"
)

// Handler holds the dependencies for the API handlers.
type Handler struct{}

// NewRouter builds the service router.
func NewRouter() *mux.Router {
	h := &Handler{}
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/analyze", h.analyzeHandler).Methods("POST")
	r.HandleFunc("/api/v1/packets", h.packetsHandler).Methods("POST")
	r.HandleFunc("/api/v1/health", h.healthHandler).Methods("GET")
	return r
}

// readRecords decodes the request body: a JSON array of decoded-field
// records.
func readRecords(r *http.Request) ([]ingest.Record, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	var records []ingest.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(jsonBytes)
}

// analyzeHandler reconstructs sessions from the posted records.
func (h *Handler) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	records, err := readRecords(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	packets := ingest.PacketsFromRecords(records)
	writeJSON(w, session.Reconstruct(packets))
}

// packetsHandler returns only the normalized packets.
func (h *Handler) packetsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := readRecords(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, ingest.PacketsFromRecords(records))
}

func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
