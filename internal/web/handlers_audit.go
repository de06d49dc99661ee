package web

import (
	"net/http"

	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/go-chi/chi/v5"
)

// defaultActivityPage is how many entries /api/activity returns without ?limit=.
const defaultActivityPage = 50

// handleActivity returns the newest session activity entries.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	entries := s.service.Activity(parseIntParam(r, "limit", defaultActivityPage))
	if entries == nil {
		entries = []core.ActivityEntry{}
	}
	writeJSON(w, map[string]any{"entries": entries, "count": len(entries)})
}

// handleFileActivity returns the change history of one file, newest first.
func (s *Server) handleFileActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "fileID")
	if _, err := s.service.File(id); err != nil {
		s.respondError(w, r, err)
		return
	}
	entries := s.service.FileActivity(id)
	if entries == nil {
		entries = []core.ActivityEntry{}
	}
	writeJSON(w, map[string]any{"entries": entries, "count": len(entries)})
}
