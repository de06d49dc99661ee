package web

import (
	"net/http"

	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/go-chi/chi/v5"
)

// handleDeleteFile removes a file from the session.
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RemoveFile(r.Context(), chi.URLParam(r, "fileID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// handleEditCell sets one working cell and returns the re-validated file.
func (s *Server) handleEditCell(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Row    int    `json:"row"`
		Column int    `json:"column"`
		Value  string `json:"value"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	f, err := s.service.EditCell(r.Context(), chi.URLParam(r, "fileID"), req.Row, req.Column, req.Value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, f)
}

// handleReplaceRows swaps in a whole working grid, as the grid editor does on commit.
func (s *Server) handleReplaceRows(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rows core.Grid `json:"rows"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	f, err := s.service.ReplaceRows(r.Context(), chi.URLParam(r, "fileID"), req.Rows)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, f)
}

// handleSetCategory overrides a file's inferred entity type.
func (s *Server) handleSetCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	c, err := core.ParseCategory(req.Category)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	f, err := s.service.SetCategory(r.Context(), chi.URLParam(r, "fileID"), c)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, f)
}

// handleRevalidate re-runs validation over every file.
func (s *Server) handleRevalidate(w http.ResponseWriter, r *http.Request) {
	issues := s.service.Revalidate(r.Context())
	if issues == nil {
		issues = []core.ValidationIssue{}
	}
	writeJSON(w, map[string]any{"issues": issues, "count": len(issues)})
}

// handleReset discards all files, rules and weight changes.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.service.Reset(r.Context())
	writeJSON(w, map[string]string{"status": "reset"})
}
