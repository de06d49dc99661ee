package web

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/go-chi/chi/v5"
)

// fileSummary is the list view of a file, without its grids.
type fileSummary struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category core.Category  `json:"type"`
	Headers  []string       `json:"headers"`
	Rows     int            `json:"rowCount"`
	Issues   map[string]int `json:"issues"`
	Missing  []string       `json:"missingColumns"`
}

func summarize(f *core.DataFile) fileSummary {
	counts := make(map[string]int, len(core.AllSeverities))
	for sev, n := range core.CountBySeverity(f.Issues) {
		counts[string(sev)] = n
	}
	missing := core.MissingColumns(f.Category, f.Headers)
	if missing == nil {
		missing = []string{}
	}
	return fileSummary{
		ID:       f.ID,
		Name:     f.Name,
		Category: f.Category,
		Headers:  f.Headers,
		Rows:     f.RowCount(),
		Issues:   counts,
		Missing:  missing,
	}
}

// handleListFiles returns a summary of every file in upload order.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files := s.service.Files()
	out := make([]fileSummary, 0, len(files))
	for _, f := range files {
		out = append(out, summarize(f))
	}
	writeJSON(w, map[string]any{"files": out})
}

// handleGetFile returns one file with its working grid, original grid and issues.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	f, err := s.service.File(chi.URLParam(r, "fileID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, f)
}

// handleFileIssues returns one file's issues, optionally filtered by ?severity=.
func (s *Server) handleFileIssues(w http.ResponseWriter, r *http.Request) {
	sev, err := parseSeverity(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	issues, err := s.service.FileIssues(chi.URLParam(r, "fileID"), sev)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if issues == nil {
		issues = []core.ValidationIssue{}
	}
	writeJSON(w, map[string]any{"issues": issues, "count": len(issues)})
}

// handleIssues returns the issues of all files, optionally filtered by ?severity=.
func (s *Server) handleIssues(w http.ResponseWriter, r *http.Request) {
	sev, err := parseSeverity(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	issues := s.service.Issues(sev)
	if issues == nil {
		issues = []core.ValidationIssue{}
	}
	writeJSON(w, map[string]any{"issues": issues, "count": len(issues)})
}

// handleSearch filters a file's rows: ?q=<query>&mode=simple|enhanced.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	mode := core.SearchMode(strings.ToLower(r.URL.Query().Get("mode")))
	switch mode {
	case "", core.SearchSimple, core.SearchEnhanced:
	default:
		s.respondError(w, r, errInvalidBody)
		return
	}

	res, err := s.service.Search(r.Context(), chi.URLParam(r, "fileID"), r.URL.Query().Get("q"), mode)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// handleExportFile downloads a file's data: ?format=csv|json|xlsx&original=true.
func (s *Server) handleExportFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "fileID")
	f, err := s.service.File(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	format := core.Format(strings.ToLower(r.URL.Query().Get("format")))
	if format == "" {
		format = core.Format(s.cfg.Export.DefaultFormat)
	}
	original := parseBoolParam(r, "original")

	var buf bytes.Buffer
	if err := s.service.ExportFile(&buf, id, format, original); err != nil {
		s.respondError(w, r, err)
		return
	}

	setAttachment(w, core.ExportFileName(f, format, original), string(format))
	w.Write(buf.Bytes())
}

// handleEvaluateRules runs the enabled rules over a file's rows.
func (s *Server) handleEvaluateRules(w http.ResponseWriter, r *http.Request) {
	matches, err := s.service.EvaluateRules(chi.URLParam(r, "fileID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if matches == nil {
		matches = []core.RuleMatch{}
	}
	writeJSON(w, map[string]any{"matches": matches})
}
