package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/JonMunkholm/datapilot/internal/web/templates"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleStatus returns file, row and issue counts and whether the session
// may move past editing.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Status())
}

// handleAdvance answers 409 while any error-severity issue remains.
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	if err := s.service.CanAdvance(); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"canAdvance": true, "weightsBalanced": s.service.CheckWeights() == nil})
}

// categoryInfo describes one registered entity type.
type categoryInfo struct {
	Category core.Category `json:"type"`
	Label    string        `json:"label"`
	Required []string      `json:"required"`
}

// handleCategories lists the registered categories and their required fields.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	var out []categoryInfo
	for _, c := range core.Categories() {
		schema, _ := core.LookupSchema(c)
		out = append(out, categoryInfo{Category: c, Label: schema.Label, Required: core.RequiredFields(c)})
	}
	writeJSON(w, map[string]any{"categories": out})
}

// handleReportPage renders the validation report as HTML.
func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypeFor("html"))
	if err := templates.ReportPage(s.service.Report()).Render(r.Context(), w); err != nil {
		s.respondError(w, r, err)
	}
}

// handleReportExport downloads the report: ?format=json|html. Browsers that
// ask for text/html get the page when no format is given.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "json"
		if wantsHTML(r) {
			format = "html"
		}
	}

	rep := s.service.Report()
	var buf bytes.Buffer
	var err error
	switch format {
	case "json":
		err = core.WriteReportJSON(&buf, rep)
	case "html":
		err = templates.ReportPage(rep).Render(r.Context(), &buf)
	default:
		err = fmt.Errorf("%w: %q", core.ErrUnsupportedExport, format)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	name := fmt.Sprintf("validation-report-%s.%s", rep.GeneratedAt.Format("20060102-150405"), format)
	setAttachment(w, name, format)
	w.Write(buf.Bytes())
}
