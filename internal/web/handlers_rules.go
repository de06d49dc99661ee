package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/datapilot/internal/core"
	"github.com/go-chi/chi/v5"
)

// handleListRules returns the rule set in display order.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"rules": s.service.Rules()})
}

// handleGetRule returns one rule.
func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.service.Rule(chi.URLParam(r, "ruleID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, rule)
}

// handleCreateRule validates and appends a rule. An empty id is assigned.
func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule core.Rule
	if err := decodeJSON(w, r, &rule); err != nil {
		s.respondError(w, r, err)
		return
	}

	added, err := s.service.AddRule(r.Context(), rule)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, added)
}

// handleUpdateRule replaces a rule. The path id wins over any id in the body.
func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var rule core.Rule
	if err := decodeJSON(w, r, &rule); err != nil {
		s.respondError(w, r, err)
		return
	}
	rule.ID = chi.URLParam(r, "ruleID")

	updated, err := s.service.UpdateRule(r.Context(), rule)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

// handleDeleteRule removes a rule.
func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteRule(r.Context(), chi.URLParam(r, "ruleID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

// handleToggleRule flips a rule's enabled flag.
func (s *Server) handleToggleRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.service.ToggleRule(r.Context(), chi.URLParam(r, "ruleID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, rule)
}

// handleExportRules downloads the rules document: ?format=json|yaml.
func (s *Server) handleExportRules(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = s.cfg.Export.RulesFormat
	}

	var buf bytes.Buffer
	if err := core.WriteRulesConfig(&buf, s.service.RulesConfig(), format); err != nil {
		s.respondError(w, r, err)
		return
	}

	setAttachment(w, "rules-config."+format, format)
	w.Write(buf.Bytes())
}

// handleImportRules replaces the rules and weights from a JSON or YAML body.
func (s *Server) handleImportRules(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	cfg, err := s.service.ImportRules(r.Context(), data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, cfg)
}

// weightsResponse pairs the vector with its balance state.
type weightsResponse struct {
	Weights  core.PriorityWeights `json:"weights"`
	Sum      float64              `json:"sum"`
	Balanced bool                 `json:"balanced"`
}

func newWeightsResponse(w core.PriorityWeights) weightsResponse {
	return weightsResponse{Weights: w, Sum: w.Sum(), Balanced: w.Balanced()}
}

// handleGetWeights returns the current priority weights.
func (s *Server) handleGetWeights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, newWeightsResponse(s.service.Weights()))
}

// handleSetWeight sets one dimension; the others are rescaled to keep the sum at 1.
func (s *Server) handleSetWeight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dimension string   `json:"dimension"`
		Value     *float64 `json:"value"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Value == nil {
		s.respondError(w, r, fmt.Errorf("%w: value is required", errInvalidBody))
		return
	}

	weights, err := s.service.SetWeight(r.Context(), req.Dimension, *req.Value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, newWeightsResponse(weights))
}

// handleListWeightTemplates returns the preset weight vectors.
func (s *Server) handleListWeightTemplates(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]core.PriorityWeights, len(core.WeightTemplates))
	for _, name := range core.TemplateNames() {
		out[name], _ = core.Template(name)
	}
	writeJSON(w, map[string]any{"templates": out})
}

// handleApplyWeightTemplate replaces the weights with a named preset.
func (s *Server) handleApplyWeightTemplate(w http.ResponseWriter, r *http.Request) {
	weights, err := s.service.ApplyTemplate(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, newWeightsResponse(weights))
}
