package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Issues returns the issues of every file in upload order, optionally
// restricted to one severity.
func (s *Service) Issues(sev Severity) []ValidationIssue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []ValidationIssue
	for _, f := range s.files {
		all = append(all, FilterBySeverity(f.Issues, sev)...)
	}
	return all
}

// FileIssues returns one file's issues, optionally restricted to one severity.
func (s *Service) FileIssues(id string, sev Severity) ([]ValidationIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	return FilterBySeverity(s.files[i].Issues, sev), nil
}

// SessionStatus summarizes the session for the progress indicator.
type SessionStatus struct {
	Files           int              `json:"files"`
	Rows            int              `json:"rows"`
	BySeverity      map[Severity]int `json:"bySeverity"`
	CanAdvance      bool             `json:"canAdvance"`
	Rules           int              `json:"rules"`
	EnabledRules    int              `json:"enabledRules"`
	WeightsBalanced bool             `json:"weightsBalanced"`
	Uploads         LimiterStatus    `json:"uploads"`
}

// Status reports counts and whether the session may move past editing.
func (s *Service) Status() SessionStatus {
	s.mu.RLock()
	var all []ValidationIssue
	rows := 0
	for _, f := range s.files {
		all = append(all, f.Issues...)
		rows += f.RowCount()
	}
	st := SessionStatus{
		Files:           len(s.files),
		Rows:            rows,
		BySeverity:      CountBySeverity(all),
		CanAdvance:      !HasBlocking(all),
		WeightsBalanced: s.weights.Balanced(),
	}
	s.mu.RUnlock()

	st.Rules = s.rules.Len()
	st.EnabledRules = len(s.rules.Enabled())
	st.Uploads = s.limiter.Status()
	return st
}

// CanAdvance returns ErrBlockingIssues while any error-severity issue remains.
// Warnings and infos never block.
func (s *Service) CanAdvance() error {
	st := s.Status()
	if !st.CanAdvance {
		return fmt.Errorf("%w: %d errors", ErrBlockingIssues, st.BySeverity[SeverityError])
	}
	return nil
}

// Search filters one file's working rows.
func (s *Service) Search(ctx context.Context, id, query string, mode SearchMode) (SearchResult, error) {
	f, err := s.File(id)
	if err != nil {
		return SearchResult{}, err
	}
	s.metrics.observeSearch(mode)
	res, err := Search(ctx, f, query, SearchOptions{Mode: mode, Delay: s.cfg.EnhancedSearchDelay})
	if err != nil {
		return res, err
	}
	slog.Debug("search", "file_id", id, "mode", res.Mode, "query", query, "translated", res.Translated, "matches", len(res.Rows))
	return res, nil
}

// Report builds the validation report over all files.
func (s *Service) Report() ValidationReport {
	return BuildReport(s.Files(), s.now())
}

// ExportFile writes one file's cleaned or original data.
func (s *Service) ExportFile(w io.Writer, id string, format Format, original bool) error {
	f, err := s.File(id)
	if err != nil {
		return err
	}
	if err := ExportData(w, f, format, original); err != nil {
		return fmt.Errorf("export %s: %w", f.Name, err)
	}
	slog.Info("file exported", "file_id", id, "format", format, "original", original)
	return nil
}
