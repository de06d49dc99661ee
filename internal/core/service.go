package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ServiceConfig holds the limits a session service enforces.
type ServiceConfig struct {
	MaxFileSize         int64
	MaxFilesPerBatch    int
	MaxConcurrent       int
	MaxWaitTime         time.Duration
	EnhancedSearchDelay time.Duration
	ActivityLimit       int
}

// Service is one workbench session: the uploaded files, their issues, the
// rule set and the priority weights. It is the single writer for its files;
// every mutation swaps in a new grid and re-validates that file.
type Service struct {
	cfg       ServiceConfig
	validator *FileValidator
	rules     *RuleStore
	limiter   *UploadLimiter
	activity  *ActivityLog
	metrics   *Metrics
	now       func() time.Time

	mu      sync.RWMutex
	files   []*DataFile
	weights PriorityWeights
}

// NewService creates an empty session. metrics may be nil.
func NewService(cfg ServiceConfig, metrics *Metrics) *Service {
	return &Service{
		cfg:       cfg,
		validator: NewFileValidator(nil),
		rules:     NewRuleStore(),
		limiter:   NewUploadLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		activity:  NewActivityLog(cfg.ActivityLimit),
		metrics:   metrics,
		now:       time.Now,
		weights:   DefaultWeights,
	}
}

// Limiter exposes the upload limiter for status reporting and shutdown drain.
func (s *Service) Limiter() *UploadLimiter {
	return s.limiter
}

// Activity returns up to n recent activity entries, newest first.
func (s *Service) Activity(n int) []ActivityEntry {
	return s.activity.Recent(n)
}

// FileActivity returns the activity entries for one file, newest first.
func (s *Service) FileActivity(fileID string) []ActivityEntry {
	return s.activity.ForFile(fileID)
}

// Files returns copies of all session files in upload order.
func (s *Service) Files() []*DataFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*DataFile, len(s.files))
	for i, f := range s.files {
		out[i] = f.clone()
	}
	return out
}

// File returns a copy of one file.
func (s *Service) File(id string) (*DataFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	return s.files[i].clone(), nil
}

// Reset discards every file, rule and weight change.
func (s *Service) Reset(ctx context.Context) {
	s.mu.Lock()
	s.files = nil
	s.weights = DefaultWeights
	s.mu.Unlock()
	_ = s.rules.Replace(nil)
	s.activity.Clear()
	s.activity.Record(ctx, ActivityEntry{Action: ActionSessionReset})
	slog.Info("session reset")
}

// validate replaces f.Issues with a fresh pass. Callers hold s.mu.
func (s *Service) validate(f *DataFile) {
	start := time.Now()
	f.Issues = s.validator.Validate(f)
	s.metrics.observeValidation(f.Issues, time.Since(start))
}

func (s *Service) indexOf(id string) int {
	for i, f := range s.files {
		if f.ID == id {
			return i
		}
	}
	return -1
}
