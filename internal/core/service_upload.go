package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// UploadInput is one file of an upload batch.
type UploadInput struct {
	Name   string
	Reader io.Reader
	// Category forces the entity type; empty means infer from name and headers.
	Category Category
}

// UploadBatch parses and validates each input in order. A file that cannot be
// parsed is reported in its outcome and the rest of the batch proceeds.
//
// Returns ErrTooManyFiles when the batch exceeds the configured size, and
// ErrTooManyUploads when no upload slot frees up in time.
func (s *Service) UploadBatch(ctx context.Context, inputs []UploadInput) ([]UploadOutcome, error) {
	if max := s.cfg.MaxFilesPerBatch; max > 0 && len(inputs) > max {
		return nil, fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(inputs), max)
	}

	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	outcomes := make([]UploadOutcome, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, s.uploadOne(ctx, in))
	}
	return outcomes, nil
}

func (s *Service) uploadOne(ctx context.Context, in UploadInput) (out UploadOutcome) {
	out.FileName = in.Name
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in upload", "file", in.Name, "panic", r)
			out.File = nil
			out.Err = fmt.Errorf("internal error: %v", r)
		}
		if out.Err != nil {
			out.Error = FormatUserError(out.Err)
		}
		s.metrics.observeUpload(out.OK())
	}()

	f, err := ParseFile(in.Name, in.Reader, ParseOptions{MaxBytes: s.cfg.MaxFileSize, Category: in.Category})
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			slog.Warn("upload rejected: file too large", "file", in.Name, "limit", s.cfg.MaxFileSize)
		} else {
			slog.Info("upload rejected", "file", in.Name, "error", err)
		}
		out.Err = err
		return out
	}

	s.AddFile(ctx, f)
	out.File, _ = s.File(f.ID)
	return out
}

// AddFile validates an already-parsed file and appends it to the session.
// The service takes ownership of f.
func (s *Service) AddFile(ctx context.Context, f *DataFile) {
	if f.UploadedAt.IsZero() {
		f.UploadedAt = s.now().UTC()
	}
	if f.Original == nil {
		f.Original = f.Rows.Clone()
	}

	start := time.Now()
	s.mu.Lock()
	s.validate(f)
	s.files = append(s.files, f)
	issues := len(f.Issues)
	s.mu.Unlock()

	s.activity.Record(ctx, ActivityEntry{
		Action: ActionUpload,
		FileID: f.ID,
		Detail: fmt.Sprintf("%s (%s, %d rows)", f.Name, f.Category, f.RowCount()),
	})
	slog.Info("file uploaded",
		"file_id", f.ID,
		"file", f.Name,
		"category", f.Category,
		"rows", f.RowCount(),
		"issues", issues,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
