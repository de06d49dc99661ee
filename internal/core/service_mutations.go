package core

import (
	"context"
	"fmt"
	"log/slog"
)

// RemoveFile drops a file and its issues from the session.
func (s *Service) RemoveFile(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	name := s.files[i].Name
	s.files = append(s.files[:i], s.files[i+1:]...)
	s.mu.Unlock()

	s.activity.Record(ctx, ActivityEntry{Action: ActionFileRemove, FileID: id, Detail: name})
	slog.Info("file removed", "file_id", id, "file", name)
	return nil
}

// EditCell sets one working cell and re-validates the file. The working grid
// is replaced as a whole; the original grid is untouched.
func (s *Service) EditCell(ctx context.Context, id string, row, col int, value string) (*DataFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	f := s.files[i]
	if row < 0 || row >= len(f.Rows) || col < 0 || col >= len(f.Headers) {
		return nil, fmt.Errorf("%w: row %d, column %d", ErrCellOutOfRange, row, col)
	}

	next := f.Rows.Clone()
	next[row] = fitRow(next[row], len(f.Headers))
	old := next[row][col]
	next[row][col] = value

	updated := *f
	updated.Rows = next
	s.validate(&updated)
	s.files[i] = &updated

	s.activity.Record(ctx, ActivityEntry{
		Action:   ActionCellEdit,
		FileID:   id,
		Row:      row,
		Column:   f.Headers[col],
		OldValue: old,
		NewValue: value,
	})
	slog.Debug("cell edited", "file_id", id, "row", row, "column", f.Headers[col], "issues", len(updated.Issues))
	return updated.clone(), nil
}

// ReplaceRows swaps in a whole working grid, as a grid editor commit does,
// and re-validates. Rows are fitted to the header width.
func (s *Service) ReplaceRows(ctx context.Context, id string, rows Grid) (*DataFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	f := s.files[i]

	next := make(Grid, len(rows))
	for r, row := range rows {
		next[r] = fitRow(row, len(f.Headers))
	}

	updated := *f
	updated.Rows = next
	s.validate(&updated)
	s.files[i] = &updated

	s.activity.Record(ctx, ActivityEntry{
		Action: ActionRowsReplace,
		FileID: id,
		Detail: fmt.Sprintf("%d rows", len(next)),
	})
	return updated.clone(), nil
}

// SetCategory overrides a file's inferred entity type and re-validates it.
func (s *Service) SetCategory(ctx context.Context, id string, c Category) (*DataFile, error) {
	if _, ok := LookupSchema(c); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	f := s.files[i]

	updated := *f
	updated.Category = c
	s.validate(&updated)
	s.files[i] = &updated

	s.activity.Record(ctx, ActivityEntry{
		Action:   ActionCategoryChange,
		FileID:   id,
		OldValue: string(f.Category),
		NewValue: string(c),
	})
	return updated.clone(), nil
}

// Revalidate runs a fresh validation pass over every file and returns the
// combined issue list.
func (s *Service) Revalidate(ctx context.Context) []ValidationIssue {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []ValidationIssue
	for i, f := range s.files {
		updated := *f
		s.validate(&updated)
		s.files[i] = &updated
		all = append(all, updated.Issues...)
	}
	slog.Info("session revalidated", "files", len(s.files), "issues", len(all))
	return all
}
