package core

import "errors"

// Sentinel errors returned by the session, parser, rule store and weights.
// Wrap with fmt.Errorf("...: %w", err) to add context; MapError recognizes the
// messages below.
var (
	ErrEmptyFile         = errors.New("empty file")
	ErrNoDataRows        = errors.New("no data rows after header")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrFileNotFound      = errors.New("file not found")
	ErrCellOutOfRange    = errors.New("cell out of range")
	ErrRuleNotFound      = errors.New("rule not found")
	ErrInvalidRule       = errors.New("invalid rule")
	ErrUnknownWeight     = errors.New("unknown weight")
	ErrInvalidWeight     = errors.New("invalid weight value")
	ErrUnknownTemplate   = errors.New("unknown priority template")
	ErrWeightsUnbalanced = errors.New("weights unbalanced")
	ErrBlockingIssues    = errors.New("blocking validation errors")
	ErrUnsupportedExport = errors.New("unsupported export format")
	ErrTooManyFiles      = errors.New("too many files in batch")
	ErrDuplicateRuleID   = errors.New("rule id already exists")
	ErrSearchCancelled   = errors.New("search cancelled")
	ErrFileTooLarge      = errors.New("file too large")
	ErrTooManyUploads    = errors.New("too many uploads in progress, please try again later")
)
