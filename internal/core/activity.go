package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActivityAction names a change made to the session.
type ActivityAction string

const (
	ActionUpload         ActivityAction = "upload"
	ActionFileRemove     ActivityAction = "file_remove"
	ActionCellEdit       ActivityAction = "cell_edit"
	ActionRowsReplace    ActivityAction = "rows_replace"
	ActionCategoryChange ActivityAction = "category_change"
	ActionRuleAdd        ActivityAction = "rule_add"
	ActionRuleUpdate     ActivityAction = "rule_update"
	ActionRuleDelete     ActivityAction = "rule_delete"
	ActionRuleToggle     ActivityAction = "rule_toggle"
	ActionRulesImport    ActivityAction = "rules_import"
	ActionWeightsChange  ActivityAction = "weights_change"
	ActionSessionReset   ActivityAction = "session_reset"
)

// ActivityEntry is one recorded change.
type ActivityEntry struct {
	ID        string         `json:"id"`
	Action    ActivityAction `json:"action"`
	FileID    string         `json:"fileId,omitempty"`
	RuleID    string         `json:"ruleId,omitempty"`
	Row       int            `json:"row"`
	Column    string         `json:"column,omitempty"`
	OldValue  string         `json:"oldValue,omitempty"`
	NewValue  string         `json:"newValue,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	IPAddress string         `json:"ipAddress,omitempty"`
	UserAgent string         `json:"userAgent,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// DefaultActivityLimit bounds the in-memory activity log.
const DefaultActivityLimit = 500

// ActivityLog keeps the most recent entries, oldest dropped first.
type ActivityLog struct {
	mu      sync.Mutex
	limit   int
	entries []ActivityEntry
	now     func() time.Time
}

// NewActivityLog creates a log holding at most limit entries.
func NewActivityLog(limit int) *ActivityLog {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	return &ActivityLog{limit: limit, now: time.Now}
}

// Record stamps the entry with an ID, time and the client from ctx, then stores it.
func (l *ActivityLog) Record(ctx context.Context, e ActivityEntry) ActivityEntry {
	e.ID = uuid.NewString()
	e.CreatedAt = l.now().UTC()
	e.IPAddress, e.UserAgent = ClientFromContext(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
	return e
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (l *ActivityLog) Recent(n int) []ActivityEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]ActivityEntry, 0, n)
	for i := len(l.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// ForFile returns the entries touching one file, newest first.
func (l *ActivityLog) ForFile(fileID string) []ActivityEntry {
	var out []ActivityEntry
	for _, e := range l.Recent(0) {
		if e.FileID == fileID {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops every entry.
func (l *ActivityLog) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
