package store

import (
	"encoding/json"
	"os"
	"time"

	"go.uber.org/zap"

	"almacen/internal/model"
)

// Log is the append-only global ledger of every create/delete/loan/return
// action, independent of the per-item histories. Past entries are never
// rewritten.
type Log struct {
	path    string
	entries []model.LogEntry
	logger  *zap.Logger
	now     func() time.Time
}

// OpenLog loads the global log from path, failing open to an empty ledger.
// The log file is not created until the first append.
func OpenLog(path string, logger *zap.Logger) (*Log, LoadResult) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Log{path: path, logger: logger, now: time.Now}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, LoadInitialized
	}
	if err != nil {
		return l, LoadRecovered
	}
	if err := json.Unmarshal(raw, &l.entries); err != nil {
		l.entries = nil
		return l, LoadRecovered
	}
	return l, LoadOK
}

// Append stamps the entry with the current local date and time and adds it
// to the ledger. Persistence is best effort: a write failure never blocks
// the operation being recorded. The in-memory ledger still holds the
// entry for the rest of the session, and the failure is only logged. This
// is deliberately weaker than Store.Save.
func (l *Log) Append(e model.LogEntry) {
	now := l.now()
	e.Date = now.Format(model.DateLayout)
	e.Time = now.Format(model.TimeLayout)
	l.entries = append(l.entries, e)

	raw, err := json.MarshalIndent(l.entries, "", fileIndent)
	if err == nil {
		err = os.WriteFile(l.path, raw, 0o644)
	}
	if err != nil {
		l.logger.Warn("global log entry not persisted",
			zap.String("action", string(e.Action)),
			zap.String("code", e.Code),
			zap.Error(err))
	}
}

// Entries returns the full ledger in append order.
func (l *Log) Entries() []model.LogEntry {
	return l.entries
}

// EntriesForDate returns the entries whose date matches exactly.
func (l *Log) EntriesForDate(date string) []model.LogEntry {
	var matches []model.LogEntry
	for _, e := range l.entries {
		if e.Date == date {
			matches = append(matches, e)
		}
	}
	return matches
}
