// Package ledger provides an append-only outcome history for deskmend
// runs. It exists for auditing only: the reconciler never consults it,
// so every invocation still starts from zero prior state.
package ledger

import (
	"database/sql"
	"time"

	"github.com/dokzlo13/deskmend/internal/reconcile"
)

// Entry is one recorded outcome row.
type Entry struct {
	ID          int64
	RunID       string
	SettingID   string
	Kind        string
	Observed    string
	Level       string
	Detail      string
	Remediated  bool
	Remediation string
	CreatedAt   time.Time
}

// Ledger provides append-only outcome logging
type Ledger struct {
	db *sql.DB
}

// New creates a new Ledger using the provided database connection
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Append records one outcome of the given run
func (l *Ledger) Append(runID string, o reconcile.Outcome) error {
	remediated := 0
	if o.Remediated {
		remediated = 1
	}
	_, err := l.db.Exec(`
		INSERT INTO run_outcomes (run_id, setting_id, kind, observed, level, detail, remediated, remediation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, o.SettingID, string(o.Kind), o.Observed.String(), string(o.Level), o.Detail, remediated, string(o.Remediation), time.Now().UTC().Unix())
	return err
}

// AppendRun records every outcome of one pass
func (l *Ledger) AppendRun(rc *reconcile.RunContext) error {
	for _, o := range rc.Outcomes {
		if err := l.Append(rc.RunID, o); err != nil {
			return err
		}
	}
	return nil
}

// RunOutcomes returns the recorded outcomes of one run in insertion order
func (l *Ledger) RunOutcomes(runID string) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, run_id, setting_id, kind, observed, level, detail, remediated, remediation, created_at
		FROM run_outcomes
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SettingHistory returns the most recent outcomes recorded for one setting
func (l *Ledger) SettingHistory(settingID string, limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, run_id, setting_id, kind, observed, level, detail, remediated, remediation, created_at
		FROM run_outcomes
		WHERE setting_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, settingID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// DeleteOlderThan removes entries older than the specified duration (retention policy)
func (l *Ledger) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()
	result, err := l.db.Exec(`
		DELETE FROM run_outcomes WHERE created_at < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var e Entry
		var remediated int
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.RunID, &e.SettingID, &e.Kind, &e.Observed, &e.Level, &e.Detail, &remediated, &e.Remediation, &createdAt); err != nil {
			return nil, err
		}
		e.Remediated = remediated == 1
		e.CreatedAt = time.Unix(createdAt, 0).UTC()
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
