// Package history keeps a journal of workflow outcomes.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/jman/internal/core/domain"
	"go.trai.ch/jman/internal/core/ports"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

var _ ports.Journal = (*SQLite)(nil)

const schema = `CREATE TABLE IF NOT EXISTS workflow_history(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	occurred_at INTEGER NOT NULL,
	operation TEXT NOT NULL,
	instance_id TEXT NOT NULL,
	build_label TEXT,
	outcome TEXT NOT NULL,
	error TEXT
);`

// SQLite writes history events to a SQLite database.
type SQLite struct {
	db *sql.DB
}

// Open opens or creates the journal.
// DSN format:
//   - "sqlite:///path/to/file.db"
//   - "/path/to/file.db"
//   - ":memory:"
func Open(ctx context.Context, dsn string) (*SQLite, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, zerr.Wrap(zerr.New("empty sqlite dsn"), domain.ErrHistoryFailed.Error())
	}
	if strings.HasPrefix(strings.ToLower(dsn), "sqlite://") {
		dsn = dsn[len("sqlite://"):]
	}

	if path := filePath(dsn); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrHistoryFailed.Error()), "dsn", dsn)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrHistoryFailed.Error()), "dsn", dsn)
	}
	// One connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrHistoryFailed.Error()), "dsn", dsn)
	}

	return &SQLite{db: db}, nil
}

// filePath returns the filesystem path of a file DSN, or "" for in-memory databases.
func filePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" || p == ":memory:" {
		return ""
	}
	return p
}

// Record appends an event. A zero OccurredAt is stamped with the current time.
func (s *SQLite) Record(ctx context.Context, e domain.Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workflow_history(occurred_at, operation, instance_id, build_label, outcome, error)
		VALUES(?, ?, ?, ?, ?, ?);`,
		e.OccurredAt.UTC().UnixNano(), string(e.Operation), e.InstanceID,
		nullable(e.BuildLabel), string(e.Outcome), nullable(e.Error))
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrHistoryFailed.Error()), "operation", string(e.Operation))
	}
	return nil
}

// Recent returns up to limit events, newest first. A non-positive limit returns everything.
func (s *SQLite) Recent(ctx context.Context, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, occurred_at, operation, instance_id, build_label, outcome, error
		FROM workflow_history
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?;`, limit)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrHistoryFailed.Error())
	}
	defer func() { _ = rows.Close() }()

	var events []domain.Event
	for rows.Next() {
		var (
			e          domain.Event
			occurred   int64
			op, out    string
			label, msg sql.NullString
		)
		if err := rows.Scan(&e.ID, &occurred, &op, &e.InstanceID, &label, &out, &msg); err != nil {
			return nil, zerr.Wrap(err, domain.ErrHistoryFailed.Error())
		}
		e.OccurredAt = time.Unix(0, occurred).UTC()
		e.Operation = domain.Operation(op)
		e.Outcome = domain.Outcome(out)
		e.BuildLabel = label.String
		e.Error = msg.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrHistoryFailed.Error())
	}
	return events, nil
}

// Close releases the database.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
