package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leads-cli/internal/model"
)

// SQLiteStore implements LeadStore using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given DSN and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// sqliteTimeLayout is the datetime text format used for range bounds, so
// comparisons against the created_time column stay lexicographic-safe.
const sqliteTimeLayout = "2006-01-02 15:04:05.999999999"

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	lead_id      TEXT PRIMARY KEY,
	form_id      TEXT,
	created_time DATETIME,
	ad_id        TEXT,
	adset_id     TEXT,
	campaign_id  TEXT,
	platform     TEXT,
	is_organic   BOOLEAN,
	answers      TEXT
);

CREATE INDEX IF NOT EXISTS idx_leads_form_id ON leads(form_id);
CREATE INDEX IF NOT EXISTS idx_leads_created_time ON leads(created_time);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) QueryLeads(ctx context.Context, filter LeadFilter) (*model.Table, error) {
	clauses := []string{"1=1"}
	var args []any

	if filter.FormID != "" {
		clauses = append(clauses, "form_id = ?")
		args = append(args, filter.FormID)
	}
	if filter.Start != nil {
		clauses = append(clauses, "created_time >= ?")
		args = append(args, filter.Start.UTC().Format(sqliteTimeLayout))
	}
	if end := filter.EndBound(); end != nil {
		clauses = append(clauses, "created_time <= ?")
		args = append(args, end.UTC().Format(sqliteTimeLayout))
	}

	query := "SELECT * FROM leads WHERE " + strings.Join(clauses, " AND ") + " ORDER BY created_time"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query leads")
	}
	defer rows.Close() //nolint:errcheck

	columns, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: read columns")
	}

	var records []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead row")
		}
		rec := make(map[string]any, len(columns))
		for i, c := range columns {
			rec[c] = values[i]
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate leads")
	}

	return model.BuildRecordTable(columns, records), nil
}
