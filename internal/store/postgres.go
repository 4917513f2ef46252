package store

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leads-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the store; pgxmock satisfies
// it, which keeps the postgres store unit-testable without a database.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements LeadStore using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool. The pool is
// constructed once at process start; there is no implicit reconnection.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 5
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	lead_id      TEXT PRIMARY KEY,
	form_id      TEXT,
	created_time TIMESTAMPTZ,
	ad_id        TEXT,
	adset_id     TEXT,
	campaign_id  TEXT,
	platform     TEXT,
	is_organic   BOOLEAN,
	answers      JSONB
);

CREATE INDEX IF NOT EXISTS idx_leads_form_id ON leads(form_id);
CREATE INDEX IF NOT EXISTS idx_leads_created_time ON leads(created_time);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// buildLeadQuery assembles the filtered SELECT with named bind parameters.
func buildLeadQuery(filter LeadFilter) (string, pgx.NamedArgs) {
	clauses := []string{"1=1"}
	args := pgx.NamedArgs{}

	if filter.FormID != "" {
		clauses = append(clauses, "form_id = @form_id")
		args["form_id"] = filter.FormID
	}
	if filter.Start != nil {
		clauses = append(clauses, "created_time >= @start_date")
		args["start_date"] = *filter.Start
	}
	if end := filter.EndBound(); end != nil {
		clauses = append(clauses, "created_time <= @end_date")
		args["end_date"] = *end
	}

	query := "SELECT * FROM leads WHERE " + strings.Join(clauses, " AND ") + " ORDER BY created_time"
	return query, args
}

func (s *PostgresStore) QueryLeads(ctx context.Context, filter LeadFilter) (*model.Table, error) {
	query, args := buildLeadQuery(filter)

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query leads")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = string(fd.Name)
	}

	var records []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "postgres: read lead row")
		}
		rec := make(map[string]any, len(columns))
		for i, c := range columns {
			rec[c] = values[i]
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate leads")
	}

	return model.BuildRecordTable(columns, records), nil
}
