package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tableflip.dev/caltrack/pkg/entry"
	"tableflip.dev/caltrack/pkg/ledger"
)

var postgresColumns = map[string]string{
	ledger.FieldRecordedAt: "recorded_at",
}

// Postgres is a ledger.Service over a single PostgreSQL table.
type Postgres struct {
	db    *sql.DB
	table string
}

// OpenPostgres connects using dsn and makes sure the table exists.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, errors.New("store: missing setting postgres.dsn")
	}
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	p := NewPostgres(db, cfg.Table)
	if err := p.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgres wraps an open handle. An empty table name uses calorie_entries.
func NewPostgres(db *sql.DB, table string) *Postgres {
	if table == "" {
		table = "calorie_entries"
	}
	return &Postgres{db: db, table: table}
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// EnsureSchema creates the table and its time index when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements(p.table) {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: ensure schema: %w", err)
		}
	}
	return nil
}

// Create implements ledger.Service.
func (p *Postgres) Create(ctx context.Context, r ledger.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	stmt := fmt.Sprintf("INSERT INTO %s (food, calories, recorded_at) VALUES ($1, $2, $3) RETURNING id",
		pq.QuoteIdentifier(p.table))
	var id string
	if err := p.db.QueryRowContext(ctx, stmt, strings.TrimSpace(r.Food), r.Calories, r.RecordedAt.UTC()).Scan(&id); err != nil {
		return "", fmt.Errorf("store: insert entry: %w", err)
	}
	return id, nil
}

// Query implements ledger.Service.
func (p *Postgres) Query(ctx context.Context, q ledger.Query) (ledger.Result, error) {
	countSQL, selectSQL, args, err := buildQuery(p.table, q)
	if err != nil {
		return ledger.Result{}, err
	}

	res := ledger.Result{Entries: make([]entry.Entry, 0)}
	filterArgs := args[:len(args)-len(pageArgs(q))]
	if err := p.db.QueryRowContext(ctx, countSQL, filterArgs...).Scan(&res.Total); err != nil {
		return ledger.Result{}, fmt.Errorf("store: count entries: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, selectSQL, args...)
	if err != nil {
		return ledger.Result{}, fmt.Errorf("store: select entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		e := entry.Entry{}
		if err := rows.Scan(&e.ID, &e.Food, &e.Calories, &e.RecordedAt.Time); err != nil {
			return ledger.Result{}, fmt.Errorf("store: scan entry: %w", err)
		}
		res.Entries = append(res.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return ledger.Result{}, fmt.Errorf("store: select entries: %w", err)
	}
	return res, nil
}

func schemaStatements(table string) []string {
	quoted := pq.QuoteIdentifier(table)
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	food TEXT NOT NULL,
	calories INTEGER NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL
)`, quoted),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (recorded_at)",
			pq.QuoteIdentifier(table+"_recorded_at_idx"), quoted),
	}
}

func pageArgs(q ledger.Query) []interface{} {
	var args []interface{}
	if q.Limit > 0 {
		args = append(args, q.Limit)
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
	}
	return args
}

// buildQuery renders q as a count statement and a page statement. The
// returned args belong to the page statement; the count statement uses the
// leading filter args only.
func buildQuery(table string, q ledger.Query) (string, string, []interface{}, error) {
	var (
		where []string
		args  []interface{}
	)
	for _, f := range q.Filters {
		col, ok := postgresColumns[f.Field]
		if !ok {
			return "", "", nil, fmt.Errorf("store: unknown field %q", f.Field)
		}
		var op string
		switch f.Op {
		case ledger.OpGTE:
			op = ">="
		case ledger.OpLT:
			op = "<"
		default:
			return "", "", nil, fmt.Errorf("store: unsupported operator %q", f.Op)
		}
		args = append(args, f.Value.UTC())
		where = append(where, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}

	from := "FROM " + pq.QuoteIdentifier(table)
	if len(where) > 0 {
		from += " WHERE " + strings.Join(where, " AND ")
	}
	countSQL := "SELECT COUNT(*) " + from

	var order []string
	for _, o := range q.OrderBy {
		col, ok := postgresColumns[o.Field]
		if !ok {
			return "", "", nil, fmt.Errorf("store: unknown field %q", o.Field)
		}
		dir := "ASC"
		if o.Descending {
			dir = "DESC"
		}
		order = append(order, col+" "+dir)
	}
	order = append(order, "id ASC")

	selectSQL := "SELECT id, food, calories, recorded_at " + from + " ORDER BY " + strings.Join(order, ", ")
	if q.Limit > 0 {
		args = append(args, q.Limit)
		selectSQL += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		selectSQL += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return countSQL, selectSQL, args, nil
}
