package export

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/network"
	"github.com/dd0wney/cluso-textnet/pkg/validation"
)

// DefaultTable receives results when no table is configured.
const DefaultTable = "textnet_results"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// PGSink stores one row per result with the full result as JSONB.
type PGSink struct {
	pool   *pgxpool.Pool
	table  string
	logger logging.Logger
}

// NewPGSink connects, verifies the connection and creates the table if needed.
func NewPGSink(ctx context.Context, databaseURL, table string, logger logging.Logger) (*PGSink, error) {
	table = validation.DefaultOr(table, DefaultTable)
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGSink{pool: pool, table: table, logger: logging.OrDefault(logger)}
	if _, err := pool.Exec(ctx, createTableSQL(table)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

func createTableSQL(table string) string {
	ident := pgx.Identifier{table}.Sanitize()
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		nodes INTEGER NOT NULL,
		edges INTEGER NOT NULL,
		modularity DOUBLE PRECISION NOT NULL,
		result JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS %s ON %s(category, created_at);
	`, ident, pgx.Identifier{"idx_" + table + "_category"}.Sanitize(), ident)
}

func insertSQL(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (id, category, status, created_at, nodes, edges, modularity, result)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO NOTHING`, pgx.Identifier{table}.Sanitize())
}

func (s *PGSink) Name() string { return KindPostgres }

// Write inserts every result in one batch.
func (s *PGSink) Write(ctx context.Context, results []*network.Result) (int, error) {
	batch := &pgx.Batch{}
	query := insertSQL(s.table)
	total := 0
	for _, r := range results {
		data, err := Encode(r, false)
		if err != nil {
			return 0, err
		}
		total += len(data)
		batch.Queue(query, r.ID, r.Category, string(r.Status), r.CreatedAt,
			len(r.Nodes), len(r.Edges), r.Modularity, data)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for _, r := range results {
		if _, err := br.Exec(); err != nil {
			return 0, fmt.Errorf("insert result %s: %w", r.ID, err)
		}
	}
	s.logger.Debug("results stored", logging.String("table", s.table), logging.Count(len(results)))
	return total, nil
}

// Ping checks the database connection.
func (s *PGSink) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PGSink) Close() error {
	s.pool.Close()
	return nil
}
