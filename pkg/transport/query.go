package transport

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the postgres driver.
	_ "github.com/lib/pq"
)

// QueryRunner executes a resolved query against the connection a
// credential points at and returns the rows as generic maps.
type QueryRunner interface {
	Query(ctx context.Context, dsn, query string) ([]map[string]any, error)
}

// PostgresRunner runs queries against PostgreSQL via database/sql.
type PostgresRunner struct{}

// NewPostgresRunner creates a PostgreSQL query runner.
func NewPostgresRunner() *PostgresRunner {
	return &PostgresRunner{}
}

func (r *PostgresRunner) Query(ctx context.Context, dsn, query string) ([]map[string]any, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	results := make([]map[string]any, 0)

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))

		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))

		for i, column := range columns {
			if raw, ok := values[i].([]byte); ok {
				row[column] = string(raw)
			} else {
				row[column] = values[i]
			}
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return results, nil
}
