// Package schemagate checks which optional staging tables exist before a
// stage runs against them. Graph-derived sub-steps are skipped with a
// warning instead of failing the whole run when the graph extract has
// never been executed.
package schemagate

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chemlink/analytics-etl/internal/etl/target"
)

// Availability is the outcome of a gate check against one table set.
type Availability struct {
	Missing []target.Table
}

func (a Availability) Available() bool { return len(a.Missing) == 0 }

func (a Availability) MissingNames() []string {
	names := make([]string, 0, len(a.Missing))
	for _, t := range a.Missing {
		names = append(names, t.Qualified())
	}
	return names
}

const existsQuery = `
SELECT EXISTS (
    SELECT 1 FROM information_schema.tables
    WHERE table_schema = $1 AND table_name = $2
)`

// Check probes information_schema for each table and reports the subset
// that does not exist. A query error aborts the check; callers treat that
// as a hard failure, not a gate miss.
func Check(ctx context.Context, pool *pgxpool.Pool, tables []target.Table) (Availability, error) {
	var avail Availability
	for _, t := range tables {
		var exists bool
		if err := pool.QueryRow(ctx, existsQuery, t.Schema, t.Name).Scan(&exists); err != nil {
			return Availability{}, err
		}
		if !exists {
			avail.Missing = append(avail.Missing, t)
		}
	}
	return avail, nil
}
