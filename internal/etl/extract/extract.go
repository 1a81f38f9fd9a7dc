// Package extract pulls rows out of the relational sources and replays
// them into the warehouse staging schema through the loader.
package extract

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chemlink/analytics-etl/internal/etl/load"
	"github.com/chemlink/analytics-etl/internal/etl/report"
	"github.com/chemlink/analytics-etl/internal/etl/target"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

// Query runs sql against the source pool and returns the result column
// names alongside the row values, in result-set order.
func Query(ctx context.Context, pool *pgxpool.Pool, sql string, args ...any) ([]string, [][]any, error) {
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}

	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, out, nil
}

// IdentitySet is the set of root person IDs a source extract produced.
// Dependent tables are only pulled for members of this set so orphaned
// rows in the source never reach staging.
type IdentitySet struct {
	ids  []string
	seen map[string]struct{}
}

// NewIdentitySet collects the first column of each row, which every root
// person query aliases to the text form of the primary key.
func NewIdentitySet(rows [][]any) *IdentitySet {
	s := &IdentitySet{seen: make(map[string]struct{}, len(rows))}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		id, ok := row[0].(string)
		if !ok {
			id = fmt.Sprint(row[0])
		}
		if _, dup := s.seen[id]; dup {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

func (s *IdentitySet) Len() int { return len(s.ids) }

func (s *IdentitySet) Contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// IDs returns the member IDs in first-seen order, for binding as an
// ANY($1) parameter.
func (s *IdentitySet) IDs() []string { return s.ids }

// job carries the shared plumbing for one source's extract run.
type job struct {
	source *pgxpool.Pool
	loader *load.Loader
	run    *report.Run
	log    *logger.Logger
}

// replace loads cols/rows into tbl, recording either the durable row
// count or the failure. A failed table does not stop the remaining
// tables of the same source.
func (j *job) replace(ctx context.Context, step string, tbl target.Table, cols []string, rows [][]any) {
	n, err := j.loader.Replace(ctx, tbl, cols, rows)
	if err != nil {
		j.run.RecordTable(tbl.Qualified(), n)
		j.run.Fail(step, tbl.Qualified(), err)
		return
	}
	j.run.RecordTable(tbl.Qualified(), n)
}

// dependent extracts one table filtered to the identity set and loads it.
func (j *job) dependent(ctx context.Context, step string, tbl target.Table, sql string, set *IdentitySet) {
	if err := ctx.Err(); err != nil {
		return
	}
	cols, rows, err := Query(ctx, j.source, sql, set.IDs())
	if err != nil {
		j.run.Fail(step, tbl.Qualified(), err)
		return
	}
	j.log.Info("extracted", "step", step, "rows", len(rows))
	j.replace(ctx, step, tbl, cols, rows)
}
