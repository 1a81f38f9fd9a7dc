// Package load implements the full-refresh staging writes: truncate the
// destination, then insert the extracted rows in committed batches.
package load

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chemlink/analytics-etl/internal/config"
	"github.com/chemlink/analytics-etl/internal/etl/report"
	"github.com/chemlink/analytics-etl/internal/etl/target"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

type Loader struct {
	Pool   *pgxpool.Pool
	Log    *logger.Logger
	Report *report.Run
	Tuning config.Tuning
}

// BatchSize picks the insert batch size for a row set. Large extracts use
// a bigger batch so a full refresh stays within a reasonable number of
// round trips; small ones keep batches short to bound rollback cost.
func BatchSize(rows int, t config.Tuning) int {
	if rows > t.LargeRowThreshold {
		return t.BatchSizeLarge
	}
	return t.BatchSizeSmall
}

// Batches splits n rows into [start,end) ranges of at most size rows.
func Batches(n, size int) [][2]int {
	if n <= 0 || size <= 0 {
		return nil
	}
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// Replace truncates tbl and inserts rows in batches, committing after each
// batch. It returns the number of rows durably inserted. A truncate
// failure is recorded on the run report but tolerated, so the insert
// still runs and a first pass against a fresh schema can populate the
// table; an insert failure rolls back only the current batch, abandons
// the remainder, and returns the partial count with the error.
func (l *Loader) Replace(ctx context.Context, tbl target.Table, cols []string, rows [][]any) (int, error) {
	for _, c := range cols {
		if !target.ValidIdent(c) {
			return 0, fmt.Errorf("load %s: unsafe column name %q", tbl.Qualified(), c)
		}
	}

	l.truncate(ctx, tbl)

	if len(rows) == 0 {
		l.Log.Info("table refreshed", "table", tbl.Qualified(), "rows", 0)
		return 0, nil
	}

	insertSQL := buildInsert(tbl, cols)
	size := BatchSize(len(rows), l.Tuning)
	ranges := Batches(len(rows), size)

	var inserted atomic.Int64
	heartbeat := time.Duration(l.Tuning.HeartbeatSeconds) * time.Second
	hbCtx, stopHB := context.WithCancel(ctx)
	defer stopHB()
	go l.heartbeatLoop(hbCtx, heartbeat, tbl, &inserted, len(rows))

	for i, r := range ranges {
		if err := ctx.Err(); err != nil {
			return int(inserted.Load()), err
		}
		if err := l.insertBatch(ctx, insertSQL, rows[r[0]:r[1]]); err != nil {
			return int(inserted.Load()), fmt.Errorf("load %s batch %d/%d: %w",
				tbl.Qualified(), i+1, len(ranges), err)
		}
		inserted.Add(int64(r[1] - r[0]))
		l.Log.Info("batch committed",
			"table", tbl.Qualified(),
			"batch", i+1,
			"batches", len(ranges),
			"rows", inserted.Load(),
			"total", len(rows),
		)
	}
	return int(inserted.Load()), nil
}

func (l *Loader) truncate(ctx context.Context, tbl target.Table) {
	if err := l.truncateTx(ctx, tbl); err != nil {
		l.recordTruncateFailure(tbl, err)
	}
}

func (l *Loader) truncateTx(ctx context.Context, tbl target.Table) error {
	tx, err := l.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+tbl.Qualified()+" CASCADE"); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// A failed truncate leaves stale rows in the destination. The load still
// proceeds, but the failure goes on the report so the run exits nonzero.
func (l *Loader) recordTruncateFailure(tbl target.Table, err error) {
	l.Log.Warn("truncate failed, continuing with insert",
		"table", tbl.Qualified(), "error", err)
	if l.Report != nil {
		l.Report.Fail("truncate", tbl.Qualified(), err)
	}
}

func (l *Loader) insertBatch(ctx context.Context, insertSQL string, rows [][]any) error {
	tx, err := l.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	b := &pgx.Batch{}
	for _, row := range rows {
		b.Queue(insertSQL, row...)
	}
	br := tx.SendBatch(ctx, b)
	for range rows {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (l *Loader) heartbeatLoop(ctx context.Context, every time.Duration, tbl target.Table, inserted *atomic.Int64, total int) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Log.Info("load in progress",
				"table", tbl.Qualified(),
				"rows", inserted.Load(),
				"total", total,
			)
		}
	}
}

func buildInsert(tbl target.Table, cols []string) string {
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tbl.Qualified(),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
}
