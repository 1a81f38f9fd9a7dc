package neo4jdb

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/chemlink/analytics-etl/internal/config"
	"github.com/chemlink/analytics-etl/internal/platform/logger"
)

type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
}

// New builds a verified driver for the configured graph store. A nil client
// with nil error means the graph store is not configured and graph stages
// should be skipped.
func New(cfg config.GraphConfig, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("neo4jdb: logger required")
	}
	if !cfg.Configured() {
		return nil, nil
	}

	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.SocketConnectTimeout = 10 * time.Second
	})
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: init driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4jdb: verify connectivity: %w", err)
	}

	return &Client{
		Driver:   driver,
		Database: cfg.Database,
		log:      log.With("client", "Neo4jDB"),
	}, nil
}

// Collect runs one read query in its own session and maps the named record
// fields into positional rows. Absent fields come back as nil.
func (c *Client) Collect(ctx context.Context, query string, keys []string) ([][]any, error) {
	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: c.Database,
	})
	defer func() { _ = session.Close(ctx) }()

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("neo4jdb: run query: %w", err)
	}

	var rows [][]any
	for result.Next(ctx) {
		record := result.Record()
		row := make([]any, len(keys))
		for i, key := range keys {
			if v, ok := record.Get(key); ok {
				row[i] = normalizeValue(v)
			}
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("neo4jdb: consume result: %w", err)
	}
	return rows, nil
}

// normalizeValue converts driver temporal types into values the warehouse
// insert path understands.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case neo4j.Date:
		return t.Time()
	case neo4j.LocalDateTime:
		return t.Time()
	case neo4j.Time:
		return t.Time()
	default:
		return v
	}
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
