package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// Client wraps the Neo4j driver for reuse across repositories
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

// Config holds Neo4j connection configuration
type Config struct {
	URI      string
	Username string
	Password string
	Database string

	// VerifyAttempts bounds the connectivity check at startup
	VerifyAttempts uint
	VerifyDelay    time.Duration
	Logger         *logging.Logger
}

// NewClient creates a driver and retries the connectivity check until
// the server answers or the attempts run out
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j: URI is required")
	}
	if cfg.VerifyAttempts == 0 {
		cfg.VerifyAttempts = 5
	}
	if cfg.VerifyDelay <= 0 {
		cfg.VerifyDelay = 2 * time.Second
	}
	log := logging.OrNop(cfg.Logger).Named("neo4j")

	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	err = retry.Do(func() error {
		verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return driver.VerifyConnectivity(verifyCtx)
	},
		retry.Context(ctx),
		retry.Attempts(cfg.VerifyAttempts),
		retry.Delay(cfg.VerifyDelay),
		retry.DelayType(retry.FixedDelay),
		retry.OnRetry(func(attempt uint, err error) {
			log.Warn("connectivity check failed", "attempt", attempt+1, "error", err)
		}),
	)
	if err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	log.Info("connected", "uri", cfg.URI)
	return &Client{driver: driver, database: cfg.Database}, nil
}

// Driver returns the underlying Neo4j driver for repository use
func (c *Client) Driver() neo4j.DriverWithContext {
	return c.driver
}

// Close closes the Neo4j driver connection
func (c *Client) Close(ctx context.Context) error {
	if c.driver != nil {
		return c.driver.Close(ctx)
	}
	return nil
}

// NewSession creates a session on the configured database
func (c *Client) NewSession(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: c.database})
}

// Read runs query in a managed read transaction and collects every record
// before the transaction closes
func (c *Client) Read(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	session := c.NewSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]*neo4j.Record), nil
}

// Write runs fn in a managed write transaction
func (c *Client) Write(ctx context.Context, fn func(tx neo4j.ManagedTransaction) (any, error)) (any, error) {
	session := c.NewSession(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	return session.ExecuteWrite(ctx, fn)
}
