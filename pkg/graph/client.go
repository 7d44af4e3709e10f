// Package graph provides the Neo4j/Memgraph client used by the social graph,
// speaking Bolt through the official driver.
package graph

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Client wraps the Neo4j driver. It also carries the process-wide
// availability flag: the startup probe sets it once, and no individual
// request mutates it afterwards.
type Client struct {
	driver       neo4j.DriverWithContext
	logger       ectologger.Logger
	queryTimeout time.Duration
	available    atomic.Bool
}

// Config holds graph database configuration
type Config struct {
	Host         string
	Port         int
	Username     string
	Password     string
	QueryTimeout time.Duration
}

// NewClient creates a new graph database client
func NewClient(cfg Config, logger ectologger.Logger) (*Client, error) {
	uri := fmt.Sprintf("bolt://%s:%d", cfg.Host, cfg.Port)

	auth := neo4j.NoAuth()
	if cfg.Username != "" {
		auth = neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(uri, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph driver: %w", err)
	}

	return &Client{
		driver:       driver,
		logger:       logger,
		queryTimeout: cfg.QueryTimeout,
	}, nil
}

// Close closes the driver connection
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Probe verifies connectivity and fixes the availability flag. Called once
// at startup; when the store is unreachable the service runs in degraded
// mode and every graph operation short-circuits with Unavailable.
func (c *Client) Probe(ctx context.Context) error {
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		c.available.Store(false)
		return fmt.Errorf("graph store unreachable: %w", err)
	}
	c.available.Store(true)
	return nil
}

// Ping checks connectivity without touching the availability flag.
// Used by the health endpoints.
func (c *Client) Ping(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// Available reports whether the startup probe succeeded.
func (c *Client) Available() bool {
	return c.available.Load()
}

// Session creates a new session with the given access mode
func (c *Client) Session(ctx context.Context, accessMode neo4j.AccessMode) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode: accessMode,
	})
}

// ExecuteWrite runs a write transaction under the configured query timeout.
func (c *Client) ExecuteWrite(ctx context.Context, work func(tx neo4j.ManagedTransaction) (any, error)) (any, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.Client.ExecuteWrite")
	defer span.End()

	if c.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	session := c.Session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	return session.ExecuteWrite(ctx, work)
}

// ExecuteRead runs a read transaction under the configured query timeout.
func (c *Client) ExecuteRead(ctx context.Context, work func(tx neo4j.ManagedTransaction) (any, error)) (any, error) {
	ctx, span := tracing.StartSpan(ctx, "graph.Client.ExecuteRead")
	defer span.End()

	if c.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	session := c.Session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	return session.ExecuteRead(ctx, work)
}
