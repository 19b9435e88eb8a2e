// Package mongo implements the repository ports on MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "book-catalog"
)

// Config locates the MongoDB deployment and the catalog database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Conn is an open client bound to the catalog database.
type Conn struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client and waits for a primary to answer a ping.
func Connect(ctx context.Context, cfg Config) (*Conn, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout).
		SetRetryWrites(true)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	conn := &Conn{client: client, db: client.Database(cfg.Database)}
	if err := conn.Ping(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return conn, nil
}

// Database returns the catalog database.
func (c *Conn) Database() *mongo.Database { return c.db }

// Ping checks that the primary is reachable.
func (c *Conn) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Conn) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
