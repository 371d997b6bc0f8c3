// Package mongodb adapts the ProductStock, outbox, and snapshot ports onto
// MongoDB (spec §6.3: product_stocks / outbox_events / snapshot collections
// live in the document store), grounded on the teacher's common/mmongo
// connection hub.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// Connection is a singleton handle to one MongoDB deployment, lazily
// connecting on first use.
type Connection struct {
	URI       string
	Database  string
	client    *mongo.Client
	connected bool
	log       mlog.Logger
}

// NewConnection builds a Connection; it does not dial until GetDB is called.
func NewConnection(uri, database string, log mlog.Logger) *Connection {
	if log == nil {
		log = mlog.NopLogger{}
	}

	return &Connection{URI: uri, Database: database, log: log}
}

// Connect dials MongoDB and verifies the connection with a ping.
func (c *Connection) Connect(ctx context.Context) error {
	c.log.Info("mongodb: connecting")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.URI))
	if err != nil {
		return fmt.Errorf("mongodb: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb: ping: %w", err)
	}

	c.client = client
	c.connected = true

	c.log.Info("mongodb: connected")

	return nil
}

// GetClient returns the underlying client, connecting lazily if necessary.
func (c *Connection) GetClient(ctx context.Context) (*mongo.Client, error) {
	if !c.connected {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return c.client, nil
}

// GetDB returns the handle to the configured database.
func (c *Connection) GetDB(ctx context.Context) (*mongo.Database, error) {
	client, err := c.GetClient(ctx)
	if err != nil {
		return nil, err
	}

	return client.Database(c.Database), nil
}

// Disconnect closes the underlying client.
func (c *Connection) Disconnect(ctx context.Context) error {
	if c.client == nil {
		return nil
	}

	return c.client.Disconnect(ctx)
}
