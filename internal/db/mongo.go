package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names in the document store.
const (
	CollectionUsers = "users"
	CollectionFiles = "files"
)

type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func Init(uri, database string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("document store connected", "uri", uri, "database", database)

	return &DB{
		client:   client,
		database: client.Database(database),
	}, nil
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.database.Collection(name)
}

// Ping reports whether the document store is reachable.
func (d *DB) Ping(ctx context.Context) bool {
	return d.client.Ping(ctx, nil) == nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
