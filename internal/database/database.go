package database

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client and DB hold the MongoDB connection used for trainer applications
// and request activity timelines.
var (
	Client *mongo.Client
	DB     *mongo.Database
)

const (
	defaultMongoDatabase = "studio"

	// Atlas clusters can take a while to elect and answer
	mongoConnectTimeout = 30 * time.Second
	mongoPingTimeout    = 10 * time.Second
)

func Connect(mongoURI string) error {
	opts := options.Client().
		ApplyURI(mongoURI).
		SetServerSelectionTimeout(mongoPingTimeout).
		SetAppName("studio-backend")

	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), mongoPingTimeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongo: %w", err)
	}

	name := MongoDatabaseName(mongoURI)
	Client = client
	DB = client.Database(name)
	log.Printf("✅ Connected to MongoDB (database %s)", name)
	return nil
}

// MongoDatabaseName returns the database named in the URI path, or "studio"
// when the path is empty.
func MongoDatabaseName(mongoURI string) string {
	// multi-host seed lists are not valid URL hosts, so cut them off first
	rest := mongoURI
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	slash := strings.Index(rest, "/")
	if slash == -1 {
		return defaultMongoDatabase
	}
	path := rest[slash+1:]
	if q := strings.IndexAny(path, "?#"); q >= 0 {
		path = path[:q]
	}
	if name, err := url.PathUnescape(path); err == nil && name != "" {
		return name
	}
	return defaultMongoDatabase
}

func Disconnect() error {
	if Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoPingTimeout)
	defer cancel()
	return Client.Disconnect(ctx)
}
