package driver

import (
	"context"
	"errors"
	"os"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Connect resolves a MongoDB connection from the environment and returns a
// connected client plus the source namespace to run against, failing fast
// on whichever variable is missing — the same env-var-resolution shape as
// the teacher's NewEnvProvider.
func Connect(ctx context.Context) (*mongo.Client, Namespace, error) {
	uri := os.Getenv("MINDEXER_MONGO_URI")
	if uri == "" {
		return nil, Namespace{}, errors.New("missing MINDEXER_MONGO_URI variable")
	}

	db := os.Getenv("MINDEXER_SOURCE_DB")
	if db == "" {
		return nil, Namespace{}, errors.New("missing MINDEXER_SOURCE_DB variable")
	}

	coll := os.Getenv("MINDEXER_SOURCE_COLLECTION")
	if coll == "" {
		return nil, Namespace{}, errors.New("missing MINDEXER_SOURCE_COLLECTION variable")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, Namespace{}, Wrap("connect", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, Namespace{}, Wrap("connect", err)
	}

	return client, Namespace{DB: db, Collection: coll}, nil
}
