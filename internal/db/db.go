package db

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const databaseName = "unibase"

// DB bundles the handles constructed once at process start. Handlers receive
// it explicitly; there are no package-level connections.
type DB struct {
	Client *mongo.Client
	RDB    *redis.Client

	Users     *mongo.Collection
	Documents *mongo.Collection
	Counters  *mongo.Collection
	Events    *mongo.Collection
}

func Connect(ctx context.Context, mongoURI string, redisURI string) (*DB, error) {
	// DefaultDocumentM keeps schemaless payloads as plain maps on the way
	// out, so nested objects survive the JSON round trip intact.
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(mongoURI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	opts, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	d := &DB{
		Client:    client,
		RDB:       rdb,
		Users:     client.Database(databaseName).Collection("users"),
		Documents: client.Database(databaseName).Collection("documents"),
		Counters:  client.Database(databaseName).Collection("counters"),
		Events:    client.Database(databaseName).Collection("events"),
	}

	if err := d.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := d.Users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	})
	if err != nil {
		return err
	}

	_, err = d.Documents.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		{Keys: bson.D{
			{Key: "name", Value: 1},
			{Key: "userID", Value: 1},
			{Key: "tenantID", Value: 1},
		}},
	})

	return err
}

// Health pings both backing stores.
func (d *DB) Health(ctx context.Context) error {
	if err := d.Client.Ping(ctx, nil); err != nil {
		return err
	}
	return d.RDB.Ping(ctx).Err()
}

func (d *DB) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = d.RDB.Close()
	_ = d.Client.Disconnect(ctx)
}
