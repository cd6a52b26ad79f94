package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store wraps the MongoDB collections backing the bot.
type Store struct {
	db       *mongo.Database
	guilds   *mongo.Collection
	members  *mongo.Collection
	reports  *mongo.Collection
	media    *mongo.Collection
	counters *mongo.Collection
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// New creates a Store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{
		db:       db,
		guilds:   db.Collection("guilds"),
		members:  db.Collection("members"),
		reports:  db.Collection("reports"),
		media:    db.Collection("media"),
		counters: db.Collection("counters"),
	}
}

// EnsureIndexes creates the uniqueness constraints concurrent report
// creation relies on: one Member per (user, guild), one Report per bug id.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.guilds.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guild_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.members.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "guild_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "bug_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = s.media.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "bug_id", Value: 1}},
	})
	return err
}
