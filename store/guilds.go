package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// GetGuild loads a guild's configuration. Returns ErrNotFound when the
// guild has never been configured.
func (s *Store) GetGuild(ctx context.Context, guildID string) (*Guild, error) {
	var g Guild
	err := s.guilds.FindOne(ctx, bson.M{"guild_id": guildID}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// EnsureGuild returns the guild record, creating an empty one lazily.
func (s *Store) EnsureGuild(ctx context.Context, guildID string) (*Guild, error) {
	now := time.Now().UTC()
	var g Guild
	err := s.guilds.FindOneAndUpdate(ctx,
		bson.M{"guild_id": guildID},
		bson.M{
			"$setOnInsert": bson.M{
				"guild_id":      guildID,
				"manager_roles": []string{},
				"created_at":    now,
			},
			"$set": bson.M{"updated_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&g)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// AddManagerRole appends a role to the guild's manager set if absent.
func (s *Store) AddManagerRole(ctx context.Context, guildID, roleID string) error {
	_, err := s.guilds.UpdateOne(ctx,
		bson.M{"guild_id": guildID},
		bson.M{
			"$addToSet": bson.M{"manager_roles": roleID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

// RemoveManagerRole removes a role from the guild's manager set.
func (s *Store) RemoveManagerRole(ctx context.Context, guildID, roleID string) error {
	_, err := s.guilds.UpdateOne(ctx,
		bson.M{"guild_id": guildID},
		bson.M{
			"$pull": bson.M{"manager_roles": roleID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

// SetBugChannel records the report-intake channel for a guild.
func (s *Store) SetBugChannel(ctx context.Context, guildID, channelID string) error {
	return s.setGuildField(ctx, guildID, "bug_channel", channelID)
}

// SetHighlightsChannel records the highlights channel for a guild.
func (s *Store) SetHighlightsChannel(ctx context.Context, guildID, channelID string) error {
	return s.setGuildField(ctx, guildID, "highlights_channel", channelID)
}

// SetReportMessage stores the custom first-contact report message.
func (s *Store) SetReportMessage(ctx context.Context, guildID, message string) error {
	return s.setGuildField(ctx, guildID, "report_message", message)
}

func (s *Store) setGuildField(ctx context.Context, guildID, field, value string) error {
	now := time.Now().UTC()
	_, err := s.guilds.UpdateOne(ctx,
		bson.M{"guild_id": guildID},
		bson.M{
			"$set": bson.M{field: value, "updated_at": now},
			"$setOnInsert": bson.M{
				"guild_id":      guildID,
				"manager_roles": []string{},
				"created_at":    now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
