package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureMember returns the Member record for (userID, guildID), creating
// it with zero points on first contact. Concurrent calls for the same
// pair resolve to a single record through the unique index; the upsert
// makes the losing call a no-op rather than a duplicate.
func (s *Store) EnsureMember(ctx context.Context, userID, guildID string) (*Member, error) {
	now := time.Now().UTC()
	var m Member
	err := s.members.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "guild_id": guildID},
		bson.M{
			"$setOnInsert": bson.M{
				"user_id":    userID,
				"guild_id":   guildID,
				"cat_points": int64(0),
				"created_at": now,
			},
			"$set": bson.M{"updated_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AwardCatPoints adds points to a member, creating the record if needed.
func (s *Store) AwardCatPoints(ctx context.Context, userID, guildID string, points int64) (*Member, error) {
	now := time.Now().UTC()
	var m Member
	err := s.members.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "guild_id": guildID},
		bson.M{
			"$inc":         bson.M{"cat_points": points},
			"$setOnInsert": bson.M{"created_at": now},
			"$set":         bson.M{"updated_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// TopCatPoints returns all members of a guild ordered by points
// descending, user id ascending for a stable leaderboard.
func (s *Store) TopCatPoints(ctx context.Context, guildID string) ([]Member, error) {
	cur, err := s.members.Find(ctx,
		bson.M{"guild_id": guildID},
		options.Find().SetSort(bson.D{{Key: "cat_points", Value: -1}, {Key: "user_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}
