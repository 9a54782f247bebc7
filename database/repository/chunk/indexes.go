package chunkRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the text index Search depends on plus the id lookup
// index. Safe to call on every startup.
func (repo *MongoChunkRepo) EnsureIndexes(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "content", Value: "text"},
				{Key: "itemName", Value: "text"},
			},
			Options: options.Index().
				SetName("chunk_text_search").
				SetWeights(bson.D{
					{Key: "itemName", Value: 5},
					{Key: "content", Value: 1},
				}),
		},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("chunk_id").SetUnique(true),
		},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctxWithTimeout, indexes); err != nil {
		return fmt.Errorf("failed to create knowledge chunk indexes: %w", err)
	}
	return nil
}
