package chunkRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jabezgenics-alt/ezzo-sales/database"
	"github.com/jabezgenics-alt/ezzo-sales/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a chunk id matches nothing.
var ErrNotFound = errors.New("knowledge chunk not found")

type MongoChunkRepo struct {
	coll *mongo.Collection
}

func NewMongoChunkRepo() *MongoChunkRepo {
	return &MongoChunkRepo{coll: database.Collection("knowledge_chunks")}
}

func (repo *MongoChunkRepo) Create(ctx context.Context, chunk *models.KnowledgeChunk) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, chunk); err != nil {
		return fmt.Errorf("insert knowledge chunk failed: %w", err)
	}
	return nil
}

func (repo *MongoChunkRepo) GetByID(ctx context.Context, id string) (*models.KnowledgeChunk, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var chunk models.KnowledgeChunk
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&chunk)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching knowledge chunk %s: %w", id, err)
	}
	return &chunk, nil
}

// Search runs a $text query over the content/itemName text index and returns
// chunks ordered by text score, best first.
func (repo *MongoChunkRepo) Search(ctx context.Context, query string, limit int64) ([]models.KnowledgeChunk, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"$text": bson.M{"$search": query}}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error searching knowledge chunks for %q: %w", query, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var chunks []models.KnowledgeChunk
	if err := cursor.All(ctxWithTimeout, &chunks); err != nil {
		return nil, fmt.Errorf("error decoding knowledge chunks: %w", err)
	}
	return chunks, nil
}

func (repo *MongoChunkRepo) List(ctx context.Context, skip, limit int64) ([]models.KnowledgeChunk, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing knowledge chunks: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var chunks []models.KnowledgeChunk
	if err := cursor.All(ctxWithTimeout, &chunks); err != nil {
		return nil, fmt.Errorf("error decoding knowledge chunks: %w", err)
	}
	return chunks, nil
}

func (repo *MongoChunkRepo) Delete(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctxWithTimeout, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete knowledge chunk %s failed: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
