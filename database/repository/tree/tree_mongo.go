package treeRepo

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

// ErrNotFound is returned when a tree id or service name matches nothing.
var ErrNotFound = errors.New("decision tree not found")

type MongoTreeRepo struct {
	coll *mongo.Collection
}

func NewMongoTreeRepo() *MongoTreeRepo {
	return &MongoTreeRepo{coll: database.Collection("decision_trees")}
}

func (repo *MongoTreeRepo) Create(ctx context.Context, tree *models.DecisionTree) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, tree); err != nil {
		return fmt.Errorf("insert decision tree failed: %w", err)
	}
	return nil
}

func (repo *MongoTreeRepo) GetByID(ctx context.Context, id string) (*models.DecisionTree, error) {
	return repo.findOne(ctx, bson.M{"id": id})
}

// GetByServiceName matches case-insensitively so a classifier hit on
// "Fencing" finds the "fencing" tree.
func (repo *MongoTreeRepo) GetByServiceName(ctx context.Context, serviceName string) (*models.DecisionTree, error) {
	filter := bson.M{"serviceName": bson.M{"$regex": "^" + serviceName + "$", "$options": "i"}}
	return repo.findOne(ctx, filter)
}

func (repo *MongoTreeRepo) findOne(ctx context.Context, filter bson.M) (*models.DecisionTree, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tree models.DecisionTree
	err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&tree)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching decision tree: %w", err)
	}
	return &tree, nil
}

func (repo *MongoTreeRepo) ListActive(ctx context.Context) ([]models.DecisionTree, error) {
	return repo.find(ctx, bson.M{"isActive": true})
}

func (repo *MongoTreeRepo) List(ctx context.Context) ([]models.DecisionTree, error) {
	return repo.find(ctx, bson.M{})
}

func (repo *MongoTreeRepo) find(ctx context.Context, filter bson.M) ([]models.DecisionTree, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "serviceName", Value: 1}})
	cursor, err := repo.coll.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing decision trees: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var trees []models.DecisionTree
	if err := cursor.All(ctxWithTimeout, &trees); err != nil {
		return nil, fmt.Errorf("error decoding decision trees: %w", err)
	}
	return trees, nil
}

func (repo *MongoTreeRepo) Update(ctx context.Context, tree *models.DecisionTree) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctxWithTimeout, bson.M{"id": tree.ID}, tree)
	if err != nil {
		return fmt.Errorf("update decision tree %s failed: %w", tree.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoTreeRepo) Delete(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctxWithTimeout, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete decision tree %s failed: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
