package ruleRepo

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

// ErrNotFound is returned when a rule id matches nothing.
var ErrNotFound = errors.New("business rule not found")

type MongoRuleRepo struct {
	coll *mongo.Collection
}

func NewMongoRuleRepo() *MongoRuleRepo {
	return &MongoRuleRepo{coll: database.Collection("business_rules")}
}

func (repo *MongoRuleRepo) Create(ctx context.Context, rule *models.BusinessRule) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, rule); err != nil {
		return fmt.Errorf("insert business rule failed: %w", err)
	}
	return nil
}

func (repo *MongoRuleRepo) GetByID(ctx context.Context, id string) (*models.BusinessRule, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rule models.BusinessRule
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&rule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching business rule %s: %w", id, err)
	}
	return &rule, nil
}

func (repo *MongoRuleRepo) ListActive(ctx context.Context) ([]models.BusinessRule, error) {
	return repo.find(ctx, bson.M{"isActive": true})
}

func (repo *MongoRuleRepo) List(ctx context.Context) ([]models.BusinessRule, error) {
	return repo.find(ctx, bson.M{})
}

func (repo *MongoRuleRepo) find(ctx context.Context, filter bson.M) ([]models.BusinessRule, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: 1}})
	cursor, err := repo.coll.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing business rules: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var rules []models.BusinessRule
	if err := cursor.All(ctxWithTimeout, &rules); err != nil {
		return nil, fmt.Errorf("error decoding business rules: %w", err)
	}
	return rules, nil
}

func (repo *MongoRuleRepo) Update(ctx context.Context, rule *models.BusinessRule) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctxWithTimeout, bson.M{"id": rule.ID}, rule)
	if err != nil {
		return fmt.Errorf("update business rule %s failed: %w", rule.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoRuleRepo) Delete(ctx context.Context, id string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctxWithTimeout, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete business rule %s failed: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
