package userRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jabezgenics-alt/ezzo-sales/database"
	"github.com/jabezgenics-alt/ezzo-sales/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a user lookup matches nothing.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when an email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo() *MongoUserRepo {
	return &MongoUserRepo{coll: database.Collection("users")}
}

func (repo *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	count, err := repo.coll.CountDocuments(ctxWithTimeout, bson.M{"email": user.Email})
	if err != nil {
		return fmt.Errorf("error checking email uniqueness: %w", err)
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	if _, err := repo.coll.InsertOne(ctxWithTimeout, user); err != nil {
		return fmt.Errorf("insert user failed: %w", err)
	}
	return nil
}

func (repo *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return repo.findOne(ctx, bson.M{"id": id})
}

func (repo *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return repo.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (repo *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return &user, nil
}

func (repo *MongoUserRepo) Update(ctx context.Context, user *models.User) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctxWithTimeout, bson.M{"id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("update user %s failed: %w", user.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
