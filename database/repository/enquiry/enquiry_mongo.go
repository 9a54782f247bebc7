package enquiryRepo

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

// ErrNotFound is returned when an enquiry id matches nothing.
var ErrNotFound = errors.New("enquiry not found")

type MongoEnquiryRepo struct {
	enquiryColl *mongo.Collection
	messageColl *mongo.Collection
}

func NewMongoEnquiryRepo() *MongoEnquiryRepo {
	return &MongoEnquiryRepo{
		enquiryColl: database.Collection("enquiries"),
		messageColl: database.Collection("enquiry_messages"),
	}
}

func (repo *MongoEnquiryRepo) Create(ctx context.Context, enquiry *models.Enquiry) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.enquiryColl.InsertOne(ctxWithTimeout, enquiry); err != nil {
		return fmt.Errorf("insert enquiry failed: %w", err)
	}
	return nil
}

func (repo *MongoEnquiryRepo) GetByID(ctx context.Context, id string) (*models.Enquiry, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var enquiry models.Enquiry
	err := repo.enquiryColl.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&enquiry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching enquiry %s: %w", id, err)
	}
	return &enquiry, nil
}

func (repo *MongoEnquiryRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Enquiry, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := repo.enquiryColl.Find(ctxWithTimeout, bson.M{"customerId": customerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing enquiries for customer %s: %w", customerID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var enquiries []models.Enquiry
	if err := cursor.All(ctxWithTimeout, &enquiries); err != nil {
		return nil, fmt.Errorf("error decoding enquiries: %w", err)
	}
	return enquiries, nil
}

func (repo *MongoEnquiryRepo) Update(ctx context.Context, enquiry *models.Enquiry) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.enquiryColl.ReplaceOne(ctxWithTimeout, bson.M{"id": enquiry.ID}, enquiry)
	if err != nil {
		return fmt.Errorf("update enquiry %s failed: %w", enquiry.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoEnquiryRepo) AppendMessage(ctx context.Context, msg *models.EnquiryMessage) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.messageColl.InsertOne(ctxWithTimeout, msg); err != nil {
		return fmt.Errorf("insert enquiry message failed: %w", err)
	}
	return nil
}

func (repo *MongoEnquiryRepo) Messages(ctx context.Context, enquiryID string) ([]models.EnquiryMessage, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := repo.messageColl.Find(ctxWithTimeout, bson.M{"enquiryId": enquiryID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching messages for enquiry %s: %w", enquiryID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var messages []models.EnquiryMessage
	if err := cursor.All(ctxWithTimeout, &messages); err != nil {
		return nil, fmt.Errorf("error decoding enquiry messages: %w", err)
	}
	return messages, nil
}
