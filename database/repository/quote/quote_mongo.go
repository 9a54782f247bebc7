package quoteRepo

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

// ErrNotFound is returned when a quote id matches nothing.
var ErrNotFound = errors.New("quote not found")

// MongoQuoteRepo implements QuoteRepository on MongoDB. The audit collection
// is written only inside the same transaction as the quote mutation.
type MongoQuoteRepo struct {
	quoteColl *mongo.Collection
	auditColl *mongo.Collection
}

// NewMongoQuoteRepo returns a repository over the quotes and audit_logs
// collections.
func NewMongoQuoteRepo() *MongoQuoteRepo {
	return &MongoQuoteRepo{
		quoteColl: database.Collection("quotes"),
		auditColl: database.Collection("audit_logs"),
	}
}

// withTransaction runs fn inside a Mongo session transaction.
func (repo *MongoQuoteRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := repo.quoteColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("quote transaction failed: %w", err)
	}
	return nil
}

// CreateWithAudit inserts a new quote and its creation audit entry
// atomically.
func (repo *MongoQuoteRepo) CreateWithAudit(ctx context.Context, quote *models.Quote, entry *models.AuditLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := repo.quoteColl.InsertOne(sc, quote); err != nil {
			return fmt.Errorf("insert quote failed: %w", err)
		}
		if _, err := repo.auditColl.InsertOne(sc, entry); err != nil {
			return fmt.Errorf("insert audit entry failed: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a quote by its ID.
func (repo *MongoQuoteRepo) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var quote models.Quote
	err := repo.quoteColl.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&quote)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching quote %s: %w", id, err)
	}
	return &quote, nil
}

// GetByEnquiryID retrieves the latest quote for an enquiry.
func (repo *MongoQuoteRepo) GetByEnquiryID(ctx context.Context, enquiryID string) (*models.Quote, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var quote models.Quote
	err := repo.quoteColl.FindOne(ctxWithTimeout, bson.M{"enquiryId": enquiryID}, opts).Decode(&quote)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching quote for enquiry %s: %w", enquiryID, err)
	}
	return &quote, nil
}

// ListPending returns all quotes awaiting admin review, newest first.
func (repo *MongoQuoteRepo) ListPending(ctx context.Context) ([]models.Quote, error) {
	return repo.find(ctx, bson.M{"status": models.QuoteStatusPendingAdmin}, 0, 0)
}

// List returns quotes newest first with skip/limit paging.
func (repo *MongoQuoteRepo) List(ctx context.Context, skip, limit int64) ([]models.Quote, error) {
	return repo.find(ctx, bson.M{}, skip, limit)
}

func (repo *MongoQuoteRepo) find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Quote, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := repo.quoteColl.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing quotes: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var quotes []models.Quote
	if err := cursor.All(ctxWithTimeout, &quotes); err != nil {
		return nil, fmt.Errorf("error decoding quotes: %w", err)
	}
	return quotes, nil
}

// UpdateWithAudit replaces the quote document and appends the audit entry in
// one transaction.
func (repo *MongoQuoteRepo) UpdateWithAudit(ctx context.Context, quote *models.Quote, entry *models.AuditLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return repo.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := repo.quoteColl.ReplaceOne(sc, bson.M{"id": quote.ID}, quote)
		if err != nil {
			return fmt.Errorf("update quote %s failed: %w", quote.ID, err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		if _, err := repo.auditColl.InsertOne(sc, entry); err != nil {
			return fmt.Errorf("insert audit entry failed: %w", err)
		}
		return nil
	})
}

// AuditTrail returns the append-only audit entries for a quote, oldest
// first.
func (repo *MongoQuoteRepo) AuditTrail(ctx context.Context, quoteID string) ([]models.AuditLogEntry, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := repo.auditColl.Find(ctxWithTimeout, bson.M{"quoteId": quoteID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching audit trail for quote %s: %w", quoteID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var entries []models.AuditLogEntry
	if err := cursor.All(ctxWithTimeout, &entries); err != nil {
		return nil, fmt.Errorf("error decoding audit entries: %w", err)
	}
	return entries, nil
}
