package quoteRepo

import (
	"context"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// QuoteRepository persists quotes together with their append-only audit
// trail. Every mutating method takes the audit entry for the mutation and
// must record both atomically: no entry without a state change, and no
// state change without its entry.
type QuoteRepository interface {
	CreateWithAudit(ctx context.Context, quote *models.Quote, entry *models.AuditLogEntry) error
	GetByID(ctx context.Context, id string) (*models.Quote, error)
	GetByEnquiryID(ctx context.Context, enquiryID string) (*models.Quote, error)
	ListPending(ctx context.Context) ([]models.Quote, error)
	List(ctx context.Context, skip, limit int64) ([]models.Quote, error)
	UpdateWithAudit(ctx context.Context, quote *models.Quote, entry *models.AuditLogEntry) error
	AuditTrail(ctx context.Context, quoteID string) ([]models.AuditLogEntry, error)
}
