package quote

import (
	"context"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// QuoteService owns the approval lifecycle of persisted quotes. Every
// successful mutation appends an audit entry in the same transaction; a
// rejected operation (double approve, bad transition) writes nothing.
type QuoteService interface {
	CreateFromDraft(ctx context.Context, enquiryID, actor string, draft *models.DraftQuote) (*models.Quote, error)
	Get(ctx context.Context, id string) (*models.Quote, error)
	GetByEnquiry(ctx context.Context, enquiryID string) (*models.Quote, error)
	ListPending(ctx context.Context) ([]models.Quote, error)
	List(ctx context.Context, skip, limit int64) ([]models.Quote, error)
	Edit(ctx context.Context, id, actor string, changes models.QuoteChanges) (*models.Quote, error)
	Approve(ctx context.Context, id, actor, notes string) (*models.Quote, error)
	Reject(ctx context.Context, id, actor, reason string) (*models.Quote, error)
	SendToCustomer(ctx context.Context, id, actor string) (*models.Quote, error)
	AuditTrail(ctx context.Context, id string) ([]models.AuditLogEntry, error)
}
