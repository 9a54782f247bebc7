package enquiry

import (
	"context"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// EnquiryService runs the customer conversation: match a service, walk its
// question tree, and hand a finished answer set to the quotation pipeline.
type EnquiryService interface {
	Create(ctx context.Context, customerID, message string) (*models.EnquiryReply, error)
	SubmitAnswer(ctx context.Context, enquiryID, message string) (*models.EnquiryReply, error)
	PreviewDraft(ctx context.Context, enquiryID string) (*models.DraftQuote, error)
	SubmitQuote(ctx context.Context, enquiryID, actor string) (*models.Quote, error)
	Get(ctx context.Context, enquiryID string) (*models.Enquiry, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Enquiry, error)
	Messages(ctx context.Context, enquiryID string) ([]models.EnquiryMessage, error)
}
