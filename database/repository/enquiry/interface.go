package enquiryRepo

import (
	"context"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// EnquiryRepository persists enquiries and their conversation messages. An
// enquiry's Answers field is a full snapshot, replaced wholesale on Update.
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *models.Enquiry) error
	GetByID(ctx context.Context, id string) (*models.Enquiry, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Enquiry, error)
	Update(ctx context.Context, enquiry *models.Enquiry) error
	AppendMessage(ctx context.Context, msg *models.EnquiryMessage) error
	Messages(ctx context.Context, enquiryID string) ([]models.EnquiryMessage, error)
}
