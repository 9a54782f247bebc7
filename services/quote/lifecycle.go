package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	enquiryRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/enquiry"
	quoteRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/quote"
	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/services/tasks"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultQuoteService is the canonical QuoteService implementation.
type DefaultQuoteService struct {
	QuoteRepo   quoteRepo.QuoteRepository
	EnquiryRepo enquiryRepo.EnquiryRepository
	Delivery    tasks.DeliveryQueue
}

// ErrDraftNotSubmittable is returned when a draft with missing information
// is submitted for review.
var ErrDraftNotSubmittable = errors.New("draft quote has missing information and cannot be submitted")

func newAuditEntry(quoteID, actor, action, description string) *models.AuditLogEntry {
	return &models.AuditLogEntry{
		ID:          uuid.New().String(),
		QuoteID:     quoteID,
		Actor:       actor,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// CreateFromDraft persists a submittable draft as a pending quote and moves
// its enquiry into admin review.
func (s *DefaultQuoteService) CreateFromDraft(ctx context.Context, enquiryID, actor string, draft *models.DraftQuote) (*models.Quote, error) {
	if !draft.CanSubmit {
		return nil, ErrDraftNotSubmittable
	}

	now := time.Now()
	q := &models.Quote{
		ID:               uuid.New().String(),
		EnquiryID:        enquiryID,
		ItemName:         draft.ItemName,
		Quantity:         draft.Quantity,
		Unit:             draft.Unit,
		BasePrice:        draft.BasePrice,
		Adjustments:      draft.Adjustments,
		TotalPrice:       draft.TotalPrice,
		Conditions:       draft.Conditions,
		SourceReferences: draft.SourceReferences,
		Status:           models.QuoteStatusPendingAdmin,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	entry := newAuditEntry(q.ID, actor, "created", fmt.Sprintf("Quote created from enquiry %s", enquiryID))
	entry.NewState = map[string]interface{}{
		"status":      string(q.Status),
		"item_name":   q.ItemName,
		"total_price": q.TotalPrice,
	}
	if err := s.QuoteRepo.CreateWithAudit(ctx, q, entry); err != nil {
		return nil, fmt.Errorf("failed to persist quote: %w", err)
	}

	s.moveEnquiry(ctx, enquiryID, models.EnquiryStatusSentToAdmin)
	utils.GetLogger().Info("quote created",
		zap.String("quoteId", q.ID),
		zap.String("enquiryId", enquiryID),
		zap.Float64("total", q.TotalPrice))
	return q, nil
}

func (s *DefaultQuoteService) Get(ctx context.Context, id string) (*models.Quote, error) {
	q, err := s.QuoteRepo.GetByID(ctx, id)
	if errors.Is(err, quoteRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return q, err
}

func (s *DefaultQuoteService) GetByEnquiry(ctx context.Context, enquiryID string) (*models.Quote, error) {
	q, err := s.QuoteRepo.GetByEnquiryID(ctx, enquiryID)
	if errors.Is(err, quoteRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	return q, err
}

func (s *DefaultQuoteService) ListPending(ctx context.Context) ([]models.Quote, error) {
	return s.QuoteRepo.ListPending(ctx)
}

func (s *DefaultQuoteService) List(ctx context.Context, skip, limit int64) ([]models.Quote, error) {
	return s.QuoteRepo.List(ctx, skip, limit)
}

// Edit applies a partial change set. The audit entry snapshots exactly the
// fields that were set, before and after. Edits are allowed in any status so
// an admin can correct a quote even after approval; the change is still on
// the record.
func (s *DefaultQuoteService) Edit(ctx context.Context, id, actor string, changes models.QuoteChanges) (*models.Quote, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := map[string]interface{}{}
	after := map[string]interface{}{}

	if changes.ItemName != nil {
		before["item_name"], after["item_name"] = q.ItemName, *changes.ItemName
		q.ItemName = *changes.ItemName
	}
	if changes.Quantity != nil {
		before["quantity"], after["quantity"] = q.Quantity, *changes.Quantity
		q.Quantity = *changes.Quantity
	}
	if changes.Unit != nil {
		before["unit"], after["unit"] = q.Unit, *changes.Unit
		q.Unit = *changes.Unit
	}
	if changes.BasePrice != nil {
		before["base_price"], after["base_price"] = q.BasePrice, *changes.BasePrice
		q.BasePrice = *changes.BasePrice
	}
	if changes.Adjustments != nil {
		before["adjustments"], after["adjustments"] = q.Adjustments, *changes.Adjustments
		q.Adjustments = *changes.Adjustments
	}
	if changes.TotalPrice != nil {
		before["total_price"], after["total_price"] = q.TotalPrice, *changes.TotalPrice
		q.TotalPrice = *changes.TotalPrice
	}
	if changes.Conditions != nil {
		before["conditions"], after["conditions"] = q.Conditions, *changes.Conditions
		q.Conditions = *changes.Conditions
	}
	if changes.AdminNotes != nil {
		before["admin_notes"], after["admin_notes"] = q.AdminNotes, *changes.AdminNotes
		q.AdminNotes = *changes.AdminNotes
	}

	if len(after) == 0 {
		return q, nil
	}
	q.UpdatedAt = time.Now()

	entry := newAuditEntry(q.ID, actor, "edited", "Quote edited by admin")
	entry.PreviousState = before
	entry.NewState = after
	if err := s.QuoteRepo.UpdateWithAudit(ctx, q, entry); err != nil {
		return nil, fmt.Errorf("failed to persist quote edit: %w", err)
	}
	return q, nil
}

// Approve moves a pending quote to approved. Approving twice is rejected
// with DoubleActionError and leaves the audit trail untouched.
func (s *DefaultQuoteService) Approve(ctx context.Context, id, actor, notes string) (*models.Quote, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch q.Status {
	case models.QuoteStatusApproved:
		return nil, &DoubleActionError{QuoteID: id, Action: "approve", Status: q.Status}
	case models.QuoteStatusSentToCustomer:
		return nil, &TransitionError{QuoteID: id, Action: "approve", Status: q.Status}
	}

	prev := q.Status
	now := time.Now()
	q.Status = models.QuoteStatusApproved
	q.ReviewedBy = actor
	q.ReviewedAt = &now
	if notes != "" {
		q.AdminNotes = notes
	}
	q.UpdatedAt = now

	entry := newAuditEntry(q.ID, actor, "approved", "Quote approved by admin")
	entry.PreviousState = map[string]interface{}{"status": string(prev)}
	entry.NewState = map[string]interface{}{"status": string(q.Status)}
	if err := s.QuoteRepo.UpdateWithAudit(ctx, q, entry); err != nil {
		return nil, fmt.Errorf("failed to approve quote: %w", err)
	}

	s.moveEnquiry(ctx, q.EnquiryID, models.EnquiryStatusApproved)
	utils.GetLogger().Info("quote approved", zap.String("quoteId", q.ID), zap.String("actor", actor))
	return q, nil
}

// Reject moves a quote to rejected from any prior status and records the
// reason.
func (s *DefaultQuoteService) Reject(ctx context.Context, id, actor, reason string) (*models.Quote, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status == models.QuoteStatusRejected {
		return nil, &DoubleActionError{QuoteID: id, Action: "reject", Status: q.Status}
	}

	prev := q.Status
	now := time.Now()
	q.Status = models.QuoteStatusRejected
	q.ReviewedBy = actor
	q.ReviewedAt = &now
	if reason != "" {
		q.AdminNotes = reason
	}
	q.UpdatedAt = now

	entry := newAuditEntry(q.ID, actor, "rejected", reason)
	entry.PreviousState = map[string]interface{}{"status": string(prev)}
	entry.NewState = map[string]interface{}{"status": string(q.Status)}
	if err := s.QuoteRepo.UpdateWithAudit(ctx, q, entry); err != nil {
		return nil, fmt.Errorf("failed to reject quote: %w", err)
	}

	s.moveEnquiry(ctx, q.EnquiryID, models.EnquiryStatusRejected)
	utils.GetLogger().Info("quote rejected", zap.String("quoteId", q.ID), zap.String("actor", actor))
	return q, nil
}

// SendToCustomer delivers an approved quote. Any other status is a
// TransitionError. Delivery itself is asynchronous; the status flip and
// audit entry commit before the task is enqueued.
func (s *DefaultQuoteService) SendToCustomer(ctx context.Context, id, actor string) (*models.Quote, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != models.QuoteStatusApproved {
		return nil, &TransitionError{QuoteID: id, Action: "send to customer", Status: q.Status}
	}

	prev := q.Status
	q.Status = models.QuoteStatusSentToCustomer
	q.UpdatedAt = time.Now()

	entry := newAuditEntry(q.ID, actor, "sent_to_customer", "Quote sent to customer")
	entry.PreviousState = map[string]interface{}{"status": string(prev)}
	entry.NewState = map[string]interface{}{"status": string(q.Status)}
	if err := s.QuoteRepo.UpdateWithAudit(ctx, q, entry); err != nil {
		return nil, fmt.Errorf("failed to mark quote sent: %w", err)
	}

	if s.Delivery != nil {
		payload := tasks.DeliveryPayload{
			QuoteID:    q.ID,
			EnquiryID:  q.EnquiryID,
			ItemName:   q.ItemName,
			TotalPrice: q.TotalPrice,
		}
		if enq, err := s.EnquiryRepo.GetByID(ctx, q.EnquiryID); err == nil {
			payload.CustomerID = enq.CustomerID
		}
		if err := s.Delivery.EnqueueDelivery(ctx, payload); err != nil {
			utils.GetLogger().Error("failed to enqueue quote delivery",
				zap.String("quoteId", q.ID), zap.Error(err))
		}
	}

	utils.GetLogger().Info("quote sent to customer", zap.String("quoteId", q.ID), zap.String("actor", actor))
	return q, nil
}

func (s *DefaultQuoteService) AuditTrail(ctx context.Context, id string) ([]models.AuditLogEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.QuoteRepo.AuditTrail(ctx, id)
}

// moveEnquiry flips the enquiry status; a failure here is logged, not
// propagated, since the quote mutation has already committed.
func (s *DefaultQuoteService) moveEnquiry(ctx context.Context, enquiryID string, status models.EnquiryStatus) {
	if s.EnquiryRepo == nil || enquiryID == "" {
		return
	}
	enq, err := s.EnquiryRepo.GetByID(ctx, enquiryID)
	if err != nil {
		utils.GetLogger().Warn("could not load enquiry for status update",
			zap.String("enquiryId", enquiryID), zap.Error(err))
		return
	}
	enq.Status = status
	enq.UpdatedAt = time.Now()
	if err := s.EnquiryRepo.Update(ctx, enq); err != nil {
		utils.GetLogger().Warn("could not update enquiry status",
			zap.String("enquiryId", enquiryID), zap.Error(err))
	}
}
