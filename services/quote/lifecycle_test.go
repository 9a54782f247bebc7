package quote

import (
	"context"
	"testing"
	"time"

	quoteRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/quote"
	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/services/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memQuoteRepo struct {
	quotes map[string]models.Quote
	audits []models.AuditLogEntry
}

func newMemQuoteRepo() *memQuoteRepo {
	return &memQuoteRepo{quotes: map[string]models.Quote{}}
}

func (m *memQuoteRepo) CreateWithAudit(ctx context.Context, q *models.Quote, e *models.AuditLogEntry) error {
	m.quotes[q.ID] = *q
	m.audits = append(m.audits, *e)
	return nil
}

func (m *memQuoteRepo) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, quoteRepo.ErrNotFound
	}
	copied := q
	return &copied, nil
}

func (m *memQuoteRepo) GetByEnquiryID(ctx context.Context, enquiryID string) (*models.Quote, error) {
	for _, q := range m.quotes {
		if q.EnquiryID == enquiryID {
			copied := q
			return &copied, nil
		}
	}
	return nil, quoteRepo.ErrNotFound
}

func (m *memQuoteRepo) ListPending(ctx context.Context) ([]models.Quote, error) {
	var out []models.Quote
	for _, q := range m.quotes {
		if q.Status == models.QuoteStatusPendingAdmin {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuoteRepo) List(ctx context.Context, skip, limit int64) ([]models.Quote, error) {
	var out []models.Quote
	for _, q := range m.quotes {
		out = append(out, q)
	}
	return out, nil
}

func (m *memQuoteRepo) UpdateWithAudit(ctx context.Context, q *models.Quote, e *models.AuditLogEntry) error {
	if _, ok := m.quotes[q.ID]; !ok {
		return quoteRepo.ErrNotFound
	}
	m.quotes[q.ID] = *q
	m.audits = append(m.audits, *e)
	return nil
}

func (m *memQuoteRepo) AuditTrail(ctx context.Context, quoteID string) ([]models.AuditLogEntry, error) {
	var out []models.AuditLogEntry
	for _, e := range m.audits {
		if e.QuoteID == quoteID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memEnquiryRepo struct {
	enquiries map[string]models.Enquiry
}

func newMemEnquiryRepo() *memEnquiryRepo {
	return &memEnquiryRepo{enquiries: map[string]models.Enquiry{}}
}

func (m *memEnquiryRepo) Create(ctx context.Context, e *models.Enquiry) error {
	m.enquiries[e.ID] = *e
	return nil
}

func (m *memEnquiryRepo) GetByID(ctx context.Context, id string) (*models.Enquiry, error) {
	e, ok := m.enquiries[id]
	if !ok {
		return nil, quoteRepo.ErrNotFound
	}
	copied := e
	return &copied, nil
}

func (m *memEnquiryRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Enquiry, error) {
	return nil, nil
}

func (m *memEnquiryRepo) Update(ctx context.Context, e *models.Enquiry) error {
	m.enquiries[e.ID] = *e
	return nil
}

func (m *memEnquiryRepo) AppendMessage(ctx context.Context, msg *models.EnquiryMessage) error {
	return nil
}

func (m *memEnquiryRepo) Messages(ctx context.Context, enquiryID string) ([]models.EnquiryMessage, error) {
	return nil, nil
}

type recordingQueue struct {
	payloads []tasks.DeliveryPayload
}

func (r *recordingQueue) EnqueueDelivery(ctx context.Context, p tasks.DeliveryPayload) error {
	r.payloads = append(r.payloads, p)
	return nil
}

func newTestService() (*DefaultQuoteService, *memQuoteRepo, *memEnquiryRepo, *recordingQueue) {
	qr := newMemQuoteRepo()
	er := newMemEnquiryRepo()
	queue := &recordingQueue{}
	svc := &DefaultQuoteService{QuoteRepo: qr, EnquiryRepo: er, Delivery: queue}
	return svc, qr, er, queue
}

func submittableDraft() *models.DraftQuote {
	return &models.DraftQuote{
		ItemName:   "Timber fencing",
		BasePrice:  100,
		Unit:       "per metre",
		Quantity:   20,
		TotalPrice: 2180,
		Conditions: []string{"Price includes 9% GST"},
		CanSubmit:  true,
	}
}

func seedEnquiry(er *memEnquiryRepo, id string) {
	er.enquiries[id] = models.Enquiry{
		ID:         id,
		CustomerID: "cust-1",
		Status:     models.EnquiryStatusDraftReady,
		CreatedAt:  time.Now(),
	}
}

func TestCreateFromDraftPersistsPendingQuoteWithAudit(t *testing.T) {
	svc, qr, er, _ := newTestService()
	seedEnquiry(er, "enq-1")

	q, err := svc.CreateFromDraft(context.Background(), "enq-1", "customer:cust-1", submittableDraft())
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusPendingAdmin, q.Status)
	assert.Equal(t, "enq-1", q.EnquiryID)

	trail, err := svc.AuditTrail(context.Background(), q.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, "created", trail[0].Action)

	assert.Equal(t, models.EnquiryStatusSentToAdmin, er.enquiries["enq-1"].Status)
	assert.Len(t, qr.audits, 1)
}

func TestCreateFromDraftRejectsMissingInfo(t *testing.T) {
	svc, qr, _, _ := newTestService()

	draft := submittableDraft()
	draft.CanSubmit = false
	draft.MissingInfo = []string{"Location/address"}

	_, err := svc.CreateFromDraft(context.Background(), "enq-1", "customer:cust-1", draft)
	assert.ErrorIs(t, err, ErrDraftNotSubmittable)
	assert.Empty(t, qr.quotes)
	assert.Empty(t, qr.audits)
}

func TestApproveMovesQuoteAndEnquiry(t *testing.T) {
	svc, _, er, _ := newTestService()
	seedEnquiry(er, "enq-1")
	q, err := svc.CreateFromDraft(context.Background(), "enq-1", "customer:cust-1", submittableDraft())
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), q.ID, "admin:alex", "looks right")
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusApproved, approved.Status)
	assert.Equal(t, "admin:alex", approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, models.EnquiryStatusApproved, er.enquiries["enq-1"].Status)
}

func TestDoubleApproveRejectedWithoutAuditEntry(t *testing.T) {
	svc, qr, er, _ := newTestService()
	seedEnquiry(er, "enq-1")
	q, err := svc.CreateFromDraft(context.Background(), "enq-1", "customer:cust-1", submittableDraft())
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), q.ID, "admin:alex", "")
	require.NoError(t, err)
	auditsBefore := len(qr.audits)

	_, err = svc.Approve(context.Background(), q.ID, "admin:sam", "")
	var dae *DoubleActionError
	require.ErrorAs(t, err, &dae)
	assert.Equal(t, "approve", dae.Action)

	assert.Len(t, qr.audits, auditsBefore, "a rejected double approve must not add an audit entry")
	reloaded, err := svc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin:alex", reloaded.ReviewedBy, "reviewer must not change on a rejected approve")
}

func TestRejectRecordsReason(t *testing.T) {
	svc, _, er, _ := newTestService()
	seedEnquiry(er, "enq-1")
	q, err := svc.CreateFromDraft(context.Background(), "enq-1", "customer:cust-1", submittableDraft())
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), q.ID, "admin:alex", "price outdated")
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusRejected, rejected.Status)
	assert.Equal(t, models.EnquiryStatusRejected, er.enquiries["enq-1"].Status)

	trail, err := svc.AuditTrail(context.Background(), q.ID)
	require.NoError(t, err)
	last := trail[len(trail)-1]
	assert.Equal(t, "rejected", last.Action)
	assert.Equal(t, "price outdated", last.Description)
}

func TestSendToCustomerRequiresApproval(t *testing.T) {
	svc, _, er, queue := newTestService()
	seedEnquiry(er, "enq-1")
	q, err := svc.CreateFromDraft(context.Background(), "enq-1", "customer:cust-1", submittableDraft())
	require.NoError(t, err)

	_, err = svc.SendToCustomer(context.Background(), q.ID, "admin:alex")
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Empty(t, queue.payloads)

	_, err = svc.Approve(context.Background(), q.ID, "admin:alex", "")
	require.NoError(t, err)

	sent, err := svc.SendToCustomer(context.Background(), q.ID, "admin:alex")
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusSentToCustomer, sent.Status)

	require.Len(t, queue.payloads, 1)
	assert.Equal(t, q.ID, queue.payloads[0].QuoteID)
	assert.Equal(t, "cust-1", queue.payloads[0].CustomerID)
}

func TestEditSnapshotsOnlyChangedFields(t *testing.T) {
	svc, _, er, _ := newTestService()
	seedEnquiry(er, "enq-1")
	q, err := svc.CreateFromDraft(context.Background(), "enq-1", "customer:cust-1", submittableDraft())
	require.NoError(t, err)

	newPrice := 2300.0
	notes := "adjusted for site access"
	edited, err := svc.Edit(context.Background(), q.ID, "admin:alex", models.QuoteChanges{
		TotalPrice: &newPrice,
		AdminNotes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, 2300.0, edited.TotalPrice)

	trail, err := svc.AuditTrail(context.Background(), q.ID)
	require.NoError(t, err)
	last := trail[len(trail)-1]
	assert.Equal(t, "edited", last.Action)
	assert.Equal(t, 2180.0, last.PreviousState["total_price"])
	assert.Equal(t, 2300.0, last.NewState["total_price"])
	assert.NotContains(t, last.PreviousState, "item_name")
	assert.NotContains(t, last.NewState, "quantity")
}

func TestEditAllowedAfterApproval(t *testing.T) {
	svc, _, er, _ := newTestService()
	seedEnquiry(er, "enq-1")
	q, err := svc.CreateFromDraft(context.Background(), "enq-1", "customer:cust-1", submittableDraft())
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), q.ID, "admin:alex", "")
	require.NoError(t, err)

	newPrice := 2000.0
	edited, err := svc.Edit(context.Background(), q.ID, "admin:alex", models.QuoteChanges{TotalPrice: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusApproved, edited.Status)
	assert.Equal(t, 2000.0, edited.TotalPrice)
}

func TestQuoteRoundTripPreservesFields(t *testing.T) {
	svc, _, er, _ := newTestService()
	seedEnquiry(er, "enq-1")
	q, err := svc.CreateFromDraft(context.Background(), "enq-1", "customer:cust-1", submittableDraft())
	require.NoError(t, err)

	reloaded, err := svc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ItemName, reloaded.ItemName)
	assert.Equal(t, q.TotalPrice, reloaded.TotalPrice)
	assert.Equal(t, q.Conditions, reloaded.Conditions)
	assert.Equal(t, q.Status, reloaded.Status)
}
