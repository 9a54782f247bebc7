package models

import "time"

// QuoteStatus is the approval lifecycle of a persisted quote.
type QuoteStatus string

const (
	QuoteStatusPendingAdmin   QuoteStatus = "pending_admin"
	QuoteStatusApproved       QuoteStatus = "approved"
	QuoteStatusRejected       QuoteStatus = "rejected"
	QuoteStatusSentToCustomer QuoteStatus = "sent_to_customer"
)

// AdjustmentKind distinguishes absolute amounts from percentages.
type AdjustmentKind string

const (
	AdjustmentFixed      AdjustmentKind = "fixed"
	AdjustmentPercentage AdjustmentKind = "percentage"
)

// AdjustmentTarget names what a percentage adjustment is computed against.
type AdjustmentTarget string

const (
	AppliesToBase  AdjustmentTarget = "base"
	AppliesToTotal AdjustmentTarget = "total"
)

// Adjustment is a single price modification. Adjustments apply in list
// order; a percentage with AppliesTo=total compounds on the running subtotal
// at the point it is encountered.
type Adjustment struct {
	Description string           `bson:"description" json:"description"`
	Amount      float64          `bson:"amount" json:"amount"`
	Kind        AdjustmentKind   `bson:"kind" json:"kind"`
	AppliesTo   AdjustmentTarget `bson:"appliesTo" json:"applies_to"`
}

// DraftQuote is an unpersisted, fully computed pricing preview. Identical
// inputs always produce an identical draft.
type DraftQuote struct {
	ItemName         string       `json:"item_name"`
	BasePrice        float64      `json:"base_price"`
	Unit             string       `json:"unit"`
	Quantity         float64      `json:"quantity"`
	Adjustments      []Adjustment `json:"adjustments"`
	TaxAmount        float64      `json:"tax_amount"`
	TotalPrice       float64      `json:"total_price"`
	Conditions       []string     `json:"conditions"`
	Warnings         []string     `json:"warnings,omitempty"`
	SourceReferences []string     `json:"source_references"`
	MissingInfo      []string     `json:"missing_info"`
	CanSubmit        bool         `json:"can_submit"`
}

// Quote is the persisted entity created from a submittable draft. It is
// mutated only through the lifecycle service, never deleted implicitly.
type Quote struct {
	ID               string       `bson:"id" json:"id"`
	EnquiryID        string       `bson:"enquiryId" json:"enquiry_id"`
	ItemName         string       `bson:"itemName" json:"item_name"`
	Quantity         float64      `bson:"quantity" json:"quantity"`
	Unit             string       `bson:"unit" json:"unit"`
	BasePrice        float64      `bson:"basePrice" json:"base_price"`
	Adjustments      []Adjustment `bson:"adjustments" json:"adjustments"`
	TotalPrice       float64      `bson:"totalPrice" json:"total_price"`
	Conditions       []string     `bson:"conditions" json:"conditions"`
	SourceReferences []string     `bson:"sourceReferences,omitempty" json:"source_references,omitempty"`
	Status           QuoteStatus  `bson:"status" json:"status"`
	AdminNotes       string       `bson:"adminNotes,omitempty" json:"admin_notes,omitempty"`
	ReviewedBy       string       `bson:"reviewedBy,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time   `bson:"reviewedAt,omitempty" json:"reviewed_at,omitempty"`
	CreatedAt        time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt        time.Time    `bson:"updatedAt" json:"updated_at"`
}

// QuoteChanges carries an admin edit. Nil fields are left untouched; the
// audit entry snapshots exactly the fields that were set.
type QuoteChanges struct {
	ItemName    *string       `json:"item_name,omitempty"`
	Quantity    *float64      `json:"quantity,omitempty"`
	Unit        *string       `json:"unit,omitempty"`
	BasePrice   *float64      `json:"base_price,omitempty"`
	Adjustments *[]Adjustment `json:"adjustments,omitempty"`
	TotalPrice  *float64      `json:"total_price,omitempty"`
	Conditions  *[]string     `json:"conditions,omitempty"`
	AdminNotes  *string       `json:"admin_notes,omitempty"`
}

// AuditLogEntry records one mutating lifecycle operation. Entries are
// append-only: once written they are never updated or deleted.
type AuditLogEntry struct {
	ID            string                 `bson:"id" json:"id"`
	QuoteID       string                 `bson:"quoteId" json:"quote_id"`
	Actor         string                 `bson:"actor" json:"actor"`
	Action        string                 `bson:"action" json:"action"`
	Description   string                 `bson:"description,omitempty" json:"description,omitempty"`
	PreviousState map[string]interface{} `bson:"previousState,omitempty" json:"previous_state,omitempty"`
	NewState      map[string]interface{} `bson:"newState,omitempty" json:"new_state,omitempty"`
	CreatedAt     time.Time              `bson:"createdAt" json:"created_at"`
}
