package models

import "time"

// EnquiryStatus tracks requirement gathering through to quote review.
type EnquiryStatus string

const (
	EnquiryStatusCollectingInfo EnquiryStatus = "collecting_info"
	EnquiryStatusDraftReady     EnquiryStatus = "draft_ready"
	EnquiryStatusSentToAdmin    EnquiryStatus = "sent_to_admin"
	EnquiryStatusApproved       EnquiryStatus = "approved"
	EnquiryStatusRejected       EnquiryStatus = "rejected"
)

// Enquiry owns the collected answers for one customer request. Answers is a
// snapshot replaced wholesale on every update.
type Enquiry struct {
	ID             string           `bson:"id" json:"id"`
	CustomerID     string           `bson:"customerId" json:"customer_id"`
	InitialMessage string           `bson:"initialMessage,omitempty" json:"initial_message,omitempty"`
	Status         EnquiryStatus    `bson:"status" json:"status"`
	Answers        CollectedAnswers `bson:"answers" json:"collected_data"`
	ServiceTreeID  string           `bson:"serviceTreeId,omitempty" json:"service_tree_id,omitempty"`
	CreatedAt      time.Time        `bson:"createdAt" json:"created_at"`
	UpdatedAt      time.Time        `bson:"updatedAt" json:"updated_at"`
}

// EnquiryMessage is one turn of the customer/assistant conversation.
type EnquiryMessage struct {
	ID        string    `bson:"id" json:"id"`
	EnquiryID string    `bson:"enquiryId" json:"enquiry_id"`
	Role      string    `bson:"role" json:"role"` // "customer" or "assistant"
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

// EnquiryReply is what the enquiry service hands back to its caller after
// processing a customer message.
type EnquiryReply struct {
	EnquiryID string      `json:"enquiry_id"`
	Message   string      `json:"message"`
	Question  *Question   `json:"question,omitempty"`
	Draft     *DraftQuote `json:"draft,omitempty"`
	Complete  bool        `json:"complete"`
}
