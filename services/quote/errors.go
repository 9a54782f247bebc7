package quote

import (
	"errors"
	"fmt"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// ErrNotFound is returned when a quote id matches nothing.
var ErrNotFound = errors.New("quote not found")

// DoubleActionError signals a repeated lifecycle action, such as approving a
// quote that is already approved. The operation is rejected and no audit
// entry is written.
type DoubleActionError struct {
	QuoteID string
	Action  string
	Status  models.QuoteStatus
}

func (e *DoubleActionError) Error() string {
	return fmt.Sprintf("quote %s already %s: cannot %s again", e.QuoteID, e.Status, e.Action)
}

// TransitionError signals a lifecycle action attempted from the wrong
// status, such as sending an unapproved quote to the customer.
type TransitionError struct {
	QuoteID string
	Action  string
	Status  models.QuoteStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("quote %s is %s: cannot %s", e.QuoteID, e.Status, e.Action)
}
