package models

// Answer holds the typed value collected for one question. Values seeded
// from conversation context (rather than a direct reply) are marked
// Prefilled and must be confirmed by the customer before they count as
// present for completion purposes.
type Answer struct {
	Value     interface{} `bson:"value" json:"value"`
	Prefilled bool        `bson:"prefilled,omitempty" json:"prefilled,omitempty"`
	Confirmed bool        `bson:"confirmed,omitempty" json:"confirmed,omitempty"`
	Source    string      `bson:"source,omitempty" json:"source,omitempty"`
}

// Present reports whether the answer counts as given: it must carry a value
// and, if prefilled, the customer must have confirmed it.
func (a Answer) Present() bool {
	if a.Value == nil {
		return false
	}
	if a.Prefilled && !a.Confirmed {
		return false
	}
	return true
}

// CollectedAnswers maps question ids to answers. Snapshots are immutable:
// every update goes through With or Without, which copy, so a snapshot handed
// to the engine can never change underneath it and the owning enquiry always
// sees whole-map replacement.
type CollectedAnswers map[string]Answer

// Get returns the answer for a question id.
func (ca CollectedAnswers) Get(id string) (Answer, bool) {
	a, ok := ca[id]
	return a, ok
}

// Value returns the raw value for a question id when the answer is present.
func (ca CollectedAnswers) Value(id string) (interface{}, bool) {
	a, ok := ca[id]
	if !ok || !a.Present() {
		return nil, false
	}
	return a.Value, true
}

// With returns a new snapshot with the given answer set.
func (ca CollectedAnswers) With(id string, a Answer) CollectedAnswers {
	next := make(CollectedAnswers, len(ca)+1)
	for k, v := range ca {
		next[k] = v
	}
	next[id] = a
	return next
}

// Without returns a new snapshot with the given answer removed.
func (ca CollectedAnswers) Without(id string) CollectedAnswers {
	next := make(CollectedAnswers, len(ca))
	for k, v := range ca {
		if k != id {
			next[k] = v
		}
	}
	return next
}
