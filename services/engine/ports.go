package engine

import (
	"context"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// PriceCandidate is one priced record returned by a price resolver.
type PriceCandidate struct {
	Content    string
	Price      float64
	Unit       string
	Conditions []string
	Source     string
}

// PriceResolver returns candidate priced records for a textual query. A
// failed or timed-out resolution is a recoverable condition: the composer
// degrades it into "pricing not available", it never aborts composition.
type PriceResolver interface {
	Resolve(ctx context.Context, query string, queryContext map[string]string) ([]PriceCandidate, error)
}

// PriceSelector picks a single candidate from a resolver result. The
// boolean reports whether any candidate was usable.
type PriceSelector func(query string, candidates []PriceCandidate) (PriceCandidate, bool)

// ParsedValue is the result of interpreting a raw customer reply. Valid
// distinguishes "could not parse" from legitimately parsed falsy values: a
// boolean false answer is Valid with Value=false.
type ParsedValue struct {
	Value interface{}
	Valid bool
}

// AnswerInterpreter converts a free-text reply into a typed value for a
// question. Implementations may be AI-backed; the engine only relies on the
// ParsedValue contract.
type AnswerInterpreter interface {
	Parse(ctx context.Context, raw string, qtype models.QuestionType, choices []string) (ParsedValue, error)
}

// ServiceClassifier matches a customer message to one of the available
// decision trees. A nil tree with nil error means no confident match.
type ServiceClassifier interface {
	Match(ctx context.Context, message string, trees []models.DecisionTree) (*models.DecisionTree, error)
}
