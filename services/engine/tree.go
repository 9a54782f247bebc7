package engine

import (
	"fmt"
	"strconv"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// Question graph traversal. Everything here is pure: given the same tree and
// answer snapshot the same path comes out, and completeness is always
// re-derived from the current answers rather than cached, because a branch
// only becomes reachable once the answer leading into it is given.

// Stringify renders an answer value the way transition maps are keyed:
// booleans as "true"/"false", numbers without a trailing ".0" for integral
// values.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

// questionIndex builds an id lookup and validates every transition target.
// A target that does not exist in the tree is a ConfigurationError, not a
// silent dead end.
func questionIndex(tree *models.DecisionTree) (map[string]*models.Question, error) {
	index := make(map[string]*models.Question, len(tree.Questions))
	for i := range tree.Questions {
		q := &tree.Questions[i]
		if _, dup := index[q.ID]; dup {
			return nil, NewConfigurationError(tree.ServiceName, q.ID, "duplicate question id")
		}
		index[q.ID] = q
	}
	for i := range tree.Questions {
		q := &tree.Questions[i]
		if q.Next == nil {
			continue
		}
		for answer, target := range q.Next.Targets {
			if _, ok := index[target]; !ok {
				return nil, NewConfigurationError(tree.ServiceName, q.ID,
					fmt.Sprintf("transition for answer %q targets unknown question %q", answer, target))
			}
		}
		if q.Next.Default != "" {
			if _, ok := index[q.Next.Default]; !ok {
				return nil, NewConfigurationError(tree.ServiceName, q.ID,
					fmt.Sprintf("default transition targets unknown question %q", q.Next.Default))
			}
		}
	}
	if start := tree.StartID(); start != "" {
		if _, ok := index[start]; !ok {
			return nil, NewConfigurationError(tree.ServiceName, start, "start question does not exist")
		}
	}
	return index, nil
}

// ValidateTree checks a tree's structural integrity: unique question ids,
// transition targets that exist, a start question that exists, and at least
// one question. Admin writes should reject trees that fail here rather than
// let customers hit the error mid-conversation.
func ValidateTree(tree *models.DecisionTree) error {
	if len(tree.Questions) == 0 {
		return NewConfigurationError(tree.ServiceName, tree.ID, "tree has no questions")
	}
	_, err := questionIndex(tree)
	return err
}

// buildPath returns the ordered question ids reachable from the start given
// the current answers. In linear mode (no question branches anywhere in the
// tree) the path is simply declaration order. In branching mode the walk
// follows transitions keyed by the stringified answer, falling back to the
// default target; it stops at the first unanswered question or when a
// transition yields no target.
func buildPath(tree *models.DecisionTree, answers models.CollectedAnswers) ([]string, error) {
	index, err := questionIndex(tree)
	if err != nil {
		return nil, err
	}

	start := tree.StartID()
	if start == "" {
		return nil, nil
	}

	if tree.IsLinear() {
		path := make([]string, 0, len(tree.Questions))
		path = append(path, start)
		for i := range tree.Questions {
			if id := tree.Questions[i].ID; id != start {
				path = append(path, id)
			}
		}
		return path, nil
	}

	path := []string{start}
	seen := map[string]bool{start: true}
	current := start
	for {
		q := index[current]
		value, ok := answers.Value(current)
		if !ok {
			// Unanswered: the path ends here until the customer replies.
			break
		}
		next, ok := q.Next.Resolve(Stringify(value))
		if !ok {
			break
		}
		if seen[next] {
			return nil, NewConfigurationError(tree.ServiceName, next, "transition cycle detected")
		}
		path = append(path, next)
		seen[next] = true
		current = next
	}
	return path, nil
}

// NextQuestion returns the first question on the reachable path that has no
// present answer, or nil when the path is fully answered.
func NextQuestion(tree *models.DecisionTree, answers models.CollectedAnswers) (*models.Question, error) {
	path, err := buildPath(tree, answers)
	if err != nil {
		return nil, err
	}
	index, err := questionIndex(tree)
	if err != nil {
		return nil, err
	}
	for _, id := range path {
		if _, ok := answers.Value(id); !ok {
			q := *index[id]
			return &q, nil
		}
	}
	return nil, nil
}

// IsComplete reports whether every question on the reachable path is
// answered and no further question remains to ask.
func IsComplete(tree *models.DecisionTree, answers models.CollectedAnswers) (bool, error) {
	path, err := buildPath(tree, answers)
	if err != nil {
		return false, err
	}
	for _, id := range path {
		if _, ok := answers.Value(id); !ok {
			return false, nil
		}
	}
	next, err := NextQuestion(tree, answers)
	if err != nil {
		return false, err
	}
	return next == nil, nil
}
