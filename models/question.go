package models

import "time"

// QuestionType enumerates the answer types a question can collect.
type QuestionType string

const (
	QuestionText    QuestionType = "text"
	QuestionNumber  QuestionType = "number"
	QuestionBoolean QuestionType = "boolean"
	QuestionChoice  QuestionType = "choice"
)

// Transition maps a stringified answer to the id of the next question.
// Default, when set, is the fallback target for answers with no explicit
// mapping (free text and number inputs).
type Transition struct {
	Targets map[string]string `bson:"targets" json:"targets"`
	Default string            `bson:"default,omitempty" json:"default,omitempty"`
}

// Resolve returns the target question id for the given stringified answer.
// The boolean reports whether the transition produced a target at all; a
// false result means the path ends here.
func (t *Transition) Resolve(answer string) (string, bool) {
	if t == nil {
		return "", false
	}
	if id, ok := t.Targets[answer]; ok && id != "" {
		return id, true
	}
	if t.Default != "" {
		return t.Default, true
	}
	return "", false
}

// Question is a single node in a decision tree. Questions are defined at
// tree-authoring time and immutable at runtime. Next is nil for questions
// that do not branch.
type Question struct {
	ID       string       `bson:"id" json:"id"`
	Prompt   string       `bson:"prompt" json:"prompt"`
	Type     QuestionType `bson:"type" json:"type"`
	Choices  []string     `bson:"choices,omitempty" json:"choices,omitempty"`
	Required bool         `bson:"required" json:"required"`
	Next     *Transition  `bson:"next,omitempty" json:"next,omitempty"`
}

// DecisionTree is an ordered set of questions for one service. StartQuestion
// defaults to the first declared question when empty.
type DecisionTree struct {
	ID            string     `bson:"id" json:"id"`
	ServiceName   string     `bson:"serviceName" json:"service_name"`
	DisplayName   string     `bson:"displayName" json:"display_name"`
	Description   string     `bson:"description,omitempty" json:"description,omitempty"`
	Questions     []Question `bson:"questions" json:"questions"`
	StartQuestion string     `bson:"startQuestion,omitempty" json:"start_question,omitempty"`
	IsActive      bool       `bson:"isActive" json:"is_active"`
	CreatedBy     string     `bson:"createdBy,omitempty" json:"created_by,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updated_at"`
}

// StartID returns the id of the question traversal starts from.
func (t *DecisionTree) StartID() string {
	if t.StartQuestion != "" {
		return t.StartQuestion
	}
	if len(t.Questions) > 0 {
		return t.Questions[0].ID
	}
	return ""
}

// IsLinear reports whether the tree runs in linear mode, which is a
// tree-wide property: every question must be transition-free.
func (t *DecisionTree) IsLinear() bool {
	for i := range t.Questions {
		if t.Questions[i].Next != nil {
			return false
		}
	}
	return true
}
