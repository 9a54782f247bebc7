package engine

import (
	"strconv"
	"strings"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// SeedAnswers scans a free-text message for values that answer a tree's
// questions before they are asked. Extraction is conservative: a value is
// seeded only when it is unambiguous in the message, and every seeded answer
// is marked Prefilled so the customer has to confirm it before it counts as
// present.
func SeedAnswers(message string, tree *models.DecisionTree) models.CollectedAnswers {
	seeded := models.CollectedAnswers{}
	if tree == nil || strings.TrimSpace(message) == "" {
		return seeded
	}

	numbers := numberPattern.FindAllString(message, -1)
	for i := range tree.Questions {
		q := &tree.Questions[i]
		switch q.Type {
		case models.QuestionChoice:
			if choice, ok := uniqueChoiceIn(message, q.Choices); ok {
				seeded = seeded.With(q.ID, prefilled(choice))
			}
		case models.QuestionNumber:
			// A lone number in the message can only belong to one
			// question; more than one number is ambiguous.
			if len(numbers) != 1 {
				continue
			}
			if f, err := strconv.ParseFloat(numbers[0], 64); err == nil {
				seeded = seeded.With(q.ID, prefilled(f))
				numbers = nil
			}
		}
	}
	return seeded
}

// uniqueChoiceIn returns the single choice mentioned in the message, if
// exactly one is.
func uniqueChoiceIn(message string, choices []string) (string, bool) {
	lower := strings.ToLower(message)
	matched := ""
	for _, choice := range choices {
		if choice == "" || !strings.Contains(lower, strings.ToLower(choice)) {
			continue
		}
		if matched != "" {
			return "", false
		}
		matched = choice
	}
	return matched, matched != ""
}

func prefilled(value interface{}) models.Answer {
	return models.Answer{Value: value, Prefilled: true, Source: "initial_message"}
}
