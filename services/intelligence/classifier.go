package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"go.uber.org/zap"
)

// TreeClassifier matches a customer's opening message to a decision tree.
// When a Gemini generator is configured it is asked first; a failure or an
// unusable reply falls back to deterministic keyword matching, so the
// classifier works without any AI credentials at all.
type TreeClassifier struct {
	Generator TextGenerator
}

func (c *TreeClassifier) Match(ctx context.Context, message string, trees []models.DecisionTree) (*models.DecisionTree, error) {
	if len(trees) == 0 {
		return nil, nil
	}

	if c.Generator != nil {
		if tree := c.matchWithModel(ctx, message, trees); tree != nil {
			return tree, nil
		}
	}
	return keywordMatch(message, trees), nil
}

func (c *TreeClassifier) matchWithModel(ctx context.Context, message string, trees []models.DecisionTree) *models.DecisionTree {
	names := make([]string, len(trees))
	for i, t := range trees {
		names[i] = t.ServiceName
	}
	prompt := fmt.Sprintf(
		"You match a customer enquiry to one service from a fixed list.\n"+
			"Services: %s\n"+
			"Enquiry: %q\n"+
			"Reply with exactly one service name from the list, or NONE if nothing fits.",
		strings.Join(names, ", "), message)

	reply, err := c.Generator.GenerateContent(ctx, prompt)
	if err != nil {
		utils.GetLogger().Warn("classifier model call failed, using keyword fallback", zap.Error(err))
		return nil
	}
	reply = strings.TrimSpace(strings.ToLower(reply))
	if reply == "" || reply == "none" {
		return nil
	}
	for i := range trees {
		if strings.EqualFold(trees[i].ServiceName, reply) {
			return &trees[i]
		}
	}
	// Model rambled; see if a known name appears in the reply.
	for i := range trees {
		if strings.Contains(reply, strings.ToLower(trees[i].ServiceName)) {
			return &trees[i]
		}
	}
	return nil
}

// keywordMatch scores trees by how many of their name tokens appear in the
// message. Longest total match wins; zero matches means no tree.
func keywordMatch(message string, trees []models.DecisionTree) *models.DecisionTree {
	normalized := strings.ToLower(message)

	var best *models.DecisionTree
	bestScore := 0
	for i := range trees {
		score := 0
		for _, token := range nameTokens(&trees[i]) {
			if len(token) >= 3 && strings.Contains(normalized, token) {
				score += len(token)
			}
		}
		if score > bestScore {
			bestScore = score
			best = &trees[i]
		}
	}
	return best
}

func nameTokens(tree *models.DecisionTree) []string {
	raw := strings.ToLower(tree.ServiceName + " " + tree.DisplayName)
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '/'
	})
	seen := map[string]bool{}
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	return tokens
}
