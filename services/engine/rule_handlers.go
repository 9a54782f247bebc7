package engine

import (
	"strings"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// Built-in rule handlers. Every item name, search term and message lives in
// the rule config; handlers only wire config to answers.

// evaluateThreshold injects a mandatory requirement when the measurement
// extracted from the answers exceeds the configured minimum.
func evaluateThreshold(rule *models.BusinessRule, answers models.CollectedAnswers) (Evaluation, error) {
	cfg := rule.Config.Threshold
	if cfg == nil || cfg.ItemName == "" || len(cfg.Keys) == 0 {
		return Evaluation{}, NewConfigurationError(rule.RuleName, models.RuleThresholdRequirement, "missing or incomplete threshold config")
	}

	var result Evaluation
	value, ok := measurementFromAnswers(cfg.Keys, answers)
	if !ok || value <= cfg.Min {
		return result, nil
	}

	pairs := []string{
		"{item}", cfg.ItemName,
		"{value}", formatNumber(value),
		"{threshold}", formatNumber(cfg.Min),
	}
	reason := renderTemplate(cfg.ReasonTemplate, pairs...)
	result.Requirements = append(result.Requirements, RequirementInjection{
		ItemName:    cfg.ItemName,
		SearchTerms: cfg.SearchTerms,
		Reason:      reason,
		Mandatory:   true,
	})
	if cfg.ConditionTemplate != "" {
		result.Conditions = append(result.Conditions, renderTemplate(cfg.ConditionTemplate, pairs...))
	}
	return result, nil
}

// evaluateAllowedValues fuzzy-matches a free-text answer against the
// allow-list. A mismatch is a non-blocking warning, never a requirement or
// a failure.
func evaluateAllowedValues(rule *models.BusinessRule, answers models.CollectedAnswers) (Evaluation, error) {
	cfg := rule.Config.AllowedValues
	if cfg == nil || cfg.Key == "" || len(cfg.Allowed) == 0 {
		return Evaluation{}, NewConfigurationError(rule.RuleName, models.RuleAllowedValues, "missing or incomplete allowed_values config")
	}

	var result Evaluation
	raw, ok := answers.Value(cfg.Key)
	if !ok {
		return result, nil
	}
	value := strings.ToLower(strings.TrimSpace(Stringify(raw)))
	if value == "" {
		return result, nil
	}
	for _, allowed := range cfg.Allowed {
		candidate := strings.ToLower(allowed)
		if strings.Contains(value, candidate) || strings.Contains(candidate, value) {
			return result, nil
		}
	}

	tmpl := cfg.WarningTemplate
	if tmpl == "" {
		tmpl = "Value '{value}' should be verified against approved options: {allowed}"
	}
	result.Warnings = append(result.Warnings, renderTemplate(tmpl,
		"{value}", Stringify(raw),
		"{allowed}", strings.Join(cfg.Allowed, ", "),
	))
	return result, nil
}

// evaluateFixedCondition appends the configured condition unconditionally.
func evaluateFixedCondition(rule *models.BusinessRule, answers models.CollectedAnswers) (Evaluation, error) {
	cfg := rule.Config.FixedCondition
	if cfg == nil || cfg.Condition == "" {
		return Evaluation{}, NewConfigurationError(rule.RuleName, models.RuleFixedCondition, "missing fixed_condition config")
	}
	return Evaluation{Conditions: []string{cfg.Condition}}, nil
}

// evaluateTaxRateRule contributes nothing during rule evaluation; tax rules
// are read by ResolveTaxRate at composition time. Registering it keeps the
// kind known so admins can store tax rules without tripping validation.
func evaluateTaxRateRule(rule *models.BusinessRule, answers models.CollectedAnswers) (Evaluation, error) {
	if rule.Config.TaxRate == nil {
		return Evaluation{}, NewConfigurationError(rule.RuleName, models.RuleTaxRate, "missing tax_rate config")
	}
	return Evaluation{}, nil
}
