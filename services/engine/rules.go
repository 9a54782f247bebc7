package engine

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jabezgenics-alt/ezzo-sales/models"
)

// RequirementInjection is a rule-derived mandatory item that must be priced
// into the quote. It is consumed immediately by the composer, never
// persisted on its own.
type RequirementInjection struct {
	ItemName    string   `json:"item_name"`
	SearchTerms []string `json:"search_terms"`
	Reason      string   `json:"reason"`
	Mandatory   bool     `json:"mandatory"`
}

// Evaluation is the combined output of applying every matching rule, in
// priority order.
type Evaluation struct {
	Requirements []RequirementInjection `json:"requirements"`
	Conditions   []string               `json:"conditions"`
	Warnings     []string               `json:"warnings"`
}

func (e *Evaluation) merge(other Evaluation) {
	e.Requirements = append(e.Requirements, other.Requirements...)
	e.Conditions = append(e.Conditions, other.Conditions...)
	e.Warnings = append(e.Warnings, other.Warnings...)
}

// RuleHandler evaluates one rule kind. Handlers must be pure functions of
// (config, answers): no state reads or writes, identical inputs produce
// identically-ordered output.
type RuleHandler func(rule *models.BusinessRule, answers models.CollectedAnswers) (Evaluation, error)

// Evaluator applies business rules to an answer snapshot. Rule kinds
// dispatch through a closed registry of named handlers, so adding a kind
// never touches existing ones.
type Evaluator struct {
	handlers map[string]RuleHandler
}

// NewEvaluator returns an evaluator with the built-in rule kinds registered.
func NewEvaluator() *Evaluator {
	e := &Evaluator{handlers: make(map[string]RuleHandler)}
	e.Register(models.RuleThresholdRequirement, evaluateThreshold)
	e.Register(models.RuleAllowedValues, evaluateAllowedValues)
	e.Register(models.RuleFixedCondition, evaluateFixedCondition)
	e.Register(models.RuleTaxRate, evaluateTaxRateRule)
	return e
}

// Register adds a handler for a rule kind.
func (e *Evaluator) Register(ruleType string, h RuleHandler) {
	e.handlers[ruleType] = h
}

// Known reports whether a rule kind has a registered handler. Repositories
// use it to reject unknown kinds at write time.
func (e *Evaluator) Known(ruleType string) bool {
	_, ok := e.handlers[ruleType]
	return ok
}

// ValidateRule checks that a rule's kind is registered and its config
// section is present and complete, by running the handler against an empty
// answer snapshot. Admin writes reject rules that fail here.
func (e *Evaluator) ValidateRule(rule *models.BusinessRule) error {
	handler, ok := e.handlers[rule.Config.RuleType]
	if !ok {
		return NewConfigurationError(rule.RuleName, rule.Config.RuleType, "unknown rule type")
	}
	_, err := handler(rule, models.CollectedAnswers{})
	return err
}

// SelectRules filters to active rules scoped to the service (or global) and
// orders them by ascending priority, preserving input order on ties.
func SelectRules(rules []models.BusinessRule, serviceType string) []models.BusinessRule {
	selected := make([]models.BusinessRule, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if r.ServiceType != "" && r.ServiceType != serviceType {
			continue
		}
		selected = append(selected, r)
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Priority < selected[j].Priority
	})
	return selected
}

// Evaluate applies every matching rule to the answers and concatenates the
// outputs in priority order. There is no short-circuit on first match.
func (e *Evaluator) Evaluate(rules []models.BusinessRule, serviceType string, answers models.CollectedAnswers) (Evaluation, error) {
	result := Evaluation{
		Requirements: []RequirementInjection{},
		Conditions:   []string{},
		Warnings:     []string{},
	}
	for _, rule := range SelectRules(rules, serviceType) {
		handler, ok := e.handlers[rule.Config.RuleType]
		if !ok {
			return Evaluation{}, NewConfigurationError(rule.RuleName, rule.Config.RuleType, "unknown rule type")
		}
		partial, err := handler(&rule, answers)
		if err != nil {
			return Evaluation{}, err
		}
		result.merge(partial)
	}
	return result, nil
}

// ResolveTaxRate looks up the regional tax multiplier from active tax_rate
// rules, service-agnostic, lowest priority number first. The boolean reports
// whether a regional rule was configured; callers fall back to the
// documented default when it is false.
func ResolveTaxRate(rules []models.BusinessRule, region string) (rate float64, label string, ok bool) {
	candidates := make([]models.BusinessRule, 0, len(rules))
	for _, r := range rules {
		if !r.IsActive || r.Config.RuleType != models.RuleTaxRate || r.Config.TaxRate == nil {
			continue
		}
		if region != "" && r.Region != "" && !strings.EqualFold(r.Region, region) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return 0, "", false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority < candidates[j].Priority
	})
	cfg := candidates[0].Config.TaxRate
	return cfg.Rate, cfg.Label, true
}

var numberPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// ParseMeasurement extracts a numeric measurement from an answer value.
// Plain numbers pass through; strings may carry unit suffixes ("3.5m",
// "3.5 metres"), in which case the first number wins.
func ParseMeasurement(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		cleaned := strings.TrimSpace(strings.ToLower(v))
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return f, true
		}
		if m := numberPattern.FindString(cleaned); m != "" {
			if f, err := strconv.ParseFloat(m, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// measurementFromAnswers tries each configured key alias in order and
// returns the first parseable measurement. Prefilled-but-unconfirmed
// answers do not count.
func measurementFromAnswers(keys []string, answers models.CollectedAnswers) (float64, bool) {
	for _, key := range keys {
		value, ok := answers.Value(key)
		if !ok {
			continue
		}
		if f, ok := ParseMeasurement(value); ok {
			return f, true
		}
	}
	return 0, false
}

// renderTemplate substitutes the {item}, {value}, {threshold}, {allowed}
// placeholders rule authors may use in message templates.
func renderTemplate(tmpl string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
