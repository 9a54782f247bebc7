package models

import "time"

// Rule type names the evaluator dispatches on. The set is closed: adding a
// kind means registering a handler, never editing an existing one.
const (
	RuleThresholdRequirement = "threshold_requirement"
	RuleAllowedValues        = "allowed_values"
	RuleFixedCondition       = "fixed_condition"
	RuleTaxRate              = "tax_rate"
)

// ThresholdRuleConfig injects a mandatory requirement when a numeric
// measurement extracted from the answers exceeds Min. All item names, search
// terms and message templates live here, never in evaluator code. Templates
// may use {item}, {value} and {threshold} placeholders.
type ThresholdRuleConfig struct {
	Keys              []string `bson:"keys" json:"keys"`
	Min               float64  `bson:"min" json:"min"`
	ItemName          string   `bson:"itemName" json:"item_name"`
	SearchTerms       []string `bson:"searchTerms" json:"search_terms"`
	ReasonTemplate    string   `bson:"reasonTemplate" json:"reason_template"`
	ConditionTemplate string   `bson:"conditionTemplate,omitempty" json:"condition_template,omitempty"`
}

// AllowedValuesRuleConfig validates a free-text field against an allow-list.
// A mismatch only ever yields a warning. The warning template may use
// {value} and {allowed}.
type AllowedValuesRuleConfig struct {
	Key             string   `bson:"key" json:"key"`
	Allowed         []string `bson:"allowed" json:"allowed"`
	WarningTemplate string   `bson:"warningTemplate,omitempty" json:"warning_template,omitempty"`
}

// FixedConditionRuleConfig appends a configured condition unconditionally
// (for example a mandatory exit-handhold notice).
type FixedConditionRuleConfig struct {
	Condition string `bson:"condition" json:"condition"`
}

// TaxRateRuleConfig configures the regional tax multiplier applied to quote
// subtotals. Lookup is by rule region, service-agnostic.
type TaxRateRuleConfig struct {
	Rate  float64 `bson:"rate" json:"rate"`
	Label string  `bson:"label,omitempty" json:"label,omitempty"`
}

// RuleConfig is the declarative payload of a business rule, tagged by
// RuleType. Exactly the section matching the type must be set; anything else
// is a configuration error surfaced at evaluation (and rejected at write).
type RuleConfig struct {
	RuleType       string                    `bson:"ruleType" json:"rule_type"`
	Threshold      *ThresholdRuleConfig      `bson:"threshold,omitempty" json:"threshold,omitempty"`
	AllowedValues  *AllowedValuesRuleConfig  `bson:"allowedValues,omitempty" json:"allowed_values,omitempty"`
	FixedCondition *FixedConditionRuleConfig `bson:"fixedCondition,omitempty" json:"fixed_condition,omitempty"`
	TaxRate        *TaxRateRuleConfig        `bson:"taxRate,omitempty" json:"tax_rate,omitempty"`
}

// BusinessRule is a declarative, priority-ordered, admin-authored rule.
// ServiceType empty means the rule is global. Rules are read-only to the
// engine.
type BusinessRule struct {
	ID              string     `bson:"id" json:"id"`
	RuleName        string     `bson:"ruleName" json:"rule_name"`
	ServiceType     string     `bson:"serviceType,omitempty" json:"service_type,omitempty"`
	Region          string     `bson:"region,omitempty" json:"region,omitempty"`
	Priority        int        `bson:"priority" json:"priority"`
	Config          RuleConfig `bson:"config" json:"rule_config"`
	IsActive        bool       `bson:"isActive" json:"is_active"`
	SourceReference string     `bson:"sourceReference,omitempty" json:"source_reference,omitempty"`
	Description     string     `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updated_at"`
}
