package engine

import (
	"testing"

	"github.com/jabezgenics-alt/ezzo-sales/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func ladderSafetyRule() models.BusinessRule {
	return models.BusinessRule{
		ID:          "rule-cage",
		RuleName:    "Singapore Ladder Safety Standards",
		ServiceType: "cat_ladder_installation",
		Region:      "SGP",
		Priority:    10,
		IsActive:    true,
		Config: models.RuleConfig{
			RuleType: models.RuleThresholdRequirement,
			Threshold: &models.ThresholdRuleConfig{
				Keys:              []string{"height", "ladder_height", "total_height"},
				Min:               3.0,
				ItemName:          "safety cage",
				SearchTerms:       []string{"safety cage", "ladder cage", "cage for ladder"},
				ReasonTemplate:    "WSH regulations require {item} for ladders exceeding {threshold}m",
				ConditionTemplate: "{item} required (ladder height {value}m exceeds {threshold}m minimum)",
			},
		},
	}
}

func materialRule() models.BusinessRule {
	return models.BusinessRule{
		ID:       "rule-material",
		RuleName: "Material grade verification",
		Region:   "SGP",
		Priority: 20,
		IsActive: true,
		Config: models.RuleConfig{
			RuleType: models.RuleAllowedValues,
			AllowedValues: &models.AllowedValuesRuleConfig{
				Key:             "material",
				Allowed:         []string{"SS304", "SS316", "HDG", "Aluminium"},
				WarningTemplate: "Material '{value}' should be verified against approved grades: {allowed}",
			},
		},
	}
}

func TestThresholdRuleTriggersAboveMinimum(t *testing.T) {
	ev := NewEvaluator()
	rules := []models.BusinessRule{ladderSafetyRule()}

	answers := models.CollectedAnswers{}.With("height", answer(3.5))
	result, err := ev.Evaluate(rules, "cat_ladder_installation", answers)
	require.NoError(t, err)
	require.Len(t, result.Requirements, 1)
	req := result.Requirements[0]
	assert.Equal(t, "safety cage", req.ItemName)
	assert.True(t, req.Mandatory)
	assert.Equal(t, []string{"safety cage", "ladder cage", "cage for ladder"}, req.SearchTerms)
	assert.Equal(t, "WSH regulations require safety cage for ladders exceeding 3m", req.Reason)
	require.Len(t, result.Conditions, 1)
	assert.Equal(t, "safety cage required (ladder height 3.5m exceeds 3m minimum)", result.Conditions[0])
}

func TestThresholdRuleQuietBelowMinimum(t *testing.T) {
	ev := NewEvaluator()
	rules := []models.BusinessRule{ladderSafetyRule()}

	answers := models.CollectedAnswers{}.With("height", answer(2.9))
	result, err := ev.Evaluate(rules, "cat_ladder_installation", answers)
	require.NoError(t, err)
	assert.Empty(t, result.Requirements)
	assert.Empty(t, result.Conditions)
}

func TestThresholdRuleParsesUnitSuffixedStrings(t *testing.T) {
	ev := NewEvaluator()
	rules := []models.BusinessRule{ladderSafetyRule()}

	numeric, err := ev.Evaluate(rules, "cat_ladder_installation",
		models.CollectedAnswers{}.With("height", answer(3.5)))
	require.NoError(t, err)
	suffixed, err := ev.Evaluate(rules, "cat_ladder_installation",
		models.CollectedAnswers{}.With("height", answer("3.5m")))
	require.NoError(t, err)

	assert.Equal(t, numeric, suffixed, `"3.5m" must evaluate like numeric 3.5`)
}

func TestThresholdRuleTriesKeyAliases(t *testing.T) {
	ev := NewEvaluator()
	rules := []models.BusinessRule{ladderSafetyRule()}

	answers := models.CollectedAnswers{}.With("ladder_height", answer("4 metres"))
	result, err := ev.Evaluate(rules, "cat_ladder_installation", answers)
	require.NoError(t, err)
	require.Len(t, result.Requirements, 1)
}

func TestThresholdRuleReadsConfirmedContextValue(t *testing.T) {
	ev := NewEvaluator()
	rules := []models.BusinessRule{ladderSafetyRule()}

	unconfirmed := models.CollectedAnswers{}.
		With("height", models.Answer{Value: 3.5, Prefilled: true, Source: "conversation"})
	result, err := ev.Evaluate(rules, "cat_ladder_installation", unconfirmed)
	require.NoError(t, err)
	assert.Empty(t, result.Requirements, "unconfirmed context values are not present")

	confirmed := models.CollectedAnswers{}.
		With("height", models.Answer{Value: 3.5, Prefilled: true, Confirmed: true, Source: "conversation"})
	result, err = ev.Evaluate(rules, "cat_ladder_installation", confirmed)
	require.NoError(t, err)
	require.Len(t, result.Requirements, 1)
}

func TestAllowedValuesMismatchIsWarningOnly(t *testing.T) {
	ev := NewEvaluator()
	rules := []models.BusinessRule{materialRule()}

	answers := models.CollectedAnswers{}.With("material", answer("mild steel"))
	result, err := ev.Evaluate(rules, "cat_ladder_installation", answers)
	require.NoError(t, err)
	assert.Empty(t, result.Requirements)
	assert.Empty(t, result.Conditions)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Material 'mild steel' should be verified against approved grades: SS304, SS316, HDG, Aluminium",
		result.Warnings[0])
}

func TestAllowedValuesSubstringMatchIsCaseInsensitive(t *testing.T) {
	ev := NewEvaluator()
	rules := []models.BusinessRule{materialRule()}

	answers := models.CollectedAnswers{}.With("material", answer("hot-dip galvanised HDG steel"))
	result, err := ev.Evaluate(rules, "cat_ladder_installation", answers)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

func TestRuleSelectionScopeAndOrder(t *testing.T) {
	cage := ladderSafetyRule()
	global := materialRule()
	global.Priority = 5 // global rule with lower priority number runs first
	otherService := ladderSafetyRule()
	otherService.ID = "rule-other"
	otherService.ServiceType = "court_markings"
	inactive := ladderSafetyRule()
	inactive.ID = "rule-inactive"
	inactive.IsActive = false

	selected := SelectRules([]models.BusinessRule{cage, global, otherService, inactive}, "cat_ladder_installation")
	require.Len(t, selected, 2)
	assert.Equal(t, "rule-material", selected[0].ID)
	assert.Equal(t, "rule-cage", selected[1].ID)
}

func TestFixedConditionRule(t *testing.T) {
	ev := NewEvaluator()
	rules := []models.BusinessRule{{
		ID: "rule-handhold", RuleName: "Exit handhold", Priority: 30, IsActive: true,
		Config: models.RuleConfig{
			RuleType:       models.RuleFixedCondition,
			FixedCondition: &models.FixedConditionRuleConfig{Condition: "Exit handhold required at top of ladder"},
		},
	}}

	result, err := ev.Evaluate(rules, "cat_ladder_installation", models.CollectedAnswers{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Exit handhold required at top of ladder"}, result.Conditions)
}

func TestUnknownRuleTypeIsConfigurationError(t *testing.T) {
	ev := NewEvaluator()
	rules := []models.BusinessRule{{
		ID: "rule-bad", RuleName: "bad", Priority: 1, IsActive: true,
		Config: models.RuleConfig{RuleType: "no_such_kind"},
	}}

	_, err := ev.Evaluate(rules, "any", models.CollectedAnswers{})
	require.Error(t, err)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestMalformedRuleConfigIsConfigurationError(t *testing.T) {
	ev := NewEvaluator()
	rules := []models.BusinessRule{{
		ID: "rule-bad", RuleName: "bad threshold", Priority: 1, IsActive: true,
		Config: models.RuleConfig{RuleType: models.RuleThresholdRequirement},
	}}

	_, err := ev.Evaluate(rules, "any", models.CollectedAnswers{})
	require.Error(t, err)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestResolveTaxRate(t *testing.T) {
	sgp := models.BusinessRule{
		ID: "tax-sgp", RuleName: "Singapore GST", Region: "SGP", Priority: 10, IsActive: true,
		Config: models.RuleConfig{RuleType: models.RuleTaxRate, TaxRate: &models.TaxRateRuleConfig{Rate: 0.09, Label: "GST"}},
	}
	inactive := sgp
	inactive.ID = "tax-off"
	inactive.IsActive = false

	rate, label, ok := ResolveTaxRate([]models.BusinessRule{inactive, sgp}, "SGP")
	require.True(t, ok)
	assert.Equal(t, 0.09, rate)
	assert.Equal(t, "GST", label)

	_, _, ok = ResolveTaxRate([]models.BusinessRule{inactive}, "SGP")
	assert.False(t, ok)

	_, _, ok = ResolveTaxRate([]models.BusinessRule{sgp}, "MYS")
	assert.False(t, ok, "region-scoped rule must not apply elsewhere")
}

// Two evaluations with identical inputs must produce identical,
// identically-ordered output.
func TestEvaluatePurity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		height := rapid.Float64Range(0, 12).Draw(t, "height")
		material := rapid.SampledFrom([]string{"SS304", "mild steel", "HDG", "timber", ""}).Draw(t, "material")

		answers := models.CollectedAnswers{}.With("height", answer(height))
		if material != "" {
			answers = answers.With("material", answer(material))
		}
		rules := []models.BusinessRule{ladderSafetyRule(), materialRule()}

		ev := NewEvaluator()
		first, err := ev.Evaluate(rules, "cat_ladder_installation", answers)
		require.NoError(t, err)
		second, err := ev.Evaluate(rules, "cat_ladder_installation", answers)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestParseMeasurement(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
		ok   bool
	}{
		{3.5, 3.5, true},
		{7, 7, true},
		{"3.5", 3.5, true},
		{"3.5m", 3.5, true},
		{"about 4 metres", 4, true},
		{"tall", 0, false},
		{nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseMeasurement(tc.in)
		assert.Equal(t, tc.ok, ok, "input %v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %v", tc.in)
		}
	}
}
