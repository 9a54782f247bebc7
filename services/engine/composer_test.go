package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jabezgenics-alt/ezzo-sales/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver answers queries from a fixed table; unknown queries resolve
// to nothing.
type fakeResolver struct {
	responses map[string][]PriceCandidate
	err       error
	calls     []string
}

func (f *fakeResolver) Resolve(ctx context.Context, query string, queryContext map[string]string) ([]PriceCandidate, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.responses[query], nil
}

func sgpTaxRule() models.BusinessRule {
	return models.BusinessRule{
		ID: "tax-sgp", RuleName: "Singapore GST", Region: "SGP", Priority: 1, IsActive: true,
		Config: models.RuleConfig{RuleType: models.RuleTaxRate, TaxRate: &models.TaxRateRuleConfig{Rate: 0.09, Label: "GST"}},
	}
}

func submittableAnswers() models.CollectedAnswers {
	return models.CollectedAnswers{}.
		With("item", answer("cat ladder")).
		With("quantity", answer(2.0)).
		With("location", answer("Bishan"))
}

func TestComposeArithmetic(t *testing.T) {
	resolver := &fakeResolver{responses: map[string][]PriceCandidate{
		"cat ladder":  {{Content: "cat ladder supply and install", Price: 100, Unit: "per unit", Source: "catalog.pdf"}},
		"safety cage": {{Content: "safety cage", Price: 50, Unit: "per unit", Source: "catalog.pdf"}},
	}}
	composer := &Composer{Resolver: resolver, DefaultTaxRate: 0.09}

	draft := composer.Compose(context.Background(), ComposeInput{
		Answers: submittableAnswers(),
		Evaluation: Evaluation{Requirements: []RequirementInjection{{
			ItemName:    "safety cage",
			SearchTerms: []string{"safety cage"},
			Reason:      "required above 3m",
			Mandatory:   true,
		}}},
		Rules:  []models.BusinessRule{sgpTaxRule()},
		Region: "SGP",
	})

	assert.Equal(t, 100.0, draft.BasePrice)
	assert.Equal(t, 2.0, draft.Quantity)
	require.Len(t, draft.Adjustments, 1)
	assert.Equal(t, models.AdjustmentFixed, draft.Adjustments[0].Kind)
	assert.Equal(t, 50.0, draft.Adjustments[0].Amount)
	// subtotal = 100*2 + 50 = 250; tax = 22.50; total = 272.50
	assert.Equal(t, 22.50, draft.TaxAmount)
	assert.Equal(t, 272.50, draft.TotalPrice)
	assert.True(t, draft.CanSubmit)
	assert.Empty(t, draft.MissingInfo)
}

func TestComposePercentageAppliesToRunningSubtotal(t *testing.T) {
	resolver := &fakeResolver{responses: map[string][]PriceCandidate{
		"cat ladder": {{Price: 100, Unit: "per unit"}},
	}}
	composer := &Composer{Resolver: resolver, DefaultTaxRate: 0}

	draft := composer.Compose(context.Background(), ComposeInput{
		Answers: submittableAnswers(),
		Adjustments: []models.Adjustment{
			{Description: "access equipment", Amount: 50, Kind: models.AdjustmentFixed, AppliesTo: models.AppliesToBase},
			{Description: "weekend surcharge", Amount: 10, Kind: models.AdjustmentPercentage, AppliesTo: models.AppliesToTotal},
			{Description: "loyalty discount", Amount: -5, Kind: models.AdjustmentPercentage, AppliesTo: models.AppliesToBase},
		},
		Rules: []models.BusinessRule{{ID: "tax0", RuleName: "zero", IsActive: true, Config: models.RuleConfig{RuleType: models.RuleTaxRate, TaxRate: &models.TaxRateRuleConfig{Rate: 0}}}},
	})

	// base 100*2 = 200; +50 fixed = 250; +10% of running subtotal = 275;
	// -5% of the original base (200) = 265. Tax rate 0 keeps it visible.
	assert.Equal(t, 265.0, draft.TotalPrice)
	require.Len(t, draft.Adjustments, 3)
	assert.Equal(t, "weekend surcharge", draft.Adjustments[1].Description)
}

func TestApplyAdjustmentsOrderMatters(t *testing.T) {
	pct := models.Adjustment{Amount: 10, Kind: models.AdjustmentPercentage, AppliesTo: models.AppliesToTotal}
	fixed := models.Adjustment{Amount: 100, Kind: models.AdjustmentFixed, AppliesTo: models.AppliesToBase}

	// Percentage before the fixed amount sees a smaller subtotal.
	assert.Equal(t, 320.0, applyAdjustments(200, []models.Adjustment{pct, fixed}))
	assert.Equal(t, 330.0, applyAdjustments(200, []models.Adjustment{fixed, pct}))

	// AppliesTo=base pins the percentage to the original base regardless of
	// what ran before it.
	basePct := models.Adjustment{Amount: 10, Kind: models.AdjustmentPercentage, AppliesTo: models.AppliesToBase}
	assert.Equal(t, 320.0, applyAdjustments(200, []models.Adjustment{fixed, basePct}))
}

func TestComposeUnresolvedPricingDegrades(t *testing.T) {
	resolver := &fakeResolver{responses: map[string][]PriceCandidate{}}
	composer := &Composer{Resolver: resolver, DefaultTaxRate: 0.09}

	draft := composer.Compose(context.Background(), ComposeInput{Answers: submittableAnswers()})

	assert.False(t, draft.CanSubmit)
	assert.Contains(t, draft.MissingInfo, "Pricing information")
	require.NotEmpty(t, draft.Conditions)
	assert.Contains(t, draft.Conditions[0], "No pricing information available")
}

func TestComposeResolverErrorIsNotFatal(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("search backend timeout")}
	composer := &Composer{Resolver: resolver, DefaultTaxRate: 0.09}

	draft := composer.Compose(context.Background(), ComposeInput{Answers: submittableAnswers()})
	assert.False(t, draft.CanSubmit)
	assert.Contains(t, draft.MissingInfo, "Pricing information")
}

func TestComposeRequirementPricingFailureBecomesCondition(t *testing.T) {
	resolver := &fakeResolver{responses: map[string][]PriceCandidate{
		"cat ladder": {{Price: 100, Unit: "per unit"}},
	}}
	composer := &Composer{Resolver: resolver, DefaultTaxRate: 0.09}

	draft := composer.Compose(context.Background(), ComposeInput{
		Answers: submittableAnswers(),
		Evaluation: Evaluation{Requirements: []RequirementInjection{{
			ItemName:    "rest platform",
			SearchTerms: []string{"rest platform"},
			Reason:      "required above 6m",
			Mandatory:   true,
		}}},
		Rules:  []models.BusinessRule{sgpTaxRule()},
		Region: "SGP",
	})

	assert.Empty(t, draft.Adjustments, "unpriced requirement must not become an adjustment")
	assert.Contains(t, draft.Conditions, "rest platform required (required above 6m) - pricing to be confirmed")
	assert.True(t, draft.CanSubmit, "unpriced requirement must not block submission")
	// subtotal stays 200, tax 18, total 218.
	assert.Equal(t, 218.0, draft.TotalPrice)
}

func TestComposeMissingFieldsBlockSubmission(t *testing.T) {
	resolver := &fakeResolver{responses: map[string][]PriceCandidate{
		"cat ladder": {{Price: 100, Unit: "per unit"}},
	}}
	composer := &Composer{Resolver: resolver, DefaultTaxRate: 0.09}

	answers := models.CollectedAnswers{}.With("item", answer("cat ladder"))
	draft := composer.Compose(context.Background(), ComposeInput{Answers: answers, Rules: []models.BusinessRule{sgpTaxRule()}, Region: "SGP"})

	assert.False(t, draft.CanSubmit)
	assert.ElementsMatch(t, []string{"Quantity or area", "Location/address"}, draft.MissingInfo)
}

func TestComposeDefaultTaxFallbackIsVisible(t *testing.T) {
	resolver := &fakeResolver{responses: map[string][]PriceCandidate{
		"cat ladder": {{Price: 100, Unit: "per unit"}},
	}}
	composer := &Composer{Resolver: resolver, DefaultTaxRate: 0.09}

	draft := composer.Compose(context.Background(), ComposeInput{
		Answers: submittableAnswers(),
		Region:  "MYS", // no tax rule configured for this region
	})

	found := false
	for _, cond := range draft.Conditions {
		if strings.Contains(cond, "default rate") && strings.Contains(cond, "MYS") {
			found = true
		}
	}
	assert.True(t, found, "fallback tax rate must be surfaced as a condition: %v", draft.Conditions)
	assert.Equal(t, 218.0, draft.TotalPrice)
}

func TestComposeDeterministic(t *testing.T) {
	build := func() models.DraftQuote {
		resolver := &fakeResolver{responses: map[string][]PriceCandidate{
			"cat ladder":  {{Price: 100, Unit: "per unit", Source: "a.pdf", Conditions: []string{"supply only"}}},
			"safety cage": {{Price: 50, Unit: "per unit", Source: "b.pdf"}},
		}}
		composer := &Composer{Resolver: resolver, DefaultTaxRate: 0.09}
		return composer.Compose(context.Background(), ComposeInput{
			Answers: submittableAnswers(),
			Evaluation: Evaluation{
				Requirements: []RequirementInjection{{ItemName: "safety cage", SearchTerms: []string{"safety cage"}, Reason: "regulation", Mandatory: true}},
				Conditions:   []string{"Exit handhold required"},
				Warnings:     []string{"verify material"},
			},
			Rules:  []models.BusinessRule{sgpTaxRule()},
			Region: "SGP",
		})
	}

	assert.Equal(t, build(), build())
}

func TestHighestPriceSelector(t *testing.T) {
	_, ok := HighestPriceSelector("q", nil)
	assert.False(t, ok)

	_, ok = HighestPriceSelector("q", []PriceCandidate{{Price: 0}})
	assert.False(t, ok, "zero-priced candidates are unusable")

	best, ok := HighestPriceSelector("q", []PriceCandidate{{Price: 120}, {Price: 450}, {Price: 90}})
	require.True(t, ok)
	assert.Equal(t, 450.0, best.Price)
}
