package engine

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jabezgenics-alt/ezzo-sales/models"

	"go.uber.org/zap"
)

// Answer keys the composer understands. Quantity and measurement aliases
// mirror the ids decision-tree authors use.
var (
	quantityKeys = []string{"quantity", "total_area", "quantity_or_area"}
	requiredKeys = []struct {
		keys  []string
		label string
	}{
		{[]string{"item"}, "Product/service type"},
		{quantityKeys, "Quantity or area"},
		{[]string{"location"}, "Location/address"},
	}
	// Descriptive answers appended to the price search query, in fixed order
	// so identical answer snapshots always produce the identical query.
	descriptiveKeys = []string{"material", "height", "finish_type", "varnish_type"}
)

// ComposeInput bundles everything a draft is computed from. Identical inputs
// (including resolver responses) yield an identical draft.
type ComposeInput struct {
	Tree       *models.DecisionTree
	Answers    models.CollectedAnswers
	Evaluation Evaluation
	// Adjustments are caller-supplied price modifications (surcharges,
	// discounts) applied after the rule-injected requirements, in order.
	Adjustments []models.Adjustment
	Rules       []models.BusinessRule
	Region      string
}

// Composer turns collected answers plus rule output into a priced draft.
type Composer struct {
	Resolver       PriceResolver
	Select         PriceSelector
	DefaultTaxRate float64
	TaxLabel       string
	Logger         *zap.Logger
}

// HighestPriceSelector picks the highest-priced candidate, first one on
// ties. It mirrors the "most comprehensive option" selection the catalog
// uses for service quotes.
func HighestPriceSelector(query string, candidates []PriceCandidate) (PriceCandidate, bool) {
	if len(candidates) == 0 {
		return PriceCandidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Price > best.Price {
			best = c
		}
	}
	if best.Price <= 0 {
		return PriceCandidate{}, false
	}
	return best, true
}

func (c *Composer) selector() PriceSelector {
	if c.Select != nil {
		return c.Select
	}
	return HighestPriceSelector
}

func (c *Composer) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.L()
}

// resolveOne runs one port query and selects a single candidate. Port
// errors and timeouts degrade to "not resolved"; they never propagate.
func (c *Composer) resolveOne(ctx context.Context, query string, queryContext map[string]string) (PriceCandidate, bool) {
	if c.Resolver == nil {
		return PriceCandidate{}, false
	}
	candidates, err := c.Resolver.Resolve(ctx, query, queryContext)
	if err != nil {
		c.logger().Warn("price resolution failed", zap.String("query", query), zap.Error(err))
		return PriceCandidate{}, false
	}
	return c.selector()(query, candidates)
}

// buildQuery assembles the primary search query from the item name and the
// descriptive answers.
func buildQuery(itemName string, answers models.CollectedAnswers) string {
	parts := []string{itemName}
	for _, key := range descriptiveKeys {
		if v, ok := answers.Value(key); ok {
			parts = append(parts, Stringify(v))
		}
	}
	return strings.Join(parts, " ")
}

func anyPresent(keys []string, answers models.CollectedAnswers) bool {
	for _, key := range keys {
		if _, ok := answers.Value(key); ok {
			return true
		}
	}
	return false
}

func missingInfo(answers models.CollectedAnswers) []string {
	missing := []string{}
	for _, field := range requiredKeys {
		if !anyPresent(field.keys, answers) {
			missing = append(missing, field.label)
		}
	}
	return missing
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// applyAdjustments folds the adjustments into the subtotal in list order.
// Fixed amounts add directly; a percentage resolves against the original
// base when AppliesTo is base, otherwise against the subtotal as it stands
// when the adjustment is reached, so earlier adjustments compound into it.
func applyAdjustments(base float64, adjustments []models.Adjustment) float64 {
	subtotal := base
	for _, adj := range adjustments {
		switch adj.Kind {
		case models.AdjustmentFixed:
			subtotal += adj.Amount
		case models.AdjustmentPercentage:
			if adj.AppliesTo == models.AppliesToBase {
				subtotal += base * adj.Amount / 100
			} else {
				subtotal += subtotal * adj.Amount / 100
			}
		}
	}
	return subtotal
}

// Compose runs the composition steps in order: resolve the primary price,
// price every rule-injected requirement, apply adjustments to the running
// subtotal, look up the regional tax rate, and emit the draft. Rounding to
// currency precision happens exactly once, when tax and total are emitted;
// intermediate sums stay unrounded so error cannot compound.
func (c *Composer) Compose(ctx context.Context, in ComposeInput) models.DraftQuote {
	itemName := "Unknown Item"
	if v, ok := in.Answers.Value("item"); ok {
		itemName = Stringify(v)
	} else if in.Tree != nil && in.Tree.DisplayName != "" {
		itemName = in.Tree.DisplayName
	}

	missing := missingInfo(in.Answers)

	queryContext := map[string]string{"region": in.Region}
	primary, resolved := c.resolveOne(ctx, buildQuery(itemName, in.Answers), queryContext)
	if !resolved {
		return models.DraftQuote{
			ItemName:         itemName,
			Unit:             "unit",
			Quantity:         1,
			Adjustments:      []models.Adjustment{},
			Conditions:       []string{fmt.Sprintf("No pricing information available for %s", itemName)},
			Warnings:         in.Evaluation.Warnings,
			SourceReferences: []string{},
			MissingInfo:      append([]string{"Pricing information"}, missing...),
			CanSubmit:        false,
		}
	}

	quantity := 1.0
	for _, key := range quantityKeys {
		if v, ok := in.Answers.Value(key); ok {
			if q, ok := ParseMeasurement(v); ok && q > 0 {
				quantity = q
				break
			}
		}
	}

	conditions := append([]string{}, in.Evaluation.Conditions...)
	conditions = append(conditions, primary.Conditions...)
	sources := []string{}
	if primary.Source != "" {
		sources = append(sources, primary.Source)
	}

	// Price each injected requirement; a failed resolution becomes a
	// visible condition instead of blocking the quote.
	adjustments := []models.Adjustment{}
	for _, req := range in.Evaluation.Requirements {
		candidate, ok := c.resolveOne(ctx, strings.Join(req.SearchTerms, " "), queryContext)
		if !ok {
			conditions = append(conditions,
				fmt.Sprintf("%s required (%s) - pricing to be confirmed", req.ItemName, req.Reason))
			continue
		}
		adjustments = append(adjustments, models.Adjustment{
			Description: fmt.Sprintf("%s (%s)", req.ItemName, req.Reason),
			Amount:      candidate.Price,
			Kind:        models.AdjustmentFixed,
			AppliesTo:   models.AppliesToBase,
		})
		if candidate.Source != "" {
			sources = appendUnique(sources, candidate.Source)
		}
	}

	adjustments = append(adjustments, in.Adjustments...)

	base := primary.Price * quantity
	subtotal := applyAdjustments(base, adjustments)

	taxRate, taxLabel, haveRegional := ResolveTaxRate(in.Rules, in.Region)
	if !haveRegional {
		taxRate = c.DefaultTaxRate
		taxLabel = c.TaxLabel
		if taxLabel == "" {
			taxLabel = "GST"
		}
		c.logger().Warn("no regional tax rule configured, applying default rate",
			zap.String("region", in.Region), zap.Float64("rate", taxRate))
		conditions = append(conditions,
			fmt.Sprintf("%s applied at default rate %.0f%% (no tax rule configured for region %q)",
				taxLabel, taxRate*100, in.Region))
	}
	if taxLabel == "" {
		taxLabel = "GST"
	}

	tax := round2(subtotal * taxRate)
	total := round2(subtotal + subtotal*taxRate)

	if v, ok := in.Answers.Value("location"); ok {
		conditions = append(conditions, fmt.Sprintf("Delivery to: %s", Stringify(v)))
	}
	conditions = append(conditions, fmt.Sprintf("Price includes %.0f%% %s", taxRate*100, taxLabel))

	unit := primary.Unit
	if unit == "" {
		unit = "unit"
	}

	return models.DraftQuote{
		ItemName:         itemName,
		BasePrice:        primary.Price,
		Unit:             unit,
		Quantity:         quantity,
		Adjustments:      adjustments,
		TaxAmount:        tax,
		TotalPrice:       total,
		Conditions:       conditions,
		Warnings:         in.Evaluation.Warnings,
		SourceReferences: sources,
		MissingInfo:      missing,
		CanSubmit:        len(missing) == 0,
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
