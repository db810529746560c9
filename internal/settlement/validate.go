package settlement

import (
	"fmt"

	"github.com/iwvelando/claim-settlement/pkg/constants"
	"github.com/iwvelando/claim-settlement/pkg/mathutil"
	"github.com/shopspring/decimal"
)

type bound struct {
	min decimal.Decimal
	max decimal.Decimal
}

func newBound(min, max float64) bound {
	return bound{min: decimal.NewFromFloat(min), max: decimal.NewFromFloat(max)}
}

var (
	depreciationBound = newBound(constants.MinDepreciationRate, constants.MaxDepreciationRate)
	overheadBound     = newBound(constants.MinOverheadProfitRate, constants.MaxOverheadProfitRate)
	salesTaxBound     = newBound(constants.MinSalesTaxRate, constants.MaxSalesTaxRate)
	negotiationBound  = newBound(constants.MinNegotiationAdjustment, constants.MaxNegotiationAdjustment)
)

func (b bound) check(field string, value decimal.Decimal) error {
	if !mathutil.InRange(value, b.min, b.max) {
		return invalid(field, "must be within [%s, %s], got %s", b.min, b.max, value)
	}
	return nil
}

// Validate checks every input and returns the first violation as a
// *ValidationError. Entries are checked first, in order, then adjustments,
// then the policy.
func Validate(policy PolicyContext, entries []DamageEntry, adjustments AdjustmentParameters) error {
	if len(entries) == 0 {
		return &ValidationError{Field: "entries", Reason: "no damage entries"}
	}

	for i, entry := range entries {
		if err := validateEntry(i, entry); err != nil {
			return err
		}
	}

	if err := validateAdjustments(adjustments); err != nil {
		return err
	}

	return validatePolicy(policy)
}

func validateEntry(i int, entry DamageEntry) error {
	prefix := fmt.Sprintf("entries[%d]", i)
	if entry.Amount.IsNegative() {
		return invalid(prefix+".amount", "must be >= 0, got %s", entry.Amount)
	}
	if !entry.Quantity.IsPositive() {
		return invalid(prefix+".quantity", "must be > 0, got %s", entry.Quantity)
	}
	if entry.DepreciationRate != nil {
		if err := depreciationBound.check(prefix+".depreciation_rate", *entry.DepreciationRate); err != nil {
			return err
		}
	}
	return nil
}

func validateAdjustments(adjustments AdjustmentParameters) error {
	checks := []struct {
		field string
		value decimal.Decimal
		bound bound
	}{
		{"adjustments.depreciation_rate_default", adjustments.DepreciationRateDefault, depreciationBound},
		{"adjustments.overhead_profit_rate", adjustments.OverheadProfitRate, overheadBound},
		{"adjustments.sales_tax_rate", adjustments.SalesTaxRate, salesTaxBound},
		{"adjustments.negotiation_adjustment", adjustments.NegotiationAdjustment, negotiationBound},
	}
	for _, c := range checks {
		if err := c.bound.check(c.field, c.value); err != nil {
			return err
		}
	}
	return nil
}

func validatePolicy(policy PolicyContext) error {
	if policy.Deductible.IsNegative() {
		return invalid("policy.deductible", "must be >= 0, got %s", policy.Deductible)
	}
	if policy.HurricaneDeductible != nil && policy.HurricaneDeductible.IsNegative() {
		return invalid("policy.hurricane_deductible", "must be >= 0, got %s", *policy.HurricaneDeductible)
	}

	coverages := []struct {
		field string
		value *decimal.Decimal
	}{
		{"policy.coverage_a", policy.CoverageA},
		{"policy.coverage_b", policy.CoverageB},
		{"policy.coverage_c", policy.CoverageC},
		{"policy.coverage_d", policy.CoverageD},
		{"policy.coverage_e", policy.CoverageE},
		{"policy.coverage_f", policy.CoverageF},
	}
	for _, c := range coverages {
		if c.value != nil && c.value.IsNegative() {
			return invalid(c.field, "must be >= 0, got %s", *c.value)
		}
	}
	return nil
}
