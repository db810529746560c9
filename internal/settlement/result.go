package settlement

import (
	"github.com/iwvelando/claim-settlement/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// LineItem is a named monetary figure of a result, in presentation order.
type LineItem struct {
	Label  string
	Key    string
	Amount decimal.Decimal
}

// LineItems lists the monetary figures of r in the order they are reported.
func (r SettlementResult) LineItems() []LineItem {
	return []LineItem{
		{"Total Damage Estimate", "total_damage_estimate", r.TotalDamageEstimate},
		{"Depreciation", "depreciation_amount", r.DepreciationAmount},
		{"Actual Cash Value", "actual_cash_value", r.ActualCashValue},
		{"Recoverable Depreciation", "recoverable_depreciation", r.RecoverableDepreciation},
		{"Replacement Cost Value", "replacement_cost_value", r.ReplacementCostValue},
		{"Overhead & Profit", "overhead_profit_amount", r.OverheadProfitAmount},
		{"Sales Tax", "sales_tax_amount", r.SalesTaxAmount},
		{"Deductible", "deductible_amount", r.DeductibleAmount},
		{"Net Claim Value", "net_claim_value", r.NetClaimValue},
		{"Negotiation Adjustment", "negotiation_adjustment_amount", r.NegotiationAdjustmentAmount},
		{"Estimated Settlement", "estimated_settlement", r.EstimatedSettlement},
	}
}

// Rounded returns a copy of r with every monetary figure rounded to currency
// precision. The input snapshot is left as is.
func (r SettlementResult) Rounded() SettlementResult {
	out := r
	out.TotalDamageEstimate = mathutil.Round(r.TotalDamageEstimate)
	out.DepreciationAmount = mathutil.Round(r.DepreciationAmount)
	out.ActualCashValue = mathutil.Round(r.ActualCashValue)
	out.RecoverableDepreciation = mathutil.Round(r.RecoverableDepreciation)
	out.ReplacementCostValue = mathutil.Round(r.ReplacementCostValue)
	out.OverheadProfitAmount = mathutil.Round(r.OverheadProfitAmount)
	out.SalesTaxAmount = mathutil.Round(r.SalesTaxAmount)
	out.DeductibleAmount = mathutil.Round(r.DeductibleAmount)
	out.NetClaimValue = mathutil.Round(r.NetClaimValue)
	out.NegotiationAdjustmentAmount = mathutil.Round(r.NegotiationAdjustmentAmount)
	out.EstimatedSettlement = mathutil.Round(r.EstimatedSettlement)
	out.Notes = append([]string(nil), r.Notes...)
	out.Policy = clonePolicy(r.Policy)
	out.DamageEntries = cloneEntries(r.DamageEntries)
	return out
}

// Equal reports whether r and other hold the same values field for field.
// Decimals compare numerically and dates with time.Time.Equal, so a result
// that went through JSON compares equal to the original.
func (r SettlementResult) Equal(other SettlementResult) bool {
	mine, theirs := r.LineItems(), other.LineItems()
	for i := range mine {
		if !mine[i].Amount.Equal(theirs[i].Amount) {
			return false
		}
	}
	if r.ClaimID != other.ClaimID || !r.CalculationDate.Equal(other.CalculationDate) {
		return false
	}
	if len(r.Notes) != len(other.Notes) {
		return false
	}
	for i := range r.Notes {
		if r.Notes[i] != other.Notes[i] {
			return false
		}
	}
	if !policyEqual(r.Policy, other.Policy) || !adjustmentsEqual(r.Adjustments, other.Adjustments) {
		return false
	}
	if len(r.DamageEntries) != len(other.DamageEntries) {
		return false
	}
	for i := range r.DamageEntries {
		if !entryEqual(r.DamageEntries[i], other.DamageEntries[i]) {
			return false
		}
	}
	return true
}

func optionalEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func policyEqual(a, b PolicyContext) bool {
	return a.PolicyNumber == b.PolicyNumber &&
		a.PolicyType == b.PolicyType &&
		a.Carrier == b.Carrier &&
		optionalEqual(a.CoverageA, b.CoverageA) &&
		optionalEqual(a.CoverageB, b.CoverageB) &&
		optionalEqual(a.CoverageC, b.CoverageC) &&
		optionalEqual(a.CoverageD, b.CoverageD) &&
		optionalEqual(a.CoverageE, b.CoverageE) &&
		optionalEqual(a.CoverageF, b.CoverageF) &&
		a.Deductible.Equal(b.Deductible) &&
		optionalEqual(a.HurricaneDeductible, b.HurricaneDeductible) &&
		a.ReplacementCost == b.ReplacementCost &&
		a.LawOrdinance == b.LawOrdinance
}

func adjustmentsEqual(a, b AdjustmentParameters) bool {
	return a.DepreciationRateDefault.Equal(b.DepreciationRateDefault) &&
		a.OverheadProfitRate.Equal(b.OverheadProfitRate) &&
		a.SalesTaxRate.Equal(b.SalesTaxRate) &&
		a.NegotiationAdjustment.Equal(b.NegotiationAdjustment)
}

func entryEqual(a, b DamageEntry) bool {
	return a.Category == b.Category &&
		a.Item == b.Item &&
		a.Amount.Equal(b.Amount) &&
		a.Quantity.Equal(b.Quantity) &&
		optionalEqual(a.DepreciationRate, b.DepreciationRate) &&
		a.Notes == b.Notes
}

// Clone returns a deep copy of r.
func (r SettlementResult) Clone() SettlementResult {
	out := r
	out.Notes = append([]string(nil), r.Notes...)
	out.Policy = clonePolicy(r.Policy)
	out.DamageEntries = cloneEntries(r.DamageEntries)
	return out
}
