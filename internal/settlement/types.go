// Package settlement turns policy coverage terms and itemized damage entries
// into a reconciled settlement estimate.
package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// DamageEntry is one line item of damage. Entries that share a category and
// item are independent line items.
type DamageEntry struct {
	Category string          `json:"category"`
	Item     string          `json:"item"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity decimal.Decimal `json:"quantity"`
	// DepreciationRate overrides AdjustmentParameters.DepreciationRateDefault
	// when set.
	DepreciationRate *decimal.Decimal `json:"depreciation_rate,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// ExtendedCost returns Amount × Quantity.
func (e DamageEntry) ExtendedCost() decimal.Decimal {
	return e.Amount.Mul(e.Quantity)
}

// PolicyContext carries the coverage terms that apply to a claim.
type PolicyContext struct {
	PolicyNumber string           `json:"policy_number"`
	PolicyType   string           `json:"policy_type"`
	Carrier      string           `json:"carrier,omitempty"`
	CoverageA    *decimal.Decimal `json:"coverage_a"`
	CoverageB    *decimal.Decimal `json:"coverage_b"`
	CoverageC    *decimal.Decimal `json:"coverage_c"`
	CoverageD    *decimal.Decimal `json:"coverage_d"`
	CoverageE    *decimal.Decimal `json:"coverage_e"`
	CoverageF    *decimal.Decimal `json:"coverage_f"`
	// Deductible is the amount subtracted from the claim. The caller decides
	// whether the plain or the hurricane deductible applies.
	Deductible          decimal.Decimal  `json:"deductible"`
	HurricaneDeductible *decimal.Decimal `json:"hurricane_deductible,omitempty"`
	ReplacementCost     bool             `json:"replacement_cost"`
	LawOrdinance        bool             `json:"law_ordinance"`
}

// AdjustmentParameters are the rates applied on top of the damage entries.
type AdjustmentParameters struct {
	DepreciationRateDefault decimal.Decimal `json:"depreciation_rate_default"`
	OverheadProfitRate      decimal.Decimal `json:"overhead_profit_rate"`
	SalesTaxRate            decimal.Decimal `json:"sales_tax_rate"`
	NegotiationAdjustment   decimal.Decimal `json:"negotiation_adjustment"`
}

// SettlementResult is the outcome of one calculation. Values are kept at full
// precision; use Rounded for presentation. A result is never modified after
// Compute returns it; a correction is a new calculation.
type SettlementResult struct {
	TotalDamageEstimate         decimal.Decimal `json:"total_damage_estimate"`
	DepreciationAmount          decimal.Decimal `json:"depreciation_amount"`
	ActualCashValue             decimal.Decimal `json:"actual_cash_value"`
	RecoverableDepreciation     decimal.Decimal `json:"recoverable_depreciation"`
	ReplacementCostValue        decimal.Decimal `json:"replacement_cost_value"`
	OverheadProfitAmount        decimal.Decimal `json:"overhead_profit_amount"`
	SalesTaxAmount              decimal.Decimal `json:"sales_tax_amount"`
	DeductibleAmount            decimal.Decimal `json:"deductible_amount"`
	NetClaimValue               decimal.Decimal `json:"net_claim_value"`
	NegotiationAdjustmentAmount decimal.Decimal `json:"negotiation_adjustment_amount"`
	EstimatedSettlement         decimal.Decimal `json:"estimated_settlement"`
	ClaimID                     string          `json:"claim_id"`
	CalculationDate             time.Time       `json:"calculation_date"`
	Notes                       []string        `json:"notes,omitempty"`

	Policy        PolicyContext        `json:"policy"`
	DamageEntries []DamageEntry        `json:"damage_entries"`
	Adjustments   AdjustmentParameters `json:"adjustments"`
}

// WithHurricaneDeductible returns a copy of p whose Deductible is the
// hurricane deductible, if one is set. Compute never makes this choice; hosts
// call it for wind losses.
func (p PolicyContext) WithHurricaneDeductible() PolicyContext {
	out := clonePolicy(p)
	if p.HurricaneDeductible != nil {
		out.Deductible = *p.HurricaneDeductible
	}
	return out
}
