// Package testutil provides common fixtures for testing.
package testutil

import (
	"time"

	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/shopspring/decimal"
)

// ScenarioClaimID is the claim used by the reference scenario.
const ScenarioClaimID = "CLM-123"

// FixedTime is the calculation date used by tests.
var FixedTime = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// Dec parses a decimal literal and panics on error.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Rate returns a pointer to a parsed decimal, for optional fields.
func Rate(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}

// Clock returns a clock fixed at FixedTime.
func Clock() settlement.Clock {
	return settlement.FixedClock(FixedTime)
}

// ScenarioPolicy is a replacement-cost policy with a 1000 deductible.
func ScenarioPolicy() settlement.PolicyContext {
	return settlement.PolicyContext{
		PolicyNumber:    "POL-123",
		PolicyType:      "Homeowner's (HO-3)",
		CoverageA:       Rate("250000"),
		CoverageB:       Rate("50000"),
		CoverageC:       Rate("125000"),
		CoverageD:       Rate("50000"),
		Deductible:      Dec("1000"),
		ReplacementCost: true,
	}
}

// ScenarioEntries returns a roof line and a two-unit drywall line.
func ScenarioEntries() []settlement.DamageEntry {
	return []settlement.DamageEntry{
		{Category: "Structure", Item: "Roof", Amount: Dec("5000"), Quantity: Dec("1"), DepreciationRate: Rate("0.05")},
		{Category: "Interior", Item: "Drywall", Amount: Dec("2000"), Quantity: Dec("2"), DepreciationRate: Rate("0.10")},
	}
}

// ScenarioAdjustments returns the form defaults: 5% depreciation, 20% overhead
// and profit, 7% sales tax, no negotiation adjustment.
func ScenarioAdjustments() settlement.AdjustmentParameters {
	return settlement.AdjustmentParameters{
		DepreciationRateDefault: Dec("0.05"),
		OverheadProfitRate:      Dec("0.20"),
		SalesTaxRate:            Dec("0.07"),
		NegotiationAdjustment:   Dec("0"),
	}
}

// ScenarioResult computes the reference scenario at FixedTime.
func ScenarioResult() settlement.SettlementResult {
	result, err := settlement.NewEngine(nil).Compute(ScenarioPolicy(), ScenarioEntries(), ScenarioAdjustments(), ScenarioClaimID, Clock())
	if err != nil {
		panic(err)
	}
	return result
}
