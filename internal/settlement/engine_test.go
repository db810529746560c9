package settlement_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/iwvelando/claim-settlement/pkg/testutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var dec = testutil.Dec

func compute(t *testing.T, policy settlement.PolicyContext, entries []settlement.DamageEntry, adjustments settlement.AdjustmentParameters) settlement.SettlementResult {
	t.Helper()
	result, err := settlement.NewEngine(zap.NewNop()).Compute(policy, entries, adjustments, testutil.ScenarioClaimID, testutil.Clock())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return result
}

func expectAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, expected %s", name, got, want)
	}
}

func TestComputeScenarios(t *testing.T) {
	tests := []struct {
		name      string
		configure func(*settlement.PolicyContext, *settlement.AdjustmentParameters)
		expected  map[string]string
	}{
		{
			name:      "Replacement cost policy",
			configure: func(*settlement.PolicyContext, *settlement.AdjustmentParameters) {},
			expected: map[string]string{
				"total_damage_estimate":         "9000",
				"depreciation_amount":           "650",
				"actual_cash_value":             "8350",
				"replacement_cost_value":        "9000",
				"recoverable_depreciation":      "650",
				"overhead_profit_amount":        "1800",
				"sales_tax_amount":              "630",
				"deductible_amount":             "1000",
				"net_claim_value":               "10430",
				"negotiation_adjustment_amount": "0",
				"estimated_settlement":          "10430",
			},
		},
		{
			name: "Actual cash value policy",
			configure: func(p *settlement.PolicyContext, _ *settlement.AdjustmentParameters) {
				p.ReplacementCost = false
			},
			expected: map[string]string{
				"total_damage_estimate":    "9000",
				"actual_cash_value":        "8350",
				"recoverable_depreciation": "0",
				"net_claim_value":          "9780",
				"estimated_settlement":     "9780",
			},
		},
		{
			name: "Negative negotiation adjustment",
			configure: func(_ *settlement.PolicyContext, a *settlement.AdjustmentParameters) {
				a.NegotiationAdjustment = dec("-0.10")
			},
			expected: map[string]string{
				"net_claim_value":               "10430",
				"negotiation_adjustment_amount": "-1043",
				"estimated_settlement":          "9387",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := testutil.ScenarioPolicy()
			adjustments := testutil.ScenarioAdjustments()
			tt.configure(&policy, &adjustments)

			result := compute(t, policy, testutil.ScenarioEntries(), adjustments)

			amounts := make(map[string]decimal.Decimal)
			for _, line := range result.LineItems() {
				amounts[line.Key] = line.Amount
			}
			for key, want := range tt.expected {
				got, ok := amounts[key]
				if !ok {
					t.Fatalf("result has no line item %s", key)
				}
				expectAmount(t, key, got, want)
			}
		})
	}
}

func TestComputeEmptyEntries(t *testing.T) {
	for _, entries := range [][]settlement.DamageEntry{nil, {}} {
		result, err := settlement.NewEngine(nil).Compute(testutil.ScenarioPolicy(), entries, testutil.ScenarioAdjustments(), "CLM-1", testutil.Clock())
		if err == nil {
			t.Fatal("expected validation error for empty entries")
		}
		var vErr *settlement.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if vErr.Reason != "no damage entries" {
			t.Errorf("expected reason %q, got %q", "no damage entries", vErr.Reason)
		}
		if !errors.Is(err, settlement.ErrValidation) {
			t.Error("expected errors.Is(err, ErrValidation)")
		}
		if !result.Equal(settlement.SettlementResult{}) {
			t.Error("expected zero result on validation failure")
		}
	}
}

func TestComputeValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*settlement.PolicyContext, []settlement.DamageEntry, *settlement.AdjustmentParameters)
		field  string
	}{
		{
			name: "Negative amount",
			mutate: func(_ *settlement.PolicyContext, e []settlement.DamageEntry, _ *settlement.AdjustmentParameters) {
				e[1].Amount = dec("-1")
			},
			field: "entries[1].amount",
		},
		{
			name: "Zero quantity",
			mutate: func(_ *settlement.PolicyContext, e []settlement.DamageEntry, _ *settlement.AdjustmentParameters) {
				e[0].Quantity = dec("0")
			},
			field: "entries[0].quantity",
		},
		{
			name: "Negative quantity",
			mutate: func(_ *settlement.PolicyContext, e []settlement.DamageEntry, _ *settlement.AdjustmentParameters) {
				e[1].Quantity = dec("-2")
			},
			field: "entries[1].quantity",
		},
		{
			name: "Entry rate above one",
			mutate: func(_ *settlement.PolicyContext, e []settlement.DamageEntry, _ *settlement.AdjustmentParameters) {
				e[0].DepreciationRate = testutil.Rate("1.5")
			},
			field: "entries[0].depreciation_rate",
		},
		{
			name: "First violation wins",
			mutate: func(p *settlement.PolicyContext, e []settlement.DamageEntry, a *settlement.AdjustmentParameters) {
				e[0].Amount = dec("-5")
				e[1].Quantity = dec("0")
				a.SalesTaxRate = dec("0.5")
				p.Deductible = dec("-1")
			},
			field: "entries[0].amount",
		},
		{
			name: "Default depreciation out of range",
			mutate: func(_ *settlement.PolicyContext, _ []settlement.DamageEntry, a *settlement.AdjustmentParameters) {
				a.DepreciationRateDefault = dec("-0.01")
			},
			field: "adjustments.depreciation_rate_default",
		},
		{
			name: "Overhead above half",
			mutate: func(_ *settlement.PolicyContext, _ []settlement.DamageEntry, a *settlement.AdjustmentParameters) {
				a.OverheadProfitRate = dec("0.51")
			},
			field: "adjustments.overhead_profit_rate",
		},
		{
			name: "Sales tax above fifteen percent",
			mutate: func(_ *settlement.PolicyContext, _ []settlement.DamageEntry, a *settlement.AdjustmentParameters) {
				a.SalesTaxRate = dec("0.16")
			},
			field: "adjustments.sales_tax_rate",
		},
		{
			name: "Negotiation below minus half",
			mutate: func(_ *settlement.PolicyContext, _ []settlement.DamageEntry, a *settlement.AdjustmentParameters) {
				a.NegotiationAdjustment = dec("-0.6")
			},
			field: "adjustments.negotiation_adjustment",
		},
		{
			name: "Negative deductible",
			mutate: func(p *settlement.PolicyContext, _ []settlement.DamageEntry, _ *settlement.AdjustmentParameters) {
				p.Deductible = dec("-100")
			},
			field: "policy.deductible",
		},
		{
			name: "Negative hurricane deductible",
			mutate: func(p *settlement.PolicyContext, _ []settlement.DamageEntry, _ *settlement.AdjustmentParameters) {
				p.HurricaneDeductible = testutil.Rate("-1")
			},
			field: "policy.hurricane_deductible",
		},
		{
			name: "Negative coverage",
			mutate: func(p *settlement.PolicyContext, _ []settlement.DamageEntry, _ *settlement.AdjustmentParameters) {
				p.CoverageC = testutil.Rate("-5")
			},
			field: "policy.coverage_c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := testutil.ScenarioPolicy()
			entries := testutil.ScenarioEntries()
			adjustments := testutil.ScenarioAdjustments()
			tt.mutate(&policy, entries, &adjustments)

			_, err := settlement.NewEngine(nil).Compute(policy, entries, adjustments, "CLM-1", testutil.Clock())
			var vErr *settlement.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("expected field %s, got %s (%s)", tt.field, vErr.Field, vErr.Reason)
			}
			if !strings.HasPrefix(err.Error(), tt.field+": ") {
				t.Errorf("expected error text to start with field name, got %q", err.Error())
			}
		})
	}
}

func TestComputeBoundaryValuesAccepted(t *testing.T) {
	entries := testutil.ScenarioEntries()
	entries[0].Amount = dec("0")
	entries[0].DepreciationRate = testutil.Rate("1")
	entries[1].DepreciationRate = testutil.Rate("0")

	adjustments := settlement.AdjustmentParameters{
		DepreciationRateDefault: dec("1"),
		OverheadProfitRate:      dec("0.5"),
		SalesTaxRate:            dec("0.15"),
		NegotiationAdjustment:   dec("0.5"),
	}
	policy := testutil.ScenarioPolicy()
	policy.Deductible = dec("0")

	result := compute(t, policy, entries, adjustments)
	expectAmount(t, "total_damage_estimate", result.TotalDamageEstimate, "4000")
	expectAmount(t, "depreciation_amount", result.DepreciationAmount, "0")
	expectAmount(t, "net_claim_value", result.NetClaimValue, "6600")
	expectAmount(t, "estimated_settlement", result.EstimatedSettlement, "9900")
}

func TestComputeFallsBackToDefaultRate(t *testing.T) {
	entries := testutil.ScenarioEntries()
	entries[0].DepreciationRate = nil
	entries[1].DepreciationRate = nil

	adjustments := testutil.ScenarioAdjustments()
	adjustments.DepreciationRateDefault = dec("0.25")

	result := compute(t, testutil.ScenarioPolicy(), entries, adjustments)
	expectAmount(t, "depreciation_amount", result.DepreciationAmount, "2250")
	expectAmount(t, "actual_cash_value", result.ActualCashValue, "6750")
	if result.DamageEntries[0].DepreciationRate != nil {
		t.Error("snapshot should keep the entry rate unset")
	}
}

func TestTotalIndependentOfDepreciation(t *testing.T) {
	for _, rate := range []string{"0", "0.05", "0.333", "1"} {
		entries := testutil.ScenarioEntries()
		for i := range entries {
			entries[i].DepreciationRate = testutil.Rate(rate)
		}
		adjustments := testutil.ScenarioAdjustments()
		adjustments.DepreciationRateDefault = dec(rate)

		result := compute(t, testutil.ScenarioPolicy(), entries, adjustments)
		expectAmount(t, "total_damage_estimate ("+rate+")", result.TotalDamageEstimate, "9000")
		expectAmount(t, "replacement_cost_value ("+rate+")", result.ReplacementCostValue, "9000")
	}
}

func TestRecoverableDepreciationRequiresReplacementCost(t *testing.T) {
	policy := testutil.ScenarioPolicy()
	policy.ReplacementCost = false
	for _, rate := range []string{"0", "0.1", "1"} {
		adjustments := testutil.ScenarioAdjustments()
		adjustments.DepreciationRateDefault = dec(rate)
		entries := testutil.ScenarioEntries()
		entries[1].DepreciationRate = nil

		result := compute(t, policy, entries, adjustments)
		if !result.RecoverableDepreciation.IsZero() {
			t.Errorf("rate %s: expected no recoverable depreciation, got %s", rate, result.RecoverableDepreciation)
		}
	}
}

func TestEstimateEqualsNetPlusAdjustment(t *testing.T) {
	for _, negotiation := range []string{"-0.5", "-0.137", "0", "0.01", "0.5"} {
		adjustments := testutil.ScenarioAdjustments()
		adjustments.NegotiationAdjustment = dec(negotiation)

		result := compute(t, testutil.ScenarioPolicy(), testutil.ScenarioEntries(), adjustments)
		if !result.EstimatedSettlement.Equal(result.NetClaimValue.Add(result.NegotiationAdjustmentAmount)) {
			t.Errorf("negotiation %s: estimated %s != net %s + adjustment %s", negotiation,
				result.EstimatedSettlement, result.NetClaimValue, result.NegotiationAdjustmentAmount)
		}
		if negotiation == "0" && !result.EstimatedSettlement.Equal(result.NetClaimValue) {
			t.Errorf("zero negotiation: estimated %s != net %s", result.EstimatedSettlement, result.NetClaimValue)
		}
	}
}

func TestDuplicateEntriesAreNotMerged(t *testing.T) {
	entries := []settlement.DamageEntry{
		{Category: "Structure", Item: "Roof", Amount: dec("100"), Quantity: dec("1"), DepreciationRate: testutil.Rate("0.1")},
		{Category: "Structure", Item: "Roof", Amount: dec("100"), Quantity: dec("3"), DepreciationRate: testutil.Rate("0.5")},
	}

	result := compute(t, testutil.ScenarioPolicy(), entries, testutil.ScenarioAdjustments())
	if len(result.DamageEntries) != 2 {
		t.Fatalf("expected 2 entries in snapshot, got %d", len(result.DamageEntries))
	}
	expectAmount(t, "total_damage_estimate", result.TotalDamageEstimate, "400")
	expectAmount(t, "depreciation_amount", result.DepreciationAmount, "160")
}

func TestNoIntermediateRounding(t *testing.T) {
	entries := []settlement.DamageEntry{
		{Category: "Interior", Item: "Paint", Amount: dec("0.333"), Quantity: dec("3"), DepreciationRate: testutil.Rate("0.333")},
		{Category: "Interior", Item: "Trim", Amount: dec("10.005"), Quantity: dec("1.5")},
	}
	adjustments := testutil.ScenarioAdjustments()
	adjustments.NegotiationAdjustment = dec("0.015")
	policy := testutil.ScenarioPolicy()
	policy.Deductible = dec("0")

	result := compute(t, policy, entries, adjustments)
	// 0.999 + 15.0075
	expectAmount(t, "total_damage_estimate", result.TotalDamageEstimate, "16.0065")
	// 0.999*0.333 + 15.0075*0.05
	expectAmount(t, "depreciation_amount", result.DepreciationAmount, "1.083042")
	// 16.0065 * 1.27
	expectAmount(t, "net_claim_value", result.NetClaimValue, "20.328255")
	expectAmount(t, "negotiation_adjustment_amount", result.NegotiationAdjustmentAmount, "0.304923825")

	rounded := result.Rounded()
	expectAmount(t, "rounded net_claim_value", rounded.NetClaimValue, "20.33")
	expectAmount(t, "rounded estimated_settlement", rounded.EstimatedSettlement, "20.63")
	expectAmount(t, "full estimated_settlement", result.EstimatedSettlement, "20.633178825")
}

func TestNegativeNetClaimIsNotClamped(t *testing.T) {
	policy := testutil.ScenarioPolicy()
	policy.Deductible = dec("20000")

	result := compute(t, policy, testutil.ScenarioEntries(), testutil.ScenarioAdjustments())
	expectAmount(t, "net_claim_value", result.NetClaimValue, "-8570")
	if len(result.Notes) != 1 || !strings.Contains(result.Notes[0], "$8,570.00") {
		t.Errorf("expected a shortfall note, got %v", result.Notes)
	}
}

func TestHurricaneDeductibleIsNotApplied(t *testing.T) {
	policy := testutil.ScenarioPolicy()
	policy.HurricaneDeductible = testutil.Rate("5000")

	result := compute(t, policy, testutil.ScenarioEntries(), testutil.ScenarioAdjustments())
	expectAmount(t, "deductible_amount", result.DeductibleAmount, "1000")
	expectAmount(t, "net_claim_value", result.NetClaimValue, "10430")
	if len(result.Notes) != 1 || !strings.Contains(result.Notes[0], "hurricane deductible") {
		t.Errorf("expected hurricane deductible note, got %v", result.Notes)
	}
}

func TestComputeUsesInjectedClock(t *testing.T) {
	result := compute(t, testutil.ScenarioPolicy(), testutil.ScenarioEntries(), testutil.ScenarioAdjustments())
	if !result.CalculationDate.Equal(testutil.FixedTime) {
		t.Errorf("expected calculation date %s, got %s", testutil.FixedTime, result.CalculationDate)
	}
	if result.ClaimID != testutil.ScenarioClaimID {
		t.Errorf("expected claim id %s, got %s", testutil.ScenarioClaimID, result.ClaimID)
	}
	if result.Notes != nil {
		t.Errorf("expected no notes, got %v", result.Notes)
	}
}

func TestComputeRejectsNilClock(t *testing.T) {
	result, err := settlement.NewEngine(nil).Compute(testutil.ScenarioPolicy(), testutil.ScenarioEntries(), testutil.ScenarioAdjustments(), "CLM-1", nil)
	var vErr *settlement.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if vErr.Field != "clock" {
		t.Errorf("expected field %q, got %q", "clock", vErr.Field)
	}
	if !result.Equal(settlement.SettlementResult{}) {
		t.Error("expected zero result without a clock")
	}
}

func TestSnapshotIsIsolatedFromInputs(t *testing.T) {
	policy := testutil.ScenarioPolicy()
	entries := testutil.ScenarioEntries()

	result := compute(t, policy, entries, testutil.ScenarioAdjustments())

	*entries[0].DepreciationRate = dec("0.9")
	entries[1].Amount = dec("1")
	*policy.CoverageA = dec("1")

	expectAmount(t, "snapshot rate", *result.DamageEntries[0].DepreciationRate, "0.05")
	expectAmount(t, "snapshot amount", result.DamageEntries[1].Amount, "2000")
	expectAmount(t, "snapshot coverage", *result.Policy.CoverageA, "250000")
}

func TestComputeIsIdempotent(t *testing.T) {
	engine := settlement.NewEngine(nil)
	first, err := engine.Compute(testutil.ScenarioPolicy(), testutil.ScenarioEntries(), testutil.ScenarioAdjustments(), "CLM-9", testutil.Clock())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	second, err := engine.Compute(testutil.ScenarioPolicy(), testutil.ScenarioEntries(), testutil.ScenarioAdjustments(), "CLM-9", testutil.Clock())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("expected byte-identical results:\n%s\n%s", a, b)
	}
}

func TestResultJSONRoundTrip(t *testing.T) {
	policy := testutil.ScenarioPolicy()
	policy.HurricaneDeductible = testutil.Rate("2500")
	entries := testutil.ScenarioEntries()
	entries[1].DepreciationRate = nil
	entries[1].Notes = "north wall"
	adjustments := testutil.ScenarioAdjustments()
	adjustments.NegotiationAdjustment = dec("-0.10")

	original := compute(t, policy, entries, adjustments)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	for _, field := range []string{
		`"total_damage_estimate"`, `"depreciation_amount"`, `"actual_cash_value"`,
		`"recoverable_depreciation"`, `"replacement_cost_value"`, `"overhead_profit_amount"`,
		`"sales_tax_amount"`, `"deductible_amount"`, `"net_claim_value"`,
		`"negotiation_adjustment_amount"`, `"estimated_settlement"`, `"claim_id"`,
		`"calculation_date"`, `"notes"`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("serialized result missing %s", field)
		}
	}

	var decoded settlement.SettlementResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip changed the result:\noriginal %+v\ndecoded  %+v", original, decoded)
	}
}

func TestEqualDetectsDifferences(t *testing.T) {
	base := testutil.ScenarioResult()

	changed := testutil.ScenarioResult()
	changed.DamageEntries[0].Notes = "changed"
	if base.Equal(changed) {
		t.Error("expected differing entry notes to be unequal")
	}

	changed = testutil.ScenarioResult()
	changed.Policy.CoverageE = testutil.Rate("1")
	if base.Equal(changed) {
		t.Error("expected differing optional coverage to be unequal")
	}

	changed = testutil.ScenarioResult()
	changed.NetClaimValue = changed.NetClaimValue.Add(dec("0.0001"))
	if base.Equal(changed) {
		t.Error("expected differing amounts to be unequal")
	}

	if !base.Equal(testutil.ScenarioResult()) {
		t.Error("expected identical computations to be equal")
	}
}

func TestRoundedLeavesOriginalUntouched(t *testing.T) {
	entries := testutil.ScenarioEntries()
	entries[0].Amount = dec("5000.005")
	result := compute(t, testutil.ScenarioPolicy(), entries, testutil.ScenarioAdjustments())

	rounded := result.Rounded()
	expectAmount(t, "rounded total", rounded.TotalDamageEstimate, "9000.01")
	expectAmount(t, "original total", result.TotalDamageEstimate, "9000.005")
	expectAmount(t, "rounded snapshot amount", rounded.DamageEntries[0].Amount, "5000.005")
}

func TestWithHurricaneDeductible(t *testing.T) {
	policy := testutil.ScenarioPolicy()
	if got := policy.WithHurricaneDeductible(); !got.Deductible.Equal(policy.Deductible) {
		t.Errorf("without a hurricane deductible the deductible should stay %s, got %s", policy.Deductible, got.Deductible)
	}

	policy.HurricaneDeductible = testutil.Rate("5000")
	selected := policy.WithHurricaneDeductible()
	expectAmount(t, "deductible", selected.Deductible, "5000")
	expectAmount(t, "original deductible", policy.Deductible, "1000")

	result := compute(t, selected, testutil.ScenarioEntries(), testutil.ScenarioAdjustments())
	expectAmount(t, "deductible_amount", result.DeductibleAmount, "5000")
	expectAmount(t, "net_claim_value", result.NetClaimValue, "6430")
	if len(result.Notes) != 0 {
		t.Errorf("no note expected once the hurricane deductible is applied, got %v", result.Notes)
	}

	*selected.HurricaneDeductible = testutil.Dec("1")
	expectAmount(t, "original hurricane deductible", *policy.HurricaneDeductible, "5000")
}
