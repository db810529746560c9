package config

import (
	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/iwvelando/claim-settlement/pkg/catalog"
	"github.com/shopspring/decimal"
)

// ToPolicyContext converts the policy section to engine input. When
// ApplyHurricaneDeductible is set and a hurricane deductible is configured,
// it becomes the deductible the engine subtracts.
func (p Policy) ToPolicyContext() settlement.PolicyContext {
	policy := settlement.PolicyContext{
		PolicyNumber:        p.PolicyNumber,
		PolicyType:          p.PolicyType,
		Carrier:             p.Carrier,
		CoverageA:           optionalDecimal(p.CoverageA),
		CoverageB:           optionalDecimal(p.CoverageB),
		CoverageC:           optionalDecimal(p.CoverageC),
		CoverageD:           optionalDecimal(p.CoverageD),
		CoverageE:           optionalDecimal(p.CoverageE),
		CoverageF:           optionalDecimal(p.CoverageF),
		Deductible:          decimal.NewFromFloat(p.Deductible),
		HurricaneDeductible: optionalDecimal(p.HurricaneDeductible),
		ReplacementCost:     p.ReplacementCost,
		LawOrdinance:        p.LawOrdinance,
	}
	if p.ApplyHurricaneDeductible {
		return policy.WithHurricaneDeductible()
	}
	return policy
}

// ToDamageEntry converts one damage entry to engine input, seeding the
// depreciation rate from the catalog when the entry has none.
func (e DamageEntry) ToDamageEntry(cat *catalog.Catalog) settlement.DamageEntry {
	quantity := decimal.NewFromInt(1)
	if e.Quantity != nil {
		quantity = decimal.NewFromFloat(*e.Quantity)
	}

	return settlement.DamageEntry{
		Category:         e.Category,
		Item:             e.Item,
		Amount:           decimal.NewFromFloat(e.Amount),
		Quantity:         quantity,
		DepreciationRate: cat.ResolveRate(e.Category, e.Item, optionalDecimal(e.DepreciationRate)),
		Notes:            e.Notes,
	}
}

// ToAdjustmentParameters converts the adjustments section to engine input.
func (a Adjustments) ToAdjustmentParameters() settlement.AdjustmentParameters {
	return settlement.AdjustmentParameters{
		DepreciationRateDefault: decimal.NewFromFloat(a.DepreciationRateDefault),
		OverheadProfitRate:      decimal.NewFromFloat(a.OverheadProfitRate),
		SalesTaxRate:            decimal.NewFromFloat(a.SalesTaxRate),
		NegotiationAdjustment:   decimal.NewFromFloat(a.NegotiationAdjustment),
	}
}

// ToInputs converts the whole calculation file to engine inputs.
func (c *Configuration) ToInputs(cat *catalog.Catalog) (settlement.PolicyContext, []settlement.DamageEntry, settlement.AdjustmentParameters) {
	entries := make([]settlement.DamageEntry, 0, len(c.DamageEntries))
	for _, entry := range c.DamageEntries {
		entries = append(entries, entry.ToDamageEntry(cat))
	}
	return c.Policy.ToPolicyContext(), entries, c.Adjustments.ToAdjustmentParameters()
}

func optionalDecimal(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}
