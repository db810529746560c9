package settlement

import (
	"github.com/iwvelando/claim-settlement/pkg/format"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine computes settlements. It holds no per-call state, so one Engine may
// serve concurrent callers.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a settlement engine with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Compute validates the inputs and produces a settlement result. Arithmetic is
// carried out at full decimal precision; nothing is rounded here. On a
// validation failure no result is produced.
func (e *Engine) Compute(policy PolicyContext, entries []DamageEntry, adjustments AdjustmentParameters, claimID string, clock Clock) (SettlementResult, error) {
	err := Validate(policy, entries, adjustments)
	if err == nil && clock == nil {
		err = invalid("clock", "no clock supplied")
	}
	if err != nil {
		e.logger.Debug("settlement input rejected",
			zap.String("op", "settlement.Compute"),
			zap.String("claimID", claimID),
			zap.Error(err),
		)
		return SettlementResult{}, err
	}

	total := decimal.Zero
	depreciation := decimal.Zero
	for _, entry := range entries {
		extended := entry.ExtendedCost()
		rate := adjustments.DepreciationRateDefault
		if entry.DepreciationRate != nil {
			rate = *entry.DepreciationRate
		}
		total = total.Add(extended)
		depreciation = depreciation.Add(extended.Mul(rate))
	}

	acv := total.Sub(depreciation)
	rcv := total

	recoverable := decimal.Zero
	if policy.ReplacementCost {
		recoverable = depreciation
	}

	overheadProfit := total.Mul(adjustments.OverheadProfitRate)
	salesTax := total.Mul(adjustments.SalesTaxRate)
	deductible := policy.Deductible

	base := acv
	if policy.ReplacementCost {
		base = rcv
	}

	net := base.Add(overheadProfit).Add(salesTax).Sub(deductible)
	negotiation := net.Mul(adjustments.NegotiationAdjustment)
	estimated := net.Add(negotiation)

	result := SettlementResult{
		TotalDamageEstimate:         total,
		DepreciationAmount:          depreciation,
		ActualCashValue:             acv,
		RecoverableDepreciation:     recoverable,
		ReplacementCostValue:        rcv,
		OverheadProfitAmount:        overheadProfit,
		SalesTaxAmount:              salesTax,
		DeductibleAmount:            deductible,
		NetClaimValue:               net,
		NegotiationAdjustmentAmount: negotiation,
		EstimatedSettlement:         estimated,
		ClaimID:                     claimID,
		CalculationDate:             clock.Now().UTC(),
		Notes:                       notesFor(policy, net),
		Policy:                      clonePolicy(policy),
		DamageEntries:               cloneEntries(entries),
		Adjustments:                 adjustments,
	}

	e.logger.Debug("settlement computed",
		zap.String("op", "settlement.Compute"),
		zap.String("claimID", claimID),
		zap.Int("entries", len(entries)),
		zap.String("netClaimValue", net.String()),
		zap.String("estimatedSettlement", estimated.String()),
	)

	return result, nil
}

func notesFor(policy PolicyContext, net decimal.Decimal) []string {
	var notes []string
	if policy.HurricaneDeductible != nil && !policy.HurricaneDeductible.Equal(policy.Deductible) {
		notes = append(notes, "hurricane deductible of "+format.Currency(*policy.HurricaneDeductible)+
			" not applied; deductible of "+format.Currency(policy.Deductible)+" used")
	}
	if net.IsNegative() {
		notes = append(notes, "net claim value is negative: deductible exceeds the covered amount by "+
			format.Currency(net.Neg()))
	}
	return notes
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func clonePolicy(p PolicyContext) PolicyContext {
	p.CoverageA = cloneDecimal(p.CoverageA)
	p.CoverageB = cloneDecimal(p.CoverageB)
	p.CoverageC = cloneDecimal(p.CoverageC)
	p.CoverageD = cloneDecimal(p.CoverageD)
	p.CoverageE = cloneDecimal(p.CoverageE)
	p.CoverageF = cloneDecimal(p.CoverageF)
	p.HurricaneDeductible = cloneDecimal(p.HurricaneDeductible)
	return p
}

func cloneEntries(entries []DamageEntry) []DamageEntry {
	out := make([]DamageEntry, len(entries))
	for i, entry := range entries {
		out[i] = entry
		out[i].DepreciationRate = cloneDecimal(entry.DepreciationRate)
	}
	return out
}
