// Package output provides utilities for formatting and displaying settlement
// results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/iwvelando/claim-settlement/internal/store"
	"github.com/iwvelando/claim-settlement/pkg/constants"
	"github.com/iwvelando/claim-settlement/pkg/format"
	"github.com/iwvelando/claim-settlement/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

func percent(rate decimal.Decimal) float64 {
	return mathutil.Percent(rate).InexactFloat64()
}

// Display returns the rounded, currency formatted figures of a result keyed
// by their JSON field names.
func Display(result settlement.SettlementResult) map[string]string {
	rounded := result.Rounded()
	display := make(map[string]string)
	for _, line := range rounded.LineItems() {
		display[line.Key] = format.Currency(line.Amount)
	}
	return display
}

// Write renders a result in the named output format.
func Write(w io.Writer, outputFormat string, result settlement.SettlementResult) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormatTo(w, result)
	case constants.OutputFormatCSV:
		return CsvFormatTo(w, result)
	case constants.OutputFormatJSON:
		return JSONFormatTo(w, result)
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(result settlement.SettlementResult) error {
	return PrettyFormatTo(os.Stdout, result)
}

// PrettyFormatTo writes a human-readable report of result to w.
func PrettyFormatTo(w io.Writer, result settlement.SettlementResult) error {
	p := newPrinter()
	rounded := result.Rounded()
	policy := result.Policy
	adjustments := result.Adjustments

	basis := "Actual cash value"
	if policy.ReplacementCost {
		basis = "Replacement cost"
	}

	lines := []string{
		fmt.Sprintf("--- Settlement estimate for claim %s ---", result.ClaimID),
		fmt.Sprintf("Policy:     %s (%s)", policy.PolicyNumber, policy.PolicyType),
		fmt.Sprintf("Calculated: %s", result.CalculationDate.Format(constants.CalculationDateLayout)),
		fmt.Sprintf("Basis:      %s", basis),
		p.Sprintf("Rates:      depreciation %.1f%% | overhead & profit %.1f%% | sales tax %.1f%% | negotiation %.1f%%",
			percent(adjustments.DepreciationRateDefault), percent(adjustments.OverheadProfitRate),
			percent(adjustments.SalesTaxRate), percent(adjustments.NegotiationAdjustment)),
		"",
		"Category   | Item               | Qty    | Amount        | Depreciation | Extended",
		"________   | ____               | ___    | ______        | ____________ | ________",
	}

	for _, entry := range result.DamageEntries {
		rate := "default"
		if entry.DepreciationRate != nil {
			rate = p.Sprintf("%.1f%%", percent(*entry.DepreciationRate))
		}
		lines = append(lines, fmt.Sprintf("%-10s | %-18s | %-6s | %-13s | %-12s | %s",
			entry.Category, entry.Item, entry.Quantity.String(), format.Currency(entry.Amount), rate,
			format.Currency(entry.ExtendedCost())))
	}

	lines = append(lines, "",
		"Line item                | Amount",
		"_________                | ______",
	)
	for _, line := range rounded.LineItems() {
		lines = append(lines, fmt.Sprintf("%-24s | %s", line.Label, format.Currency(line.Amount)))
	}

	if len(result.Notes) > 0 {
		lines = append(lines, "", "Notes:")
		for _, note := range result.Notes {
			lines = append(lines, "  - "+note)
		}
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result settlement.SettlementResult) error {
	return CsvFormatTo(os.Stdout, result)
}

// CsvFormatTo writes one row per line item to w, amounts rounded to cents.
func CsvFormatTo(w io.Writer, result settlement.SettlementResult) error {
	cw := csv.NewWriter(w)
	calculated := result.CalculationDate.Format(constants.CalculationDateLayout)

	if err := cw.Write([]string{"claim_id", "calculation_date", "line_item", "amount"}); err != nil {
		return err
	}
	for _, line := range result.Rounded().LineItems() {
		if err := cw.Write([]string{result.ClaimID, calculated, line.Key, format.Fixed(line.Amount)}); err != nil {
			return err
		}
	}
	for _, note := range result.Notes {
		if err := cw.Write([]string{result.ClaimID, calculated, "note", note}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the full-precision result as indented JSON.
func JSONFormat(result settlement.SettlementResult) error {
	return JSONFormatTo(os.Stdout, result)
}

// JSONFormatTo writes result to w as indented JSON without rounding.
func JSONFormatTo(w io.Writer, result settlement.SettlementResult) error {
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = w.Write(append(encoded, '\n'))
	return err
}

// WriteHistory renders a claim's saved results in the named output format.
func WriteHistory(w io.Writer, outputFormat, claimID string, records []store.Record) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return prettyHistory(w, claimID, records)
	case constants.OutputFormatCSV:
		return csvHistory(w, records)
	case constants.OutputFormatJSON:
		encoded, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode history: %w", err)
		}
		_, err = w.Write(append(encoded, '\n'))
		return err
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

func prettyHistory(w io.Writer, claimID string, records []store.Record) error {
	p := newPrinter()
	lines := []string{
		p.Sprintf("--- %d saved settlement(s) for claim %s ---", len(records), claimID),
	}
	if len(records) > 0 {
		lines = append(lines,
			"Calculated                | Net Claim Value | Estimated Settlement | ID",
			"__________                | _______________ | ____________________ | __",
		)
	}
	for _, record := range records {
		rounded := record.Result.Rounded()
		lines = append(lines, fmt.Sprintf("%-25s | %-15s | %-20s | %s",
			rounded.CalculationDate.Format(constants.CalculationDateLayout),
			format.Currency(rounded.NetClaimValue),
			format.Currency(rounded.EstimatedSettlement),
			record.ID))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func csvHistory(w io.Writer, records []store.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "claim_id", "calculation_date", "net_claim_value", "estimated_settlement"}); err != nil {
		return err
	}
	for _, record := range records {
		result := record.Result
		row := []string{
			record.ID,
			result.ClaimID,
			result.CalculationDate.Format(constants.CalculationDateLayout),
			format.Fixed(result.NetClaimValue),
			format.Fixed(result.EstimatedSettlement),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// StatsFormatTo writes a one-line summary of stored results to w.
func StatsFormatTo(w io.Writer, stats store.Statistics) error {
	p := newPrinter()
	_, err := p.Fprintf(w, "%d saved settlement(s) | average %s | max %s\n",
		stats.Count, format.Currency(stats.AverageSettlement), format.Currency(stats.MaxSettlement))
	return err
}
