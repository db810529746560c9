// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateLookup resolves catalog depreciation rates.
type RateLookup interface {
	Lookup(category, item string) (decimal.Decimal, bool)
}

// ConfigValidator collects warnings about a calculation file. Warnings never
// stop a calculation; hard input errors are reported by the engine.
type ConfigValidator struct {
	ClaimID string
	Policy  PolicyConfig
	Entries []EntryConfig
	Catalog RateLookup
}

// PolicyConfig is the part of the policy the warnings look at.
type PolicyConfig struct {
	HasHurricaneDeductible   bool
	ApplyHurricaneDeductible bool
}

// EntryConfig is the part of a damage entry the warnings look at.
type EntryConfig struct {
	Category string
	Item     string
	HasRate  bool
}

// ValidateEntryReference warns when an entry names an item the catalog does
// not know and carries no rate of its own, so the default rate will apply.
func ValidateEntryReference(index int, entry EntryConfig, catalog RateLookup) string {
	if entry.HasRate || catalog == nil {
		return ""
	}
	if _, ok := catalog.Lookup(entry.Category, entry.Item); ok {
		return ""
	}
	return fmt.Sprintf("Damage entry %d (%s/%s) is not in the damage catalog and has no depreciation rate - the default rate will be used",
		index, entry.Category, entry.Item)
}

// ValidateDuplicateEntries warns about entries sharing a category and item.
// They remain separate line items.
func ValidateDuplicateEntries(entries []EntryConfig) []string {
	var warnings []string
	seen := make(map[string]int)
	for i, entry := range entries {
		key := strings.ToLower(strings.TrimSpace(entry.Category)) + "/" + strings.ToLower(strings.TrimSpace(entry.Item))
		if first, ok := seen[key]; ok {
			warnings = append(warnings, fmt.Sprintf("Damage entries %d and %d both describe %s/%s - they are kept as separate line items",
				first, i, entry.Category, entry.Item))
			continue
		}
		seen[key] = i
	}
	return warnings
}

// ValidateDeductible warns about hurricane deductible settings that have no
// effect.
func ValidateDeductible(policy PolicyConfig) string {
	switch {
	case policy.HasHurricaneDeductible && !policy.ApplyHurricaneDeductible:
		return "Hurricane deductible is set but not applied - the standard deductible will be used"
	case !policy.HasHurricaneDeductible && policy.ApplyHurricaneDeductible:
		return "applyHurricaneDeductible is set but no hurricane deductible is configured - the standard deductible will be used"
	}
	return ""
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if strings.TrimSpace(cv.ClaimID) == "" {
		warnings = append(warnings, "No claim ID configured - the result cannot be matched to a claim's history")
	}

	if warning := ValidateDeductible(cv.Policy); warning != "" {
		warnings = append(warnings, warning)
	}

	for i, entry := range cv.Entries {
		if warning := ValidateEntryReference(i, entry, cv.Catalog); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	warnings = append(warnings, ValidateDuplicateEntries(cv.Entries)...)

	return warnings
}
