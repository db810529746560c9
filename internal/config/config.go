// Package config defines the data structures of a calculation file and
// includes functions for loading it and turning it into engine inputs.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/claim-settlement/internal/logging"
	"github.com/iwvelando/claim-settlement/internal/store"
	"github.com/iwvelando/claim-settlement/pkg/catalog"
	"github.com/iwvelando/claim-settlement/pkg/constants"
	"github.com/iwvelando/claim-settlement/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override calculation file
// keys, e.g. SETTLEMENT_STORE_DRIVER.
const EnvPrefix = "SETTLEMENT"

// Configuration holds one claim's calculation inputs plus the settings the
// command line tools need to run it.
type Configuration struct {
	Claim         Claim
	Policy        Policy
	DamageEntries []DamageEntry
	Adjustments   Adjustments
	Catalog       CatalogConfig
	Store         store.Config
	Features      Features
	Logging       logging.Config `yaml:"logging,omitempty"`
	Output        OutputConfig   `yaml:"output,omitempty"`
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Claim identifies the claim a calculation belongs to.
type Claim struct {
	ID string
}

// Policy holds the coverage terms. Optional amounts are pointers so an
// omitted coverage stays absent rather than becoming zero.
type Policy struct {
	PolicyNumber        string
	PolicyType          string
	Carrier             string
	CoverageA           *float64
	CoverageB           *float64
	CoverageC           *float64
	CoverageD           *float64
	CoverageE           *float64
	CoverageF           *float64
	Deductible          float64
	HurricaneDeductible *float64
	// ApplyHurricaneDeductible selects the hurricane deductible in place of
	// the standard one for wind losses.
	ApplyHurricaneDeductible bool
	ReplacementCost          bool
	LawOrdinance             bool
}

// DamageEntry is one line item of damage.
type DamageEntry struct {
	Category string
	Item     string
	Amount   float64
	// Quantity defaults to 1 when omitted.
	Quantity *float64
	// DepreciationRate falls back to the catalog rate for the item, then to
	// the default rate.
	DepreciationRate *float64
	Notes            string
}

// Adjustments holds the rates applied on top of the damage entries.
type Adjustments struct {
	DepreciationRateDefault float64
	OverheadProfitRate      float64
	SalesTaxRate            float64
	NegotiationAdjustment   float64
}

// CatalogConfig points at an optional damage catalog file. The built-in
// catalog is used when Path is empty.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Features is the capability object hosts consult before exposing
// calculations.
type Features struct {
	SettlementCalculator bool `yaml:"settlementCalculator"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("adjustments.depreciationRateDefault", constants.DefaultDepreciationRate)
	v.SetDefault("adjustments.overheadProfitRate", constants.DefaultOverheadProfitRate)
	v.SetDefault("adjustments.salesTaxRate", constants.DefaultSalesTaxRate)
	v.SetDefault("adjustments.negotiationAdjustment", constants.DefaultNegotiationAdjustment)
	v.SetDefault("store.driver", constants.StoreDriverMemory)
	v.SetDefault("store.path", constants.DefaultStorePath)
	v.SetDefault("features.settlementCalculator", true)
	v.SetDefault("catalog.path", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// calculation file there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted calculation file from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// LoadCatalog returns the damage catalog the configuration points at.
func (c *Configuration) LoadCatalog() (*catalog.Catalog, error) {
	return catalog.LoadFile(c.Catalog.Path)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Hard input errors are left to the settlement engine.
func (c *Configuration) ValidateConfiguration(cat *catalog.Catalog) []string {
	entries := make([]validation.EntryConfig, 0, len(c.DamageEntries))
	for _, entry := range c.DamageEntries {
		entries = append(entries, validation.EntryConfig{
			Category: entry.Category,
			Item:     entry.Item,
			HasRate:  entry.DepreciationRate != nil,
		})
	}

	validator := &validation.ConfigValidator{
		ClaimID: c.Claim.ID,
		Policy: validation.PolicyConfig{
			HasHurricaneDeductible:   c.Policy.HurricaneDeductible != nil,
			ApplyHurricaneDeductible: c.Policy.ApplyHurricaneDeductible,
		},
		Entries: entries,
	}
	// A nil *catalog.Catalog stored in the interface would not compare
	// equal to nil.
	if cat != nil {
		validator.Catalog = cat
	}

	return validator.ValidateAll()
}
