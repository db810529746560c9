// Package constants provides shared constants for the claim-settlement application.
package constants

// CalculationDateLayout is the layout accepted for fixed calculation dates on
// the command line and used when printing results.
const CalculationDateLayout = "2006-01-02T15:04:05Z07:00"

// Financial constants
const (
	// CurrencyPlaces is the number of decimal places currency is presented with
	CurrencyPlaces = 2

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Adjustment bounds. All rates are fractions, e.g. 0.07 is 7%.
const (
	MinDepreciationRate = 0.0
	MaxDepreciationRate = 1.0

	MinOverheadProfitRate = 0.0
	MaxOverheadProfitRate = 0.5

	MinSalesTaxRate = 0.0
	MaxSalesTaxRate = 0.15

	MinNegotiationAdjustment = -0.5
	MaxNegotiationAdjustment = 0.5
)

// Adjustment defaults, matching the values the settlement form starts with.
const (
	DefaultDepreciationRate      = 0.05
	DefaultOverheadProfitRate    = 0.20
	DefaultSalesTaxRate          = 0.07
	DefaultNegotiationAdjustment = 0.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the full-precision JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default calculation file name
	DefaultConfigFile = "settlement.yaml"

	// ExampleConfigFile is the example calculation file name
	ExampleConfigFile = "settlement.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Store constants
const (
	// StoreDriverMemory keeps results in process memory
	StoreDriverMemory = "memory"

	// StoreDriverSQLite persists results to a SQLite database file
	StoreDriverSQLite = "sqlite"

	// DefaultStorePath is the default SQLite database file
	DefaultStorePath = "settlements.db"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024
)
