// Package store persists settlement results. History is append-only: results
// can be saved and read back, never updated or removed.
package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/iwvelando/claim-settlement/pkg/constants"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the persistence port for settlement results.
type Store interface {
	// Save appends a result and returns its new ID.
	Save(ctx context.Context, result settlement.SettlementResult) (string, error)
	// Get returns the result saved under id, or a NotFound StoreError.
	Get(ctx context.Context, id string) (settlement.SettlementResult, error)
	// ListForClaim returns the claim's results ordered by calculation date,
	// oldest first. Results with equal dates keep the order they were saved in.
	ListForClaim(ctx context.Context, claimID string) ([]Record, error)
	// Stats summarizes every saved result.
	Stats(ctx context.Context) (Statistics, error)
	Close() error
}

// Record is a saved result together with its ID.
type Record struct {
	ID      string                      `json:"id"`
	SavedAt time.Time                   `json:"saved_at"`
	Result  settlement.SettlementResult `json:"result"`
}

// Statistics summarizes the estimated settlements of all saved results.
type Statistics struct {
	Count             int             `json:"count"`
	AverageSettlement decimal.Decimal `json:"average_settlement"`
	MaxSettlement     decimal.Decimal `json:"max_settlement"`
}

// Config selects a store binding.
type Config struct {
	Driver string `yaml:"driver,omitempty"` // memory, sqlite
	Path   string `yaml:"path,omitempty"`   // sqlite database file
}

// Persistent reports whether results outlive the process that saved them.
func (c Config) Persistent() bool {
	return c.Driver == constants.StoreDriverSQLite
}

// Open returns the store binding named by cfg.Driver. An empty driver selects
// the in-memory store.
func Open(cfg Config, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "", constants.StoreDriverMemory:
		return NewMemory(logger), nil
	case constants.StoreDriverSQLite:
		path := cfg.Path
		if path == "" {
			path = constants.DefaultStorePath
		}
		return NewSQLite(path, logger)
	default:
		return nil, fmt.Errorf("unsupported store driver %q, expected %s or %s",
			cfg.Driver, constants.StoreDriverMemory, constants.StoreDriverSQLite)
	}
}

func summarize(settlements []decimal.Decimal) Statistics {
	stats := Statistics{Count: len(settlements)}
	if len(settlements) == 0 {
		return stats
	}
	total := decimal.Zero
	stats.MaxSettlement = settlements[0]
	for _, s := range settlements {
		total = total.Add(s)
		stats.MaxSettlement = decimal.Max(stats.MaxSettlement, s)
	}
	stats.AverageSettlement = total.Div(decimal.NewFromInt(int64(len(settlements))))
	return stats
}

func sortRecords(records []Record, seq map[string]int) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Result.CalculationDate, records[j].Result.CalculationDate
		if !a.Equal(b) {
			return a.Before(b)
		}
		return seq[records[i].ID] < seq[records[j].ID]
	})
}
