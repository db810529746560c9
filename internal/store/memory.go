package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Memory keeps results in process memory. It is safe for concurrent use and
// orders claim history on read.
type Memory struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	records map[string]Record
	byClaim map[string][]string
	seq     map[string]int
	next    int
	closed  bool
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewMemory(logger *zap.Logger) *Memory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memory{
		logger:  logger,
		records: make(map[string]Record),
		byClaim: make(map[string][]string),
		seq:     make(map[string]int),
		now:     time.Now,
	}
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, result settlement.SettlementResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ioFailure("store.Memory.Save", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ioFailure("store.Memory.Save", ErrClosed)
	}

	id := uuid.NewString()
	m.records[id] = Record{ID: id, SavedAt: m.now().UTC(), Result: result.Clone()}
	m.byClaim[result.ClaimID] = append(m.byClaim[result.ClaimID], id)
	m.seq[id] = m.next
	m.next++

	m.logger.Debug("settlement result saved",
		zap.String("op", "store.Memory.Save"),
		zap.String("id", id),
		zap.String("claimID", result.ClaimID),
	)
	return id, nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, id string) (settlement.SettlementResult, error) {
	if err := ctx.Err(); err != nil {
		return settlement.SettlementResult{}, ioFailure("store.Memory.Get", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return settlement.SettlementResult{}, ioFailure("store.Memory.Get", ErrClosed)
	}

	record, ok := m.records[id]
	if !ok {
		return settlement.SettlementResult{}, notFound("store.Memory.Get", id)
	}
	return record.Result.Clone(), nil
}

// ListForClaim implements Store.
func (m *Memory) ListForClaim(ctx context.Context, claimID string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, ioFailure("store.Memory.ListForClaim", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ioFailure("store.Memory.ListForClaim", ErrClosed)
	}

	ids := m.byClaim[claimID]
	records := make([]Record, 0, len(ids))
	for _, id := range ids {
		record := m.records[id]
		record.Result = record.Result.Clone()
		records = append(records, record)
	}
	sortRecords(records, m.seq)
	return records, nil
}

// Stats implements Store.
func (m *Memory) Stats(ctx context.Context) (Statistics, error) {
	if err := ctx.Err(); err != nil {
		return Statistics{}, ioFailure("store.Memory.Stats", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Statistics{}, ioFailure("store.Memory.Stats", ErrClosed)
	}

	settlements := make([]decimal.Decimal, 0, len(m.records))
	for _, record := range m.records {
		settlements = append(settlements, record.Result.EstimatedSettlement)
	}
	return summarize(settlements), nil
}

// Close implements Store. Later calls fail with an IOFailure.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
