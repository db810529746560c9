package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/claim-settlement/internal/settlement"
	"github.com/iwvelando/claim-settlement/internal/store"
	"github.com/iwvelando/claim-settlement/pkg/testutil"
	"go.uber.org/zap"
)

func largeClaim(n int) []settlement.DamageEntry {
	entries := make([]settlement.DamageEntry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, settlement.DamageEntry{
			Category:         "Interior",
			Item:             fmt.Sprintf("Room %d drywall", i),
			Amount:           testutil.Dec("123.45"),
			Quantity:         testutil.Dec("3"),
			DepreciationRate: testutil.Rate("0.02"),
		})
	}
	return entries
}

// TestPerformance checks that a large claim computes quickly.
func TestPerformance(t *testing.T) {
	engine := settlement.NewEngine(zap.NewNop())
	entries := largeClaim(5000)

	start := time.Now()
	result, err := engine.Compute(testutil.ScenarioPolicy(), entries, testutil.ScenarioAdjustments(), "CLM-LARGE", testutil.Clock())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	elapsed := time.Since(start)
	t.Logf("Computed %d entries in %v", len(entries), elapsed)

	if elapsed > 5*time.Second {
		t.Errorf("Compute took %v, exceeds 5 second threshold", elapsed)
	}
	if !result.TotalDamageEstimate.Equal(testutil.Dec("1851750")) {
		t.Errorf("total = %s, expected 1851750", result.TotalDamageEstimate)
	}
}

// TestDataConsistency validates that concurrent runs produce identical results.
func TestDataConsistency(t *testing.T) {
	engine := settlement.NewEngine(zap.NewNop())
	want := testutil.ScenarioResult()

	const workers = 16
	results := make([]settlement.SettlementResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = engine.Compute(testutil.ScenarioPolicy(), testutil.ScenarioEntries(),
				testutil.ScenarioAdjustments(), testutil.ScenarioClaimID, testutil.Clock())
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("worker %d: Compute() error = %v", i, errs[i])
		}
		if !results[i].Equal(want) {
			t.Errorf("worker %d produced a different result", i)
		}
	}
}

// TestConcurrentSaves saves from many goroutines and checks nothing is lost.
func TestConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory(zap.NewNop())
	defer func() {
		_ = st.Close()
	}()

	result := testutil.ScenarioResult()

	const workers = 32
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.Save(ctx, result)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Count != workers {
		t.Errorf("expected %d saved results, got %d", workers, stats.Count)
	}
}
