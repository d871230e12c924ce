package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/expense-system/internal/core/domain"
	"github.com/99minutos/expense-system/internal/infrastructure/db/memory"
	"github.com/99minutos/expense-system/internal/pkg/clock"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.DashboardStats
	invalidated int
	generation  int64
	getErr      error
	lastPeriod  string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*domain.DashboardStats)}
}

func (c *stubCache) Get(_ context.Context, period, scope string) (*domain.DashboardStats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastPeriod = period
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	s, ok := c.entries[period+"|"+scope]
	return s, ok, nil
}

func (c *stubCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *stubCache) Set(_ context.Context, gen int64, period, scope string, stats *domain.DashboardStats) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false, nil
	}
	c.entries[period+"|"+scope] = stats
	return true, nil
}

func (c *stubCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*domain.DashboardStats)
	c.generation++
	c.invalidated++
	return nil
}

type stubQueue struct {
	mu     sync.Mutex
	events []domain.ExpenseEvent
}

func (q *stubQueue) Enqueue(e domain.ExpenseEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

func (q *stubQueue) types() []domain.EventType {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.EventType, len(q.events))
	for i, e := range q.events {
		out[i] = e.Type
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	fixedNow      = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
)

type fixture struct {
	clock *clock.Fixed
	store *memory.Store
	cache *stubCache
	queue *stubQueue
}

func newFixture() *fixture {
	clk := clock.NewFixed(fixedNow)
	return &fixture{
		clock: clk,
		store: memory.NewStore(clk),
		cache: newStubCache(),
		queue: &stubQueue{},
	}
}

func (f *fixture) seed() {
	users, expenses := SampleData(fixedNow)
	if err := f.store.Seed(context.Background(), users, expenses); err != nil {
		panic(err)
	}
}

func (f *fixture) expenseService() *ExpenseService {
	return NewExpenseService(f.store.Expenses(), f.store.Approvals(), f.cache, f.queue, f.clock, discardLogger)
}
