package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/leads-cli/internal/model"
)

// DefaultMemoTTL is how long an identical query may be served from memory.
// Staleness within this window is acceptable by design.
const DefaultMemoTTL = 5 * time.Minute

type memoEntry struct {
	table    *model.Table
	cachedAt time.Time
}

// MemoStore wraps a LeadStore with a short-lived query-result memo keyed by
// the full filter parameter set. Entries are never invalidated except by TTL
// expiry; concurrent identical queries are coalesced into one backend call.
type MemoStore struct {
	inner LeadStore
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]memoEntry
	group   singleflight.Group
}

// NewMemo wraps inner with a TTL memo. A non-positive ttl falls back to
// DefaultMemoTTL.
func NewMemo(inner LeadStore, ttl time.Duration) *MemoStore {
	if ttl <= 0 {
		ttl = DefaultMemoTTL
	}
	return &MemoStore{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoEntry),
	}
}

func (m *MemoStore) QueryLeads(ctx context.Context, filter LeadFilter) (*model.Table, error) {
	key := filter.Key()

	m.mu.Lock()
	if e, ok := m.entries[key]; ok && m.now().Sub(e.cachedAt) < m.ttl {
		m.mu.Unlock()
		zap.L().Debug("lead query served from memo", zap.String("key", key))
		return e.table, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(key, func() (any, error) {
		table, err := m.inner.QueryLeads(ctx, filter)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.entries[key] = memoEntry{table: table, cachedAt: m.now()}
		m.mu.Unlock()
		return table, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Table), nil
}

func (m *MemoStore) Migrate(ctx context.Context) error {
	return m.inner.Migrate(ctx)
}

func (m *MemoStore) Close() error {
	return m.inner.Close()
}
