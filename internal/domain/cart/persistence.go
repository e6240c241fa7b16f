// internal/domain/cart/persistence.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Persister is the durable key-value slot behind a cart. Load returns
// (nil, nil) for an empty slot; it also returns (nil, nil) for a corrupted
// one, because corruption recovery is a fallback to an empty cart, never a
// failure surfaced to the caller.
type Persister interface {
	Load(ctx context.Context, key string) (*CartState, error)
	Save(ctx context.Context, key string, state CartState) error
	Delete(ctx context.Context, key string) error
}

// RedisPersister stores cart states as JSON blobs under cart:<owner> keys,
// each refreshed to the configured TTL on every save.
type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewRedisPersister creates a Redis-backed cart persister.
func NewRedisPersister(client *redis.Client, ttl time.Duration, log *logrus.Logger) *RedisPersister {
	return &RedisPersister{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (p *RedisPersister) cartKey(key string) string {
	return fmt.Sprintf("cart:%s", key)
}

// Load deserializes the stored blob. Malformed blobs are discarded and the
// slot treated as empty.
func (p *RedisPersister) Load(ctx context.Context, key string) (*CartState, error) {
	data, err := p.client.Get(ctx, p.cartKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", key, err)
	}

	state, ok := decodeState([]byte(data))
	if !ok {
		p.log.WithField("cart_key", key).Warn("Discarding corrupted cart blob")
		return nil, nil
	}

	return state, nil
}

// Save serializes the state into the slot, refreshing its TTL.
func (p *RedisPersister) Save(ctx context.Context, key string, state CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode cart %s: %w", key, err)
	}

	if err := p.client.Set(ctx, p.cartKey(key), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", key, err)
	}

	return nil
}

// Delete empties the slot.
func (p *RedisPersister) Delete(ctx context.Context, key string) error {
	return p.client.Del(ctx, p.cartKey(key)).Err()
}

// decodeState unmarshals a persisted blob, reporting structural garbage as
// a miss instead of an error.
func decodeState(data []byte) (*CartState, bool) {
	var state CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false
	}
	return &state, true
}

// MemoryPersister is an in-process Persister used in tests and as a
// degraded fallback when Redis is unreachable at startup.
type MemoryPersister struct {
	mu    sync.Mutex
	slots map[string][]byte
}

// NewMemoryPersister creates an empty in-memory persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{slots: make(map[string][]byte)}
}

func (p *MemoryPersister) Load(ctx context.Context, key string) (*CartState, error) {
	p.mu.Lock()
	data, ok := p.slots[key]
	p.mu.Unlock()
	if !ok {
		return nil, nil
	}

	state, ok := decodeState(data)
	if !ok {
		return nil, nil
	}
	return state, nil
}

func (p *MemoryPersister) Save(ctx context.Context, key string, state CartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.slots[key] = data
	p.mu.Unlock()
	return nil
}

func (p *MemoryPersister) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	delete(p.slots, key)
	p.mu.Unlock()
	return nil
}

// Put stores a raw blob, bypassing encoding. Lets tests plant corrupted or
// legacy-shaped data.
func (p *MemoryPersister) Put(key string, data []byte) {
	p.mu.Lock()
	p.slots[key] = data
	p.mu.Unlock()
}

// RestoreState merges a previously persisted state over a freshly
// constructed empty cart, so that fields absent from older blobs default
// safely. Structurally invalid line items are dropped, quantities are
// clamped back into range, and the summary is re-derived from the restored
// items rather than trusted from the blob — persisted totals may predate
// the current calculation rules.
func RestoreState(prior *CartState, sessionID string, rules Rules, now time.Time) CartState {
	state := NewCartState(sessionID, now)
	if prior == nil {
		return state
	}

	if prior.SessionID != "" {
		state.SessionID = prior.SessionID
	}
	if !prior.LastUpdated.IsZero() {
		state.LastUpdated = prior.LastUpdated
	}

	seen := make(map[string]bool, len(prior.Items))
	for _, item := range prior.Items {
		if item.ProductID == 0 || item.Quantity <= 0 || item.UnitPrice < 0 {
			continue
		}
		if item.ID == "" {
			item.ID = LineItemID(item.ProductID, item.SelectedVariant)
		}
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true

		item.Quantity = clampQuantity(item.Quantity, rules.MaxQuantityPerItem)
		item.TotalPrice = item.UnitPrice * int64(item.Quantity)
		state.Items = append(state.Items, item)
		if len(state.Items) == rules.MaxItems {
			break
		}
	}

	for _, c := range prior.AppliedCoupons {
		if c.Code == "" {
			continue
		}
		state.AppliedCoupons = append(state.AppliedCoupons, c)
	}

	state.Summary = ComputeSummary(state.Items, state.AppliedCoupons, rules, now)
	return state
}
