// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/coupon"
)

// ErrCouponAlreadyApplied is the Store-level duplicate check. The reducer
// itself does not enforce code uniqueness; stacking policy is deliberately
// a Store concern.
var ErrCouponAlreadyApplied = errors.New("coupon already applied")

// CouponSource resolves coupon codes against the catalog. Lookups that find
// nothing return coupon.ErrUnknownCoupon.
type CouponSource interface {
	FindByCode(ctx context.Context, code string) (*coupon.Coupon, error)
}

// Store is the stateful container for one cart. It holds the current
// CartState, dispatches every mutation through the Reducer, notifies
// subscribers, and persists the new state after each transition.
//
// Commands serialize under a mutex, so each transition — summary
// recomputation included — completes before the next one starts. The
// persisted copy is written asynchronously and best-effort: a failed save
// is logged and swallowed, and the in-memory state stays authoritative for
// the session.
type Store struct {
	mu        sync.Mutex
	key       string
	reducer   Reducer
	persister Persister
	coupons   CouponSource
	log       *logrus.Logger

	state   CartState
	lastErr string

	subs    map[int]func(CartState)
	nextSub int

	saves sync.WaitGroup
}

// NewStore creates the store for one cart owner, restoring any previously
// persisted state before the store accepts its first command. A load
// failure degrades to an empty cart.
func NewStore(ctx context.Context, key string, reducer Reducer, persister Persister, coupons CouponSource, log *logrus.Logger) *Store {
	prior, err := persister.Load(ctx, key)
	if err != nil {
		log.WithFields(logrus.Fields{
			"cart_key": key,
			"error":    err.Error(),
		}).Warn("Failed to load persisted cart, starting empty")
		prior = nil
	}

	return &Store{
		key:       key,
		reducer:   reducer,
		persister: persister,
		coupons:   coupons,
		log:       log,
		state:     RestoreState(prior, uuid.New().String(), reducer.Rules, time.Now().UTC()),
		subs:      make(map[int]func(CartState)),
	}
}

// AddToCart adds a product to the cart, merging with an existing line when
// the same product+variant is already present.
func (s *Store) AddToCart(payload AddItem) {
	_ = s.dispatch(payload)
}

// RemoveFromCart removes a line item. Missing ids are a no-op.
func (s *Store) RemoveFromCart(itemID string) {
	_ = s.dispatch(RemoveItem{ItemID: itemID})
}

// UpdateQuantity sets a line item's quantity; zero or less removes it.
func (s *Store) UpdateQuantity(itemID string, quantity int) {
	_ = s.dispatch(UpdateQuantity{ItemID: itemID, Quantity: quantity})
}

// ClearCart empties the cart. With reset true the session is also
// abandoned and a fresh session id issued.
func (s *Store) ClearCart(reset bool) {
	if !reset {
		_ = s.dispatch(ClearCart{})
		return
	}

	s.mu.Lock()
	next := NewCartState(uuid.New().String(), time.Now().UTC())
	s.state = next
	subs := s.snapshotSubs()
	s.mu.Unlock()

	s.notify(subs, next)
	s.persistAsync(next)
}

// ApplyCoupon resolves a code against the coupon catalog and dispatches the
// application. This is the one command with an externally observable error
// channel: unknown codes, inactive coupons and unmet minimums all surface
// here and via LastError. A successful application clears the last error.
func (s *Store) ApplyCoupon(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	// Early duplicate check saves a catalog lookup; the authoritative one
	// happens under the lock below.
	if s.hasCoupon(code) {
		return s.fail(ErrCouponAlreadyApplied)
	}

	c, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	// The lookup ran unlocked; a concurrent application of the same code
	// may have landed since the early check.
	for _, applied := range s.state.AppliedCoupons {
		if strings.EqualFold(applied.Code, code) {
			s.mu.Unlock()
			return s.fail(ErrCouponAlreadyApplied)
		}
	}

	next, err := s.reducer.Reduce(s.state, ApplyCoupon{Coupon: *c}, time.Now().UTC())
	if err != nil {
		s.mu.Unlock()
		return s.fail(err)
	}
	s.state = next
	s.lastErr = ""
	subs := s.snapshotSubs()
	s.mu.Unlock()

	s.notify(subs, next)
	s.persistAsync(next)
	return nil
}

func (s *Store) hasCoupon(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.state.AppliedCoupons {
		if strings.EqualFold(c.Code, code) {
			return true
		}
	}
	return false
}

// RemoveCoupon drops an applied coupon by code.
func (s *Store) RemoveCoupon(code string) {
	_ = s.dispatch(RemoveCoupon{Code: code})
}

// State returns a snapshot of the current cart state.
func (s *Store) State() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	state.Items = cloneItems(s.state.Items)
	state.AppliedCoupons = cloneCoupons(s.state.AppliedCoupons)
	return state
}

// GetItemQuantity returns the total quantity of a product across all its
// variant lines.
func (s *Store) GetItemQuantity(productID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.state.Items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// IsInCart reports whether any line holds the product.
func (s *Store) IsInCart(productID uint) bool {
	return s.GetItemQuantity(productID) > 0
}

// GetTotalItems returns the summed quantity across all lines.
func (s *Store) GetTotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Summary.ItemCount
}

// GetTotalPrice returns the cart's current total.
func (s *Store) GetTotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Summary.Total
}

// LastError returns the user-visible message of the most recent rejected
// coupon application, or "" when there is none.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError discards the last error.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

// Subscribe registers fn to run after every state transition. The returned
// cancel function unregisters it.
func (s *Store) Subscribe(fn func(CartState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) dispatch(cmd Command) error {
	s.mu.Lock()
	next, err := s.reducer.Reduce(s.state, cmd, time.Now().UTC())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	subs := s.snapshotSubs()
	s.mu.Unlock()

	s.notify(subs, next)
	s.persistAsync(next)
	return nil
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	return err
}

func (s *Store) snapshotSubs() []func(CartState) {
	subs := make([]func(CartState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func (s *Store) notify(subs []func(CartState), state CartState) {
	for _, fn := range subs {
		fn(state)
	}
}

// persistAsync writes the state without blocking the command that produced
// it. Failures are logged, never propagated.
func (s *Store) persistAsync(state CartState) {
	s.saves.Add(1)
	go func() {
		defer s.saves.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.persister.Save(ctx, s.key, state); err != nil {
			s.log.WithFields(logrus.Fields{
				"cart_key": s.key,
				"error":    err.Error(),
			}).Warn("Failed to persist cart state")
		}
	}()
}

// Manager keys Stores by cart owner so the HTTP layer can share one Store
// per user or guest session.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*Store
	reducer   Reducer
	persister Persister
	coupons   CouponSource
	log       *logrus.Logger
}

// NewManager creates a store manager.
func NewManager(reducer Reducer, persister Persister, coupons CouponSource, log *logrus.Logger) *Manager {
	return &Manager{
		stores:    make(map[string]*Store),
		reducer:   reducer,
		persister: persister,
		coupons:   coupons,
		log:       log,
	}
}

// UserKey is the cart owner key for an authenticated user.
func UserKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// SessionKey is the cart owner key for a guest session.
func SessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Store returns the store for an owner key, creating (and loading) it on
// first use.
func (m *Manager) Store(ctx context.Context, key string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[key]; ok {
		return s
	}

	s := NewStore(ctx, key, m.reducer, m.persister, m.coupons, m.log)
	m.stores[key] = s
	return s
}

// MergeGuestCart replays a guest cart's lines into a user cart, then clears
// the guest cart. Replaying through the reducer keeps the identity-merge,
// clamping and cap rules intact; frozen unit prices carry over because each
// line's stored product snapshot is replayed, not the live catalog.
func (m *Manager) MergeGuestCart(ctx context.Context, sessionKey, userKey string) {
	guest := m.Store(ctx, sessionKey)
	user := m.Store(ctx, userKey)

	for _, item := range guest.State().Items {
		user.AddToCart(AddItem{
			Product:  item.Product,
			Quantity: item.Quantity,
			Variant:  item.SelectedVariant,
			Notes:    item.Notes,
		})
	}

	guest.ClearCart(true)
}

// Flush blocks until every pending asynchronous save has finished. Called
// during graceful shutdown.
func (m *Manager) Flush() {
	m.mu.Lock()
	stores := make([]*Store, 0, len(m.stores))
	for _, s := range m.stores {
		stores = append(stores, s)
	}
	m.mu.Unlock()

	for _, s := range stores {
		s.saves.Wait()
	}
}
