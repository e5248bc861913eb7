// Package cache provides a read-through freecache layer for preferences.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coocood/freecache"
	"go.uber.org/zap"

	"storecast.io/notifier/internal/domain"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/repository"
)

// Config sizes the cache.
type Config struct {
	SizeBytes int
	TTL       time.Duration
}

// Preferences caches Get and GetMany of an inner PreferenceRepository.
// Absent preferences are not cached. Upsert evicts the entry; inside a
// Store transaction it is evicted again when the transaction ends. A reader
// racing the commit can still cache the old row, and the TTL bounds that.
type Preferences struct {
	inner   repository.PreferenceRepository
	cache   *freecache.Cache
	ttl     int
	touched *touchSet
}

var _ repository.PreferenceRepository = (*Preferences)(nil)

// NewPreferences wraps inner with c. Entries expire after ttl.
func NewPreferences(inner repository.PreferenceRepository, c *freecache.Cache, ttl time.Duration) *Preferences {
	return &Preferences{inner: inner, cache: c, ttl: int(ttl.Seconds())}
}

func key(userID string) []byte {
	return []byte("pref:" + userID)
}

func (p *Preferences) lookup(userID string) (domain.Preference, bool) {
	data, err := p.cache.Get(key(userID))
	if err != nil {
		return domain.Preference{}, false
	}
	var pref domain.Preference
	if err := json.Unmarshal(data, &pref); err != nil {
		p.cache.Del(key(userID))
		return domain.Preference{}, false
	}
	return pref, true
}

func (p *Preferences) store(pref domain.Preference) {
	data, err := json.Marshal(pref)
	if err != nil {
		return
	}
	if err := p.cache.Set(key(pref.UserID), data, p.ttl); err != nil {
		logger.Debug("preference cache set failed", zap.String("user_id", pref.UserID), zap.Error(err))
	}
}

func (p *Preferences) Get(ctx context.Context, userID string) (*domain.Preference, error) {
	if pref, ok := p.lookup(userID); ok {
		return &pref, nil
	}
	pref, err := p.inner.Get(ctx, userID)
	if err != nil || pref == nil {
		return pref, err
	}
	p.store(*pref)
	return pref, nil
}

func (p *Preferences) GetMany(ctx context.Context, userIDs []string) (map[string]domain.Preference, error) {
	out := make(map[string]domain.Preference, len(userIDs))
	var misses []string
	for _, id := range userIDs {
		if pref, ok := p.lookup(id); ok {
			out[id] = pref
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := p.inner.GetMany(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, pref := range fetched {
		out[id] = pref
		p.store(pref)
	}
	return out, nil
}

func (p *Preferences) Upsert(ctx context.Context, pref domain.Preference) (domain.Preference, error) {
	saved, err := p.inner.Upsert(ctx, pref)
	p.Invalidate(pref.UserID)
	p.touched.add(pref.UserID)
	return saved, err
}

// Invalidate drops the cached preference of userID.
func (p *Preferences) Invalidate(userID string) {
	p.cache.Del(key(userID))
}

// touchSet collects the users whose cached preference a transaction
// invalidated. A nil set records nothing.
type touchSet struct {
	mu  sync.Mutex
	ids []string
}

func (t *touchSet) add(userID string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.ids = append(t.ids, userID)
	t.mu.Unlock()
}

func (t *touchSet) evict(c *freecache.Cache) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range t.ids {
		c.Del(key(id))
	}
	t.ids = nil
}

// Store decorates a repository.Store so that Preferences reads through the
// cache, including inside transactions.
type Store struct {
	repository.Store
	cache   *freecache.Cache
	ttl     time.Duration
	touched *touchSet // set on transactional views
}

// WrapStore returns inner with a cached preference repository.
func WrapStore(inner repository.Store, cfg Config) *Store {
	return &Store{Store: inner, cache: freecache.NewCache(cfg.SizeBytes), ttl: cfg.TTL}
}

func (s *Store) Preferences() repository.PreferenceRepository {
	p := NewPreferences(s.Store.Preferences(), s.cache, s.ttl)
	p.touched = s.touched
	return p
}

func (s *Store) Users() repository.UserRepository {
	return users{UserRepository: s.Store.Users(), cache: s.cache, touched: s.touched}
}

// WithinTx evicts every preference written by fn once the outermost
// transaction has committed or rolled back.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	touched := s.touched
	if touched == nil {
		touched = &touchSet{}
		defer touched.evict(s.cache)
	}
	return s.Store.WithinTx(ctx, func(tx repository.Store) error {
		return fn(&Store{Store: tx, cache: s.cache, ttl: s.ttl, touched: touched})
	})
}

// Stats reports hit and miss counters.
func (s *Store) Stats() (hits, misses int64) {
	return s.cache.HitCount(), s.cache.MissCount()
}

// users evicts the cached preference when a user is deleted.
type users struct {
	repository.UserRepository
	cache   *freecache.Cache
	touched *touchSet
}

func (u users) Delete(ctx context.Context, id string) error {
	err := u.UserRepository.Delete(ctx, id)
	u.cache.Del(key(id))
	u.touched.add(id)
	return err
}
