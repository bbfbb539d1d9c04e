// Package ratelimit implements the in-process fixed-window limiter that
// gates the public intake endpoints. It is an abuse deterrent, not a
// security boundary: state is process-local and lost on restart, and
// replicas do not coordinate.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

type Config struct {
	Limit  int
	Window time.Duration
}

// Presets for common operations.
var (
	// Strict gates sensitive operations (login, payment).
	Strict = Config{Limit: 5, Window: 15 * time.Minute}
	// Moderate gates form submissions.
	Moderate = Config{Limit: 10, Window: 15 * time.Minute}
	// Generous gates general API use.
	Generous = Config{Limit: 100, Window: 15 * time.Minute}
)

type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type Window struct {
	Count   int
	ResetAt time.Time
}

// Store holds per-identifier windows. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(identifier string) (Window, bool)
	Set(identifier string, w Window)
	Len() int
	Sweep(now time.Time)
}

// Clock is injected so tests can drive window expiry deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// sweepThreshold is the live-entry count that triggers an eager purge of
// expired windows. The purge is a full O(n) pass on the request path,
// acceptable at this service's volumes.
const sweepThreshold = 10000

type Limiter struct {
	store Store
	clock Clock
}

func New() *Limiter {
	return &Limiter{store: NewMemoryStore(), clock: systemClock{}}
}

// NewWithDeps builds a limiter with an explicit store and clock; tests use
// this to inject a fresh store and a fake clock.
func NewWithDeps(store Store, clock Clock) *Limiter {
	return &Limiter{store: store, clock: clock}
}

// Check counts one request for the identifier against cfg. The first
// request, or any request after the window expired, opens a fresh window.
// Requests beyond cfg.Limit inside a window are denied with Remaining=0.
func (l *Limiter) Check(identifier string, cfg Config) Result {
	now := l.clock.Now()

	if l.store.Len() > sweepThreshold {
		l.store.Sweep(now)
	}

	w, ok := l.store.Get(identifier)
	if !ok || now.After(w.ResetAt) {
		resetAt := now.Add(cfg.Window)
		l.store.Set(identifier, Window{Count: 1, ResetAt: resetAt})
		return Result{Allowed: true, Limit: cfg.Limit, Remaining: cfg.Limit - 1, ResetAt: resetAt}
	}

	w.Count++
	l.store.Set(identifier, w)

	if w.Count > cfg.Limit {
		return Result{Allowed: false, Limit: cfg.Limit, Remaining: 0, ResetAt: w.ResetAt}
	}
	return Result{Allowed: true, Limit: cfg.Limit, Remaining: cfg.Limit - w.Count, ResetAt: w.ResetAt}
}

// MemoryStore is the default mutex-guarded map store.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]Window)}
}

func (s *MemoryStore) Get(identifier string) (Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[identifier]
	return w, ok
}

func (s *MemoryStore) Set(identifier string, w Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[identifier] = w
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *MemoryStore) Sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.windows {
		if now.After(w.ResetAt) {
			delete(s.windows, id)
		}
	}
}

// ClientIdentifier derives the rate-limit key from proxy headers, falling
// back to "unknown". The truncated user-agent is appended so distinct
// clients behind one proxy IP do not share a window.
func ClientIdentifier(r *http.Request) string {
	ip := "unknown"
	switch {
	case r.Header.Get("CF-Connecting-IP") != "":
		ip = r.Header.Get("CF-Connecting-IP")
	case r.Header.Get("X-Real-IP") != "":
		ip = r.Header.Get("X-Real-IP")
	case r.Header.Get("X-Forwarded-For") != "":
		ip = strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0])
	}

	ua := r.Header.Get("User-Agent")
	if len(ua) > 50 {
		ua = ua[:50]
	}
	return ip + "-" + ua
}
