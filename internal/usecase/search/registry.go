package search

import (
	"context"
	"sync"
)

// DefaultMaxSessions bounds the sessions a registry keeps in memory.
const DefaultMaxSessions = 1024

// Factory builds the session named name. It is called at most once per resident name.
type Factory func(ctx context.Context, name string) *Session

type slot struct {
	mu      sync.Mutex
	session *Session

	// guarded by Registry.mu
	users    int
	lastUsed uint64
}

// Registry hands out named sessions, creating them lazily and serializing calls per session.
//
// At most maxSessions sessions stay resident. When a new name would exceed the cap, the least
// recently used idle session whose state is fully loaded is dropped; its state lives on in
// the store and is reloaded on next use. If every session is busy or unsettled the registry
// grows past the cap rather than lose state.
type Registry struct {
	mu          sync.Mutex
	slots       map[string]*slot
	factory     Factory
	maxSessions int
	clock       uint64
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithMaxSessions caps resident sessions. Zero or less disables eviction.
func WithMaxSessions(n int) RegistryOption { return func(r *Registry) { r.maxSessions = n } }

// NewRegistry creates a Registry.
func NewRegistry(factory Factory, opts ...RegistryOption) *Registry {
	r := &Registry{slots: make(map[string]*slot), factory: factory, maxSessions: DefaultMaxSessions}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Do runs fn with exclusive access to the session named name.
//
// Sessions are built with a context detached from ctx's cancellation, so a caller that
// goes away mid-load does not leave the session without its stored state. Collections that
// still failed to load are retried on every call.
func (r *Registry) Do(ctx context.Context, name string, fn func(*Session) error) error {
	if err := ValidateSessionName(name); err != nil {
		return err
	}

	sl := r.acquire(name)
	defer r.release(sl)

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.session == nil {
		sl.session = r.factory(context.WithoutCancel(ctx), name)
	} else {
		sl.session.RetryLoad(ctx)
	}
	return fn(sl.session)
}

func (r *Registry) acquire(name string) *slot {
	r.mu.Lock()
	defer r.mu.Unlock()

	sl, ok := r.slots[name]
	if !ok {
		r.evictIdle()
		sl = &slot{}
		r.slots[name] = sl
	}
	r.clock++
	sl.lastUsed = r.clock
	sl.users++
	return sl
}

func (r *Registry) release(sl *slot) {
	r.mu.Lock()
	sl.users--
	r.mu.Unlock()
}

// evictIdle drops the least recently used evictable session when the registry is full.
// Callers hold r.mu. A slot with no users has no holder of its mutex.
func (r *Registry) evictIdle() {
	if r.maxSessions <= 0 || len(r.slots) < r.maxSessions {
		return
	}
	victim := ""
	var oldest uint64
	for name, sl := range r.slots {
		if sl.users > 0 || (sl.session != nil && !sl.session.Loaded()) {
			continue
		}
		if victim == "" || sl.lastUsed < oldest {
			victim, oldest = name, sl.lastUsed
		}
	}
	if victim != "" {
		delete(r.slots, victim)
	}
}

// Len returns the number of resident sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}
