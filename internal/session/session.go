package session

import (
	"context"
	"log"
	"sync"

	profiledomain "taskboard-backend/internal/profile/domain"
	profilerepo "taskboard-backend/internal/profile/repository"
)

// Principal is an authenticated user identity as seen by the rest of the
// system.
type Principal struct {
	ID    string
	Name  string
	Email string
}

// Observer is notified on every sign-in and sign-out transition.
type Observer func(p Principal, signedIn bool)

// Manager tracks active principals and owns the cancellation registry for
// their live subscriptions. Every Watch a component opens must be registered
// here; sign-out flushes the principal's registry before anything else, so no
// subscription callback can fire with credentials that were just revoked.
type Manager struct {
	mu        sync.Mutex
	profiles  profilerepo.ProfileRepository
	observers map[int]Observer
	nextObsID int
	active    map[string]*principalState
}

type principalState struct {
	principal Principal
	cancels   map[int]func()
	nextID    int
}

func NewManager(profiles profilerepo.ProfileRepository) *Manager {
	return &Manager{
		profiles:  profiles,
		observers: make(map[int]Observer),
		active:    make(map[string]*principalState),
	}
}

// Observe registers an observer and returns its removal function. The
// observer fires immediately for every principal already signed in.
func (m *Manager) Observe(fn Observer) func() {
	m.mu.Lock()
	id := m.nextObsID
	m.nextObsID++
	m.observers[id] = fn
	current := make([]Principal, 0, len(m.active))
	for _, st := range m.active {
		current = append(current, st.principal)
	}
	m.mu.Unlock()

	for _, p := range current {
		fn(p, true)
	}

	return func() {
		m.mu.Lock()
		delete(m.observers, id)
		m.mu.Unlock()
	}
}

// SignIn marks the principal active and ensures a profile record exists for
// it. Profile creation is create-if-absent: repeat sign-ins never clobber
// user-edited fields. A profile failure is logged and never blocks sign-in.
func (m *Manager) SignIn(ctx context.Context, p Principal) {
	m.mu.Lock()
	_, already := m.active[p.ID]
	if !already {
		m.active[p.ID] = &principalState{principal: p, cancels: make(map[int]func())}
	}
	observers := m.snapshotObserversLocked()
	m.mu.Unlock()

	if m.profiles != nil {
		err := m.profiles.CreateIfAbsent(ctx, &profiledomain.Profile{
			UserID: p.ID,
			Name:   p.Name,
		})
		if err != nil {
			log.Printf("[Session] Failed to ensure profile for user %s: %v", p.ID, err)
		}
	}

	if !already {
		for _, fn := range observers {
			fn(p, true)
		}
	}
}

// SignOut flushes every subscription registered for the principal, then
// clears its session state and notifies observers. Flushing happens first:
// a stale listener must never fire after this returns.
func (m *Manager) SignOut(userID string) {
	m.mu.Lock()
	st, ok := m.active[userID]
	if !ok {
		m.mu.Unlock()
		return
	}
	cancels := make([]func(), 0, len(st.cancels))
	for _, c := range st.cancels {
		cancels = append(cancels, c)
	}
	st.cancels = make(map[int]func())
	principal := st.principal
	delete(m.active, userID)
	observers := m.snapshotObserversLocked()
	m.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	log.Printf("[Session] Flushed %d subscription(s) for user %s", len(cancels), userID)

	for _, fn := range observers {
		fn(principal, false)
	}
}

// Register adds an unsubscribe function to the principal's registry and
// returns a deregister function for normal teardown. Registering against a
// principal that is not signed in cancels immediately: the subscription was
// opened against a dead session.
func (m *Manager) Register(userID string, cancel func()) func() {
	m.mu.Lock()
	st, ok := m.active[userID]
	if !ok {
		m.mu.Unlock()
		cancel()
		return func() {}
	}
	id := st.nextID
	st.nextID++
	st.cancels[id] = cancel
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		if st, ok := m.active[userID]; ok {
			delete(st.cancels, id)
		}
		m.mu.Unlock()
	}
}

// IsActive reports whether the principal currently has a session.
func (m *Manager) IsActive(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.active[userID]
	return ok
}

func (m *Manager) snapshotObserversLocked() []Observer {
	observers := make([]Observer, 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	return observers
}
