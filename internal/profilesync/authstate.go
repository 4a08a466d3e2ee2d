package profilesync

import (
	"sync"

	"github.com/abdullah-imran-1713/firebase-user-profile-app/internal/models"
)

// Status of the current sign-in resolution.
type Status int

const (
	// StatusLoading is the initial state, before the first sign-in/out
	// resolution. Protected views show a neutral loading state here and
	// never redirect prematurely.
	StatusLoading Status = iota
	StatusSignedIn
	StatusSignedOut
)

// Snapshot is the observable value: who is signed in right now, if anyone.
type Snapshot struct {
	Status Status
	User   *models.Identity
}

// AuthState is the process-wide observable of the current identity, with an
// explicit subscribe/unsubscribe lifecycle. It is injected into consumers
// rather than kept as an ambient singleton.
type AuthState struct {
	mu     sync.Mutex
	snap   Snapshot
	subs   map[int]func(Snapshot)
	nextID int
}

func NewAuthState() *AuthState {
	return &AuthState{
		snap: Snapshot{Status: StatusLoading},
		subs: make(map[int]func(Snapshot)),
	}
}

// Subscribe registers fn and immediately delivers the current snapshot,
// mirroring the provider's auth-state listener. The returned func removes
// the subscription.
func (a *AuthState) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	snap := a.snap
	a.mu.Unlock()

	fn(snap)

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

// SetUser resolves the auth state to the given identity (nil means signed
// out). Subscribers are notified once per actual transition; setting the
// same user again is a no-op.
func (a *AuthState) SetUser(user *models.Identity) {
	next := Snapshot{Status: StatusSignedOut}
	if user != nil {
		next = Snapshot{Status: StatusSignedIn, User: user}
	}

	a.mu.Lock()
	if sameSnapshot(a.snap, next) {
		a.mu.Unlock()
		return
	}
	a.snap = next
	fns := make([]func(Snapshot), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

func (a *AuthState) Current() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// Resolved reports whether the first sign-in/out resolution has happened.
func (a *AuthState) Resolved() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap.Status != StatusLoading
}

func sameSnapshot(a, b Snapshot) bool {
	if a.Status != b.Status {
		return false
	}
	if a.User == nil || b.User == nil {
		return a.User == b.User
	}
	return a.User.UID == b.User.UID
}
