package auth

import "sync"

// Snapshot is an immutable view of the session at one point in time.
// Consumers must treat reads taken while Loading is true as indeterminate
// and defer decisions until it settles.
type Snapshot struct {
	Identity *Identity
	Token    string
	Loading  bool
}

// Authenticated is true when the snapshot holds both an identity and a token
func (s Snapshot) Authenticated() bool {
	return s.Identity != nil && s.Token != ""
}

// Subscriber receives a snapshot after every session change
type Subscriber func(Snapshot)

// Session is the process-wide holder of at most one Identity plus a loading
// flag. AuthService is its sole mutator. A fresh Session reports loading
// until Initialize settles, so guards render a neutral state instead of
// redirecting on stale reads.
//
// Every mutating operation stamps an increasing sequence number when it
// starts; its result is applied only while it is still the newest
// operation, so a slow call that settles late cannot overwrite state
// established by a more recent one.
type Session struct {
	mu       sync.Mutex
	identity *Identity
	token    string
	loading  bool
	seq      uint64
	nextSub  int
	subs     map[int]Subscriber
}

func NewSession() *Session {
	return &Session{
		loading: true,
		subs:    map[int]Subscriber{},
	}
}

// State returns a consistent snapshot of the current session
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Identity returns the current identity, or nil when unauthenticated
func (s *Session) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Token returns the current auth token, or empty when unauthenticated
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Loading reports whether an initialization, login, or registration is in
// flight
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Subscribe registers fn to run after every session change. It returns an
// unsubscribe function. Notifications run synchronously on the mutating
// goroutine, outside the session lock.
func (s *Session) Subscribe(fn Subscriber) func() {
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

// begin stamps a new mutating operation and raises the loading flag
func (s *Session) begin() uint64 {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	changed := !s.loading
	s.loading = true
	snap, subs := s.snapshotAndSubs()
	s.mu.Unlock()

	if changed {
		notify(subs, snap)
	}
	return seq
}

// apply commits the operation's result. It reports false, leaving the
// session untouched, when a newer operation has started since seq.
func (s *Session) apply(seq uint64, identity *Identity, token string) bool {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return false
	}
	s.identity = identity
	s.token = token
	snap, subs := s.snapshotAndSubs()
	s.mu.Unlock()

	notify(subs, snap)
	return true
}

// end lowers the loading flag unless a newer operation took over
func (s *Session) end(seq uint64) {
	s.mu.Lock()
	if seq != s.seq || !s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = false
	snap, subs := s.snapshotAndSubs()
	s.mu.Unlock()

	notify(subs, snap)
}

// reset synchronously clears the session. It bumps the sequence so any
// in-flight operation settles as stale.
func (s *Session) reset() {
	s.mu.Lock()
	s.seq++
	s.identity = nil
	s.token = ""
	s.loading = false
	snap, subs := s.snapshotAndSubs()
	s.mu.Unlock()

	notify(subs, snap)
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		Identity: s.identity,
		Token:    s.token,
		Loading:  s.loading,
	}
}

func (s *Session) snapshotAndSubs() (Snapshot, []Subscriber) {
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return s.snapshot(), subs
}

func notify(subs []Subscriber, snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
