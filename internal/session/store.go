package session

import (
	"context"
	"io"
	"log"
	"sync"
)

// Store holds one Session. It is safe for concurrent use.
type Store struct {
	registrar Registrar
	auth      Authenticator
	logger    *log.Logger
	bypass    bool

	mu      sync.Mutex
	state   Session
	latest  uint64
	subs    map[int]chan Session
	nextSub int
}

type Option func(*Store)

// WithLogger routes transition logs to l. The default discards them.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Store in the Unauthenticated state.
func New(registrar Registrar, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		registrar: registrar,
		auth:      auth,
		logger:    log.New(io.Discard, "", 0),
		bypass:    bypassCompiled,
		subs:      map[int]chan Session{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BypassAvailable reports whether BypassLogin was compiled in.
func (s *Store) BypassAvailable() bool {
	return s.bypass
}

func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe returns a channel that receives a snapshot after every change.
// The channel holds only the most recent snapshot; a slow reader skips
// intermediate states but always sees the latest one. cancel closes it.
func (s *Store) Subscribe() (<-chan Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Session, 1)
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// Register validates r locally and, if valid, runs the registration
// collaborator. Invalid input returns a validation *Error and leaves the
// state untouched.
func (s *Store) Register(ctx context.Context, r Registration) (Session, error) {
	r = r.Normalize()
	if errs := ValidateRegistration(r); len(errs) > 0 {
		return s.Snapshot(), errs[0]
	}
	token := s.begin("register")
	user, err := s.registrar.Register(ctx, r)
	return s.resolve("register", token, user, err)
}

// Login runs the login collaborator. There is no local validation.
func (s *Store) Login(ctx context.Context, email, password string) (Session, error) {
	token := s.begin("login")
	user, err := s.auth.Login(ctx, email, password)
	return s.resolve("login", token, user, err)
}

// Logout resets to Unauthenticated and invalidates any request in flight.
func (s *Store) Logout() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.transitionLocked("logout", Session{Status: Unauthenticated, Request: s.latest})
	return s.state.clone()
}

// ClearError drops the recorded error without changing the status.
func (s *Store) ClearError() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Err == nil {
		return s.state.clone()
	}
	next := s.state
	next.Err = nil
	s.transitionLocked("clear-error", next)
	return s.state.clone()
}

// BypassLogin authenticates as u without a collaborator. It exists for
// development builds only.
func (s *Store) BypassLogin(u User) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.bypass {
		return s.state.clone(), ErrBypassDisabled
	}
	s.latest++
	s.transitionLocked("bypass", Session{Status: Authenticated, User: &u, Request: s.latest})
	return s.state.clone(), nil
}

func (s *Store) begin(op string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.transitionLocked(op+" pending", Session{Status: Pending, Request: s.latest})
	return s.latest
}

func (s *Store) resolve(op string, token uint64, u User, err error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.latest {
		s.logger.Printf("session: %s #%d discarded, latest is #%d", op, token, s.latest)
		return s.state.clone(), ErrStale
	}
	if err == nil && u.ID == "" {
		err = UnknownError("Respuesta inválida del servidor")
	}
	if err != nil {
		fail := classify(err)
		s.transitionLocked(op+" rejected", Session{Status: Failed, Err: fail, Request: token})
		return s.state.clone(), fail
	}
	s.transitionLocked(op+" fulfilled", Session{Status: Authenticated, User: &u, Request: token})
	return s.state.clone(), nil
}

func (s *Store) transitionLocked(event string, next Session) {
	prev := s.state.Status
	s.state = next
	s.logger.Printf("session: %s: %s -> %s (#%d)", event, prev, next.Status, next.Request)
	snap := s.state.clone()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
