package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeCollaborator answers register and login calls. When gate is set, a
// call blocks until a result is pushed for it.
type fakeCollaborator struct {
	mu       sync.Mutex
	user     User
	err      error
	calls    int
	entered  chan string
	results  map[string]chan result
	lastReg  Registration
	lastMail string
}

type result struct {
	user User
	err  error
}

func (f *fakeCollaborator) gate(ops ...string) {
	f.entered = make(chan string, len(ops))
	f.results = map[string]chan result{}
	for _, op := range ops {
		f.results[op] = make(chan result, 1)
	}
}

func (f *fakeCollaborator) answer(ctx context.Context, op string) (User, error) {
	f.mu.Lock()
	f.calls++
	ch := f.results[op]
	entered := f.entered
	user, err := f.user, f.err
	f.mu.Unlock()
	if ch == nil {
		return user, err
	}
	entered <- op
	select {
	case r := <-ch:
		return r.user, r.err
	case <-ctx.Done():
		return User{}, ctx.Err()
	}
}

func (f *fakeCollaborator) Register(ctx context.Context, r Registration) (User, error) {
	f.mu.Lock()
	f.lastReg = r
	f.mu.Unlock()
	return f.answer(ctx, "register")
}

func (f *fakeCollaborator) Login(ctx context.Context, email, _ string) (User, error) {
	f.mu.Lock()
	f.lastMail = email
	f.mu.Unlock()
	return f.answer(ctx, "login")
}

func newStore(f *fakeCollaborator) *Store {
	return New(f, f)
}

func validRegistration() Registration {
	return Registration{Name: "Ana", Email: "a@b.com", Phone: "55 1234 5678", Password: "secret1"}
}

func requireInvariant(t *testing.T, s Session) {
	t.Helper()
	require.Equal(t, s.Status == Authenticated, s.User != nil, "user present iff authenticated: %+v", s)
	if s.Err != nil {
		require.Equal(t, Failed, s.Status)
	}
}

func TestInitialState(t *testing.T) {
	s := newStore(&fakeCollaborator{}).Snapshot()
	require.Equal(t, Unauthenticated, s.Status)
	require.Nil(t, s.User)
	require.Nil(t, s.Err)
	require.False(t, s.Loading())
}

func TestLoginSuccess(t *testing.T) {
	f := &fakeCollaborator{user: User{ID: "1", Name: "Ana"}}
	store := newStore(f)

	got, err := store.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, Authenticated, got.Status)
	require.Equal(t, "1", got.User.ID)
	require.Nil(t, got.Err)
	require.Equal(t, "a@b.com", f.lastMail)
	requireInvariant(t, store.Snapshot())
}

func TestRegisterCollaboratorFailure(t *testing.T) {
	f := &fakeCollaborator{err: errors.New("El email ya está registrado")}
	store := newStore(f)

	got, err := store.Register(context.Background(), validRegistration())
	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, KindCollaborator, se.Kind)
	require.Equal(t, Failed, got.Status)
	require.Nil(t, got.User)
	require.Equal(t, "El email ya está registrado", got.Err.Message)
	requireInvariant(t, got)
}

func TestRegisterNormalizesInput(t *testing.T) {
	f := &fakeCollaborator{user: User{ID: "7"}}
	store := newStore(f)
	r := validRegistration()
	r.Email = "  A@B.com "
	r.Name = "  Ana "

	_, err := store.Register(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", f.lastReg.Email)
	require.Equal(t, "Ana", f.lastReg.Name)
	require.Equal(t, "5512345678", f.lastReg.Phone)
}

func TestRegisterValidationNeverDispatches(t *testing.T) {
	f := &fakeCollaborator{user: User{ID: "1"}}
	store := newStore(f)
	ch, cancel := store.Subscribe()
	defer cancel()

	r := validRegistration()
	r.Phone = "123-456"
	got, err := store.Register(context.Background(), r)

	var se *Error
	require.ErrorAs(t, err, &se)
	require.Equal(t, KindValidation, se.Kind)
	require.Equal(t, FieldPhone, se.Field)
	require.Equal(t, Unauthenticated, got.Status)
	require.Zero(t, f.calls)
	select {
	case s := <-ch:
		t.Fatalf("unexpected transition: %+v", s)
	default:
	}
}

func TestValidateRegistrationReportsEveryField(t *testing.T) {
	errs := ValidateRegistration(Registration{Name: "A", Email: "nope", Phone: "12", Password: "123"})
	require.Len(t, errs, 4)
	fields := []string{errs[0].Field, errs[1].Field, errs[2].Field, errs[3].Field}
	require.Equal(t, []string{FieldName, FieldEmail, FieldPhone, FieldPassword}, fields)
	require.Empty(t, ValidateRegistration(validRegistration().Normalize()))
}

func TestPendingClearsPreviousError(t *testing.T) {
	f := &fakeCollaborator{err: errors.New("Usuario no encontrado")}
	store := newStore(f)
	_, _ = store.Login(context.Background(), "x@y.com", "pw")
	require.NotNil(t, store.Snapshot().Err)

	f.gate("login")
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Login(context.Background(), "x@y.com", "pw")
	}()
	<-f.entered
	pending := store.Snapshot()
	require.Equal(t, Pending, pending.Status)
	require.True(t, pending.Loading())
	require.Nil(t, pending.Err)
	requireInvariant(t, pending)

	f.results["login"] <- result{user: User{ID: "9"}}
	<-done
	require.Equal(t, Authenticated, store.Snapshot().Status)
}

func TestLogoutAlwaysResets(t *testing.T) {
	cases := map[string]func(*Store){
		"unauthenticated": func(*Store) {},
		"authenticated": func(s *Store) {
			_, _ = s.Login(context.Background(), "a@b.com", "pw")
		},
		"failed": func(s *Store) {
			s.auth = &fakeCollaborator{err: errors.New("boom")}
			_, _ = s.Login(context.Background(), "a@b.com", "pw")
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			store := newStore(&fakeCollaborator{user: User{ID: "1"}})
			setup(store)
			got := store.Logout()
			require.Equal(t, Unauthenticated, got.Status)
			require.Nil(t, got.User)
			require.Nil(t, got.Err)
		})
	}
}

func TestLogoutDuringPendingDiscardsResult(t *testing.T) {
	f := &fakeCollaborator{}
	f.gate("login")
	store := newStore(f)

	errc := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), "a@b.com", "pw")
		errc <- err
	}()
	<-f.entered
	store.Logout()
	f.results["login"] <- result{user: User{ID: "1"}}

	require.ErrorIs(t, <-errc, ErrStale)
	got := store.Snapshot()
	require.Equal(t, Unauthenticated, got.Status)
	require.Nil(t, got.User)
}

func TestClearErrorIsIdempotent(t *testing.T) {
	store := newStore(&fakeCollaborator{err: errors.New("nope")})
	before := store.ClearError()
	require.Equal(t, Unauthenticated, before.Status)
	require.Nil(t, before.Err)

	_, _ = store.Login(context.Background(), "a@b.com", "pw")
	cleared := store.ClearError()
	require.Nil(t, cleared.Err)
	require.Equal(t, Failed, cleared.Status)

	again := store.ClearError()
	require.Equal(t, cleared, again)
}

func TestBypassLogin(t *testing.T) {
	store := newStore(&fakeCollaborator{})
	store.bypass = true
	ch, cancel := store.Subscribe()
	defer cancel()

	dev := User{ID: "test-user-dev", Name: "Mario Rodriguez (Dev)"}
	got, err := store.BypassLogin(dev)
	require.NoError(t, err)
	require.Equal(t, Authenticated, got.Status)
	require.Equal(t, dev, *got.User)

	seen := <-ch
	require.Equal(t, Authenticated, seen.Status)
	select {
	case s := <-ch:
		t.Fatalf("expected a single transition, got %+v", s)
	default:
	}
}

func TestBypassDisabledChangesNothing(t *testing.T) {
	store := newStore(&fakeCollaborator{})
	store.bypass = false
	got, err := store.BypassLogin(User{ID: "x"})
	require.ErrorIs(t, err, ErrBypassDisabled)
	require.Equal(t, Unauthenticated, got.Status)
}

// A slow login followed by a fast failing register: the register was
// initiated last, so its failure is what the session keeps.
func TestLatestInitiatedRequestWins(t *testing.T) {
	f := &fakeCollaborator{}
	f.gate("login", "register")
	store := newStore(f)

	loginErr := make(chan error, 1)
	go func() {
		_, err := store.Login(context.Background(), "a@b.com", "pw")
		loginErr <- err
	}()
	require.Equal(t, "login", <-f.entered)

	regErr := make(chan error, 1)
	go func() {
		_, err := store.Register(context.Background(), validRegistration())
		regErr <- err
	}()
	require.Equal(t, "register", <-f.entered)

	f.results["register"] <- result{err: errors.New("El email ya está registrado")}
	require.Error(t, <-regErr)
	f.results["login"] <- result{user: User{ID: "1", Name: "Ana"}}
	require.ErrorIs(t, <-loginErr, ErrStale)

	got := store.Snapshot()
	require.Equal(t, Failed, got.Status)
	require.Nil(t, got.User)
	require.Equal(t, "El email ya está registrado", got.Err.Message)
}

func TestSuccessWithoutUserIsUnknownError(t *testing.T) {
	store := newStore(&fakeCollaborator{})
	got, err := store.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)
	require.Equal(t, Failed, got.Status)
	require.Equal(t, KindUnknown, got.Err.Kind)
}

func TestCancelledContextIsUnknownError(t *testing.T) {
	f := &fakeCollaborator{}
	f.gate("login")
	store := newStore(f)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := store.Login(ctx, "a@b.com", "pw")
		errc <- err
	}()
	<-f.entered
	cancel()
	var se *Error
	require.ErrorAs(t, <-errc, &se)
	require.Equal(t, KindUnknown, se.Kind)
	require.Equal(t, connectionErrorMessage, se.Message)
}

func TestSnapshotsAreCopies(t *testing.T) {
	store := newStore(&fakeCollaborator{user: User{ID: "1", Name: "Ana"}})
	got, err := store.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	got.User.Name = "mutated"
	require.Equal(t, "Ana", store.Snapshot().User.Name)
}

func TestSubscribeCoalescesToLatest(t *testing.T) {
	store := newStore(&fakeCollaborator{user: User{ID: "1"}})
	ch, cancel := store.Subscribe()

	_, err := store.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	store.Logout()

	last := <-ch
	require.Equal(t, Unauthenticated, last.Status)
	cancel()
	cancel()
	_, ok := <-ch
	require.False(t, ok)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "pending", Pending.String())
	require.Equal(t, "error", Failed.String())
	require.Equal(t, "unknown", Status(42).String())
	require.Equal(t, "email: Ingresa un email válido", ValidationError(FieldEmail, "Ingresa un email válido").Error())
}
