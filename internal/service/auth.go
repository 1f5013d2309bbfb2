package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/camaron/internal/database"
	"github.com/jask/camaron/internal/database/repository"
	"github.com/jask/camaron/internal/session"
)

// Rejection messages are shown to the user verbatim by the session store.
var (
	ErrEmailTaken    = errors.New("El email ya está registrado")
	ErrInvalidData   = errors.New("Datos inválidos. Verifica todos los campos.")
	ErrUserNotFound  = errors.New("Usuario no encontrado")
	ErrWrongPassword = errors.New("Contraseña incorrecta")
)

// TestUserID identifies the development identity used by the login bypass.
const TestUserID = "test-user-dev"

// AuthService is the local stand-in for the remote auth API. It satisfies
// session.Registrar and session.Authenticator.
type AuthService struct {
	Users   *repository.UserRepo
	Latency time.Duration
	Jitter  time.Duration
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
}

var (
	_ session.Registrar     = (*AuthService)(nil)
	_ session.Authenticator = (*AuthService)(nil)
)

func (s *AuthService) Register(ctx context.Context, r session.Registration) (session.User, error) {
	if err := s.wait(ctx); err != nil {
		return session.User{}, err
	}
	r = r.Normalize()
	existing, err := s.Users.ByEmail(ctx, r.Email)
	if err != nil {
		return session.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return session.User{}, ErrEmailTaken
	}
	if len(session.ValidateRegistration(r)) > 0 {
		return session.User{}, ErrInvalidData
	}

	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), cost)
	if err != nil {
		return session.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := repository.User{
		ID:                uuid.NewString(),
		Name:              r.Name,
		Email:             r.Email,
		Phone:             r.Phone,
		PasswordHash:      string(hash),
		IsServiceProvider: r.IsServiceProvider,
		CreatedAt:         database.Now(),
	}
	if err := s.Users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return session.User{}, ErrEmailTaken
		}
		return session.User{}, fmt.Errorf("insert user: %w", err)
	}
	return toSessionUser(u), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (session.User, error) {
	if err := s.wait(ctx); err != nil {
		return session.User{}, err
	}
	u, err := s.Users.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return session.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return session.User{}, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return session.User{}, ErrWrongPassword
	}
	return toSessionUser(*u), nil
}

// CreateTestUser returns the fixed development identity.
func (s *AuthService) CreateTestUser() session.User {
	return session.User{
		ID:                TestUserID,
		Name:              "Mario Rodriguez (Dev)",
		Email:             "dev@camaron.app",
		Phone:             "1234567890",
		IsServiceProvider: true,
		Rating:            4.9,
		ReviewCount:       47,
		ProfileImage:      "dev",
		CreatedAt:         database.Now(),
	}
}

// wait simulates network latency and honours cancellation.
func (s *AuthService) wait(ctx context.Context) error {
	d := s.Latency
	if s.Jitter > 0 {
		d += rand.N(s.Jitter)
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func toSessionUser(u repository.User) session.User {
	out := session.User{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		IsServiceProvider: u.IsServiceProvider,
		Rating:            u.Rating,
		ReviewCount:       u.ReviewCount,
		CreatedAt:         u.CreatedAt,
	}
	if u.ProfileImage != nil {
		out.ProfileImage = *u.ProfileImage
	}
	return out
}
