package session

import (
	"context"
	"time"
)

type Status int

const (
	Unauthenticated Status = iota
	Pending
	Authenticated
	Failed
)

func (s Status) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// User is the signed-in identity as returned by a collaborator.
type User struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	IsServiceProvider bool
	Rating            float64
	ReviewCount       int
	ProfileImage      string
	CreatedAt         time.Time
}

// Registration is the input of a register attempt.
type Registration struct {
	Name              string
	Email             string
	Phone             string
	Password          string
	IsServiceProvider bool
}

// Registrar creates accounts. A non-nil error is a rejection; its message is shown to the user.
type Registrar interface {
	Register(ctx context.Context, r Registration) (User, error)
}

// Authenticator checks credentials.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (User, error)
}

// Session is a read-only snapshot of the store.
type Session struct {
	Status  Status
	User    *User
	Err     *Error
	Request uint64
}

func (s Session) Authenticated() bool { return s.Status == Authenticated }

func (s Session) Loading() bool { return s.Status == Pending }

func (s Session) clone() Session {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Err != nil {
		e := *s.Err
		out.Err = &e
	}
	return out
}
