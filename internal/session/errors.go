package session

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStale is returned when a result arrives after a newer request, a logout or a bypass.
	ErrStale = errors.New("session: stale response discarded")
	// ErrBypassDisabled is returned by BypassLogin in builds without the devbypass tag.
	ErrBypassDisabled = errors.New("session: login bypass not available in this build")
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindCollaborator
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCollaborator:
		return "collaborator"
	default:
		return "unknown"
	}
}

// Error is the failure recorded in a Session. Field is set only for validation errors.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func ValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func CollaboratorError(message string) *Error {
	return &Error{Kind: KindCollaborator, Message: message}
}

func UnknownError(message string) *Error {
	return &Error{Kind: KindUnknown, Message: message}
}

const connectionErrorMessage = "Error de conexión"

func classify(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		cp := *se
		return &cp
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return UnknownError(connectionErrorMessage)
	}
	if err.Error() == "" {
		return UnknownError(connectionErrorMessage)
	}
	return CollaboratorError(err.Error())
}
