package auth

import (
	"errors"
	"fmt"
)

// Kind classifies why a handshake failed. Every kind gets the same
// user-facing treatment; the kind only shows up in logs.
type Kind int

const (
	KindGeneric Kind = iota
	KindProviderExchange
	KindUserNotFound
)

func (k Kind) String() string {
	switch k {
	case KindProviderExchange:
		return "provider_exchange"
	case KindUserNotFound:
		return "user_not_found"
	default:
		return "generic"
	}
}

const (
	MessageGeneric          = "An authentication exception occurred."
	MessageProviderExchange = "Error fetching OAuth credentials."
	MessageUserNotFound     = "User not found."
)

type Error struct {
	Kind Kind
	Err  error
}

func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func ProviderExchangeError(err error) *Error {
	return NewError(KindProviderExchange, err)
}

func UserNotFoundError(email string) *Error {
	return NewError(KindUserNotFound, fmt.Errorf("no account for %q", email))
}

func GenericError(err error) *Error {
	return NewError(KindGeneric, err)
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "auth: " + e.Kind.String()
	}
	return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so callers can write
// errors.Is(err, &auth.Error{Kind: auth.KindUserNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// MessageKey is the text shown to the user.
func (e *Error) MessageKey() string {
	switch e.Kind {
	case KindUserNotFound:
		return MessageUserNotFound
	case KindProviderExchange:
		return MessageProviderExchange
	default:
		return MessageGeneric
	}
}

// AsError converts any error into an *Error, classifying unknown errors as
// generic.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return GenericError(err)
}
