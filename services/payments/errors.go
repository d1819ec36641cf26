package payments

import (
	"errors"
	"fmt"
)

// Kind classifies donation flow failures so transports can map them
type Kind string

const (
	KindValidation         Kind = "validation"
	KindAuth               Kind = "auth"
	KindConfig             Kind = "config"
	KindPersistence        Kind = "persistence"
	KindDuplicateReference Kind = "duplicate_reference"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or "" when err is not an *Error
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func validationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func persistenceError(msg string, err error) error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

var (
	ErrNotAuthenticated = &Error{Kind: KindAuth, Msg: "Usuario no autenticado"}
	ErrGatewayConfig    = &Error{Kind: KindConfig, Msg: "Claves de Wompi no configuradas correctamente"}
	ErrInvalidSignature = &Error{Kind: KindAuth, Msg: "invalid event checksum"}
)
