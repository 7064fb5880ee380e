package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories the client exposes.
type ErrorKind uint8

const (
	KindOperationFailed ErrorKind = iota
	KindWalletMissing
	KindWrongNetwork
	KindProviderUnavailable
	KindTransactionFailed
	KindInvalidInput
	KindWalletRejected
	KindIntegerOverflow
)

var kindNames = map[ErrorKind]string{
	KindOperationFailed:     "operation failed",
	KindWalletMissing:       "wallet missing",
	KindWrongNetwork:        "wrong network",
	KindProviderUnavailable: "provider unavailable",
	KindTransactionFailed:   "transaction failed",
	KindInvalidInput:        "invalid input",
	KindWalletRejected:      "wallet rejected",
	KindIntegerOverflow:     "integer overflow",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// GenericFailureMessage is the only text an OperationFailed error shows.
const GenericFailureMessage = "an error occurred, please check the logs for details"

var (
	ErrorOperationFailed     = &Error{Kind: KindOperationFailed}
	ErrorWalletMissing       = &Error{Kind: KindWalletMissing, Msg: "please install a wallet provider"}
	ErrorWrongNetwork        = &Error{Kind: KindWrongNetwork}
	ErrorProviderUnavailable = &Error{Kind: KindProviderUnavailable}
	ErrorTransactionFailed   = &Error{Kind: KindTransactionFailed}
	ErrorInvalidInput        = &Error{Kind: KindInvalidInput}
	ErrorWalletRejected      = &Error{Kind: KindWalletRejected, Msg: "request rejected by the wallet"}
	ErrorIntegerOverflow     = &Error{Kind: KindIntegerOverflow}
)

// Error is a tagged failure. Op names the operation that failed and Err keeps
// the underlying cause for diagnostics.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Kind == KindOperationFailed {
		return GenericFailureMessage
	}

	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + " - " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches kind sentinels: an *Error with neither Op nor Err set matches any
// error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// WithMessage returns a copy of e carrying a user-facing message.
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	c := *e
	c.Msg = fmt.Sprintf(format, args...)
	return &c
}

// KindOf returns the most specific kind found in the chain of err.
func KindOf(err error) ErrorKind {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		if e.Kind != KindOperationFailed {
			return e.Kind
		}
		err = e.Err
	}
	return KindOperationFailed
}
