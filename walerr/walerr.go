// Package walerr implements the structured error kinds from spec.md §7:
// errors carry a Kind, the offending operator name, and optionally the
// offending argument name, so callers (the REPL, the MCP adapter, tests)
// can switch on Kind rather than parse message text.
package walerr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the way spec.md §7 names it.
type Kind string

// Error kinds, one per spec.md §7 bullet.
const (
	KindConfig    Kind = "ConfigError"
	KindProgram   Kind = "ProgramError"
	KindType      Kind = "TypeError"
	KindCodec     Kind = "CodecError"
	KindNetwork   Kind = "NetworkError"
	KindRemote    Kind = "RemoteError"
	KindOperation Kind = "OperationError"
)

// Error is the structured error value returned by every engine and
// operator failure path.
type Error struct {
	Kind Kind
	Op   string // operator name, e.g. "Filter", "GET"
	Arg  string // offending argument name, optional
	Err  error  // wrapped cause, optional
}

func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Op != "" {
		prefix += "(" + e.Op
		if e.Arg != "" {
			prefix += "." + e.Arg
		}
		prefix += ")"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	return prefix
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, &walerr.Error{Kind: walerr.KindType}) work as a
// kind check: a sentinel *Error carrying only a Kind (and optionally an
// Op) matches any *Error of that Kind (and Op).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
	}
	return false
}

func new(kind Kind, op, arg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Arg: arg, Err: err}
}

// Config builds a ConfigError.
func Config(op string, err error) *Error { return new(KindConfig, op, "", err) }

// Program builds a ProgramError (malformed node, unknown operator,
// missing argument, unbound variable).
func Program(op, arg string, err error) *Error { return new(KindProgram, op, arg, err) }

// Type builds a TypeError (argument evaluated to the wrong category).
func Type(op, arg string, err error) *Error { return new(KindType, op, arg, err) }

// Codec builds a CodecError (RDF/SPARQL-results parse or serialize
// failure).
func Codec(op string, err error) *Error { return new(KindCodec, op, "", err) }

// Network builds a NetworkError (transport/TLS failure, non-2xx after
// retries).
func Network(op string, err error) *Error { return new(KindNetwork, op, "", err) }

// Remote builds a RemoteError (well-formed but unsuccessful response).
func Remote(op string, err error) *Error { return new(KindRemote, op, "", err) }

// Operation builds an OperationError (operator-specific invariant
// breach, e.g. Filter position out of range).
func Operation(op string, err error) *Error { return new(KindOperation, op, "", err) }

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
