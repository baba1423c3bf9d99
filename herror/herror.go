// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package herror defines the typed error kinds raised across the server
// core and a small wrapping helper, so callers can classify an error
// without string matching.
package herror

import "errors"

// Kind classifies an error raised by the server core.
type Kind uint8

const (
	BindFailed Kind = iota
	AcceptFailed
	TLSHandshakeFailed
	ClientDisconnected
	ParseError
	DelegateRaised
	WriteFailed
	IdleTimeout
)

func (k Kind) String() string {
	switch k {
	case BindFailed:
		return "BindFailed"
	case AcceptFailed:
		return "AcceptFailed"
	case TLSHandshakeFailed:
		return "TLSHandshakeFailed"
	case ClientDisconnected:
		return "ClientDisconnected"
	case ParseError:
		return "ParseError"
	case DelegateRaised:
		return "DelegateRaised"
	case WriteFailed:
		return "WriteFailed"
	case IdleTimeout:
		return "IdleTimeout"
	default:
		return "UnknownKind"
	}
}

// Error wraps Cause with a Kind so callers can branch via errors.As
// without parsing messages.
type Error struct {
	Kind  Kind
	Cause error
}

func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
