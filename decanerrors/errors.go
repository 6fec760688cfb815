// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package decanerrors holds the error types reported while loading dynamic
// libraries and resolving their symbols.
package decanerrors

import (
	"errors"
	"fmt"
)

// ErrLibraryClosed is returned when a library, or a value borrowed from it, is
// used after it was closed.
var ErrLibraryClosed = errors.New("library was closed")

// LoadErrorKind identifies why a library could not be opened.
type LoadErrorKind int

const (
	// LoadErrorOS means the platform loader rejected the library.
	LoadErrorOS LoadErrorKind = iota
	// LoadErrorPathEncoding means the path could not be converted to the
	// platform's native string encoding (eg. it contains a NUL byte).
	LoadErrorPathEncoding
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadErrorOS:
		return "os"
	case LoadErrorPathEncoding:
		return "path encoding"
	default:
		return fmt.Sprintf("LoadErrorKind(%d)", int(k))
	}
}

// LoadError is returned when a dynamic library cannot be opened.
type LoadError struct {
	Kind LoadErrorKind
	// Path is the path as given by the caller.
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case LoadErrorPathEncoding:
		return fmt.Sprintf("invalid library path %q: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("cannot open library %q: OS error (%v)", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// SymbolErrorKind identifies why a symbol could not be resolved.
type SymbolErrorKind int

const (
	// SymbolErrorOS means the platform failed to resolve the name.
	SymbolErrorOS SymbolErrorKind = iota
	// SymbolErrorNullValue means the name resolved to the null address but the
	// requested type does not allow it.
	SymbolErrorNullValue
	// SymbolErrorSignature means the requested Go function type cannot be bound
	// to a foreign function.
	SymbolErrorSignature
)

func (k SymbolErrorKind) String() string {
	switch k {
	case SymbolErrorOS:
		return "os"
	case SymbolErrorNullValue:
		return "null value"
	case SymbolErrorSignature:
		return "signature"
	default:
		return fmt.Sprintf("SymbolErrorKind(%d)", int(k))
	}
}

// SymbolError is returned when a single symbol cannot be resolved.
type SymbolError struct {
	Kind SymbolErrorKind
	// Symbol is the exported name that was looked up.
	Symbol string
	// Type is the name of the requested type. Set for SymbolErrorNullValue and
	// SymbolErrorSignature.
	Type string
	Err  error
}

func (e *SymbolError) Error() string {
	switch e.Kind {
	case SymbolErrorNullValue:
		return fmt.Sprintf("symbol %q: symbols of type %s cannot contain a null value", e.Symbol, e.Type)
	case SymbolErrorSignature:
		return fmt.Sprintf("symbol %q: cannot bind function type %s: %v", e.Symbol, e.Type, e.Err)
	default:
		return fmt.Sprintf("symbol %q: OS error (%v)", e.Symbol, e.Err)
	}
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}

// SymbolGroupError is returned when a symbol group fails to load. It names the
// single field that failed and wraps the cause.
type SymbolGroupError struct {
	// Field is the name of the group member that failed to load.
	Field string
	Err   *SymbolError
}

// InGroup attaches the name of the group member that failed to load.
func (e *SymbolError) InGroup(field string) *SymbolGroupError {
	return &SymbolGroupError{Field: field, Err: e}
}

func (e *SymbolGroupError) Error() string {
	return fmt.Sprintf("error loading `%s`: %v", e.Field, e.Err)
}

func (e *SymbolGroupError) Unwrap() error {
	return e.Err
}

// Phase tells which stage of a combined load failed.
type Phase int

const (
	// PhaseLoad is the opening of the library.
	PhaseLoad Phase = iota
	// PhaseGroup is the resolution of the library's symbols.
	PhaseGroup
)

func (p Phase) String() string {
	switch p {
	case PhaseLoad:
		return "load"
	case PhaseGroup:
		return "group"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// LoadOrGroupError is returned by operations which both open a library and
// resolve a symbol group from it. Exactly one of Load and Group is set.
type LoadOrGroupError struct {
	Load  *LoadError
	Group error
}

// Phase returns the stage that failed.
func (e *LoadOrGroupError) Phase() Phase {
	if e.Load != nil {
		return PhaseLoad
	}
	return PhaseGroup
}

func (e *LoadOrGroupError) Error() string {
	if e.Load != nil {
		return e.Load.Error()
	}
	return e.Group.Error()
}

func (e *LoadOrGroupError) Unwrap() error {
	if e.Load != nil {
		return e.Load
	}
	return e.Group
}

// InvalidGroupError is returned when a type cannot be used as a symbol group,
// for example because one of its fields is neither a symbol nor a group.
type InvalidGroupError struct {
	Type   string
	Field  string
	Reason string
}

func (e *InvalidGroupError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s is not a valid symbol group: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("%s is not a valid symbol group: field %s: %s", e.Type, e.Field, e.Reason)
}

// UnsupportedOSArchError is returned when dynamic loading is not available on
// the current operating system and architecture.
type UnsupportedOSArchError struct {
	OS   string
	Arch string
}

func (e UnsupportedOSArchError) Error() string {
	return fmt.Sprintf("the target operating-system %s or architecture %s are not supported", e.OS, e.Arch)
}
