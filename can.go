// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import (
	"errors"
	"sync/atomic"

	"github.com/DataDog/go-decan/decanerrors"
	"github.com/DataDog/go-decan/raw"
)

// Can owns a [Library] together with the symbol group G resolved from it. Both
// share a single lifetime: the Can holds its own reference to the library, so
// the symbols stay valid until [Can.Close] even if the library is closed
// directly.
//
// Unlike [GroupRef], a Can can be stored and moved around freely alongside the
// rest of a program's state.
type Can[G any] struct {
	lib     *Library
	symbols G
	closed  atomic.Bool
}

// NewCan resolves G from lib and takes ownership of lib. On failure lib is
// closed and only the group error is returned.
func NewCan[G any](lib *Library) (*Can[G], error) {
	if !lib.retain() {
		return nil, decanerrors.ErrLibraryClosed
	}

	symbols, err := LoadGroup[G](lib.handle)
	if err != nil {
		lib.release()
		_ = lib.Close()
		return nil, err
	}
	return &Can[G]{lib: lib, symbols: symbols}, nil
}

// LoadCan opens the library at path and resolves G from it. Errors are
// [*decanerrors.LoadOrGroupError], telling whether opening the library or
// resolving its symbols failed.
func LoadCan[G any](path string, opts ...Option) (*Can[G], error) {
	lib, err := Open(path, opts...)
	if err != nil {
		var loadErr *decanerrors.LoadError
		if !errors.As(err, &loadErr) {
			loadErr = &decanerrors.LoadError{Kind: decanerrors.LoadErrorOS, Path: path, Err: err}
		}
		return nil, &decanerrors.LoadOrGroupError{Load: loadErr}
	}

	can, err := NewCan[G](lib)
	if err != nil {
		return nil, &decanerrors.LoadOrGroupError{Group: err}
	}
	return can, nil
}

// WrapRawCan resolves G from a handle whose lifetime is managed elsewhere.
// Closing the Can never releases handle.
func WrapRawCan[G any](handle raw.Handle) (*Can[G], error) {
	return NewCan[G](WrapRaw(handle))
}

// Symbols returns the resolved group. It panics with
// [decanerrors.ErrLibraryClosed] once the Can is closed.
func (can *Can[G]) Symbols() *G {
	if can.closed.Load() {
		panic(decanerrors.ErrLibraryClosed)
	}
	return &can.symbols
}

// Library returns the library owned by the Can, to borrow further symbols from
// it. Closing it does not invalidate the Can's symbols.
func (can *Can[G]) Library() *Library {
	return can.lib
}

// Raw returns the OS handle of the library.
func (can *Can[G]) Raw() raw.Handle {
	return can.lib.Raw()
}

// Close invalidates the symbols and closes the library. Closing an already
// closed Can returns [decanerrors.ErrLibraryClosed] and has no effect.
//
// Functions obtained from the symbols before Close must not be called after
// it.
func (can *Can[G]) Close() error {
	if !can.closed.CompareAndSwap(false, true) {
		return decanerrors.ErrLibraryClosed
	}
	// The owner reference may already be gone if the library was closed
	// through [Can.Library].
	_ = can.lib.Close()
	can.lib.release()
	return nil
}
