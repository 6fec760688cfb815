// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import (
	"sync/atomic"

	"github.com/DataDog/go-decan/decanerrors"
)

// SymbolRef is a symbol borrowed from a [Library]. It holds a reference to the
// library, which therefore stays loaded until [SymbolRef.Release] is called,
// even if the library's owner closes it in the meantime.
//
// Values obtained from [SymbolRef.Get] must not be used after the reference is
// released. Get may be called concurrently, including with Release.
type SymbolRef[S any] struct {
	lib      *Library
	sym      S
	released atomic.Bool
}

// BorrowSymbol resolves the export name from lib and ties the result to lib's
// lifetime. It fails with [decanerrors.ErrLibraryClosed] if lib was closed;
// resolution errors are [*decanerrors.SymbolError].
func BorrowSymbol[S any, PS symbolPtr[S]](lib *Library, name string) (*SymbolRef[S], error) {
	if !lib.retain() {
		return nil, decanerrors.ErrLibraryClosed
	}

	sym, err := LoadSymbol[S, PS](lib.handle, name)
	if err != nil {
		lib.release()
		return nil, err
	}
	return &SymbolRef[S]{lib: lib, sym: sym}, nil
}

// Get returns the symbol. It panics with [decanerrors.ErrLibraryClosed] if the
// reference was released.
func (ref *SymbolRef[S]) Get() S {
	if ref.released.Load() {
		panic(decanerrors.ErrLibraryClosed)
	}
	return ref.sym
}

// Library returns the library the symbol was borrowed from.
func (ref *SymbolRef[S]) Library() *Library {
	return ref.lib
}

// Release gives the library reference back. Further calls have no effect.
func (ref *SymbolRef[S]) Release() {
	if !ref.released.CompareAndSwap(false, true) {
		return
	}
	ref.lib.release()
}

// GroupRef is a symbol group borrowed from a [Library], with the same lifetime
// rules as [SymbolRef].
type GroupRef[G any] struct {
	lib      *Library
	group    G
	released atomic.Bool
}

// BorrowGroup resolves the symbol group G from lib and ties the result to lib's
// lifetime. It fails with [decanerrors.ErrLibraryClosed] if lib was closed;
// other errors are those of [LoadGroup].
func BorrowGroup[G any](lib *Library) (*GroupRef[G], error) {
	if !lib.retain() {
		return nil, decanerrors.ErrLibraryClosed
	}

	group, err := LoadGroup[G](lib.handle)
	if err != nil {
		lib.release()
		return nil, err
	}
	return &GroupRef[G]{lib: lib, group: group}, nil
}

// Get returns the group. It panics with [decanerrors.ErrLibraryClosed] if the
// reference was released.
func (ref *GroupRef[G]) Get() *G {
	if ref.released.Load() {
		panic(decanerrors.ErrLibraryClosed)
	}
	return &ref.group
}

// Library returns the library the group was borrowed from.
func (ref *GroupRef[G]) Library() *Library {
	return ref.lib
}

// Release gives the library reference back. Further calls have no effect.
func (ref *GroupRef[G]) Release() {
	if !ref.released.CompareAndSwap(false, true) {
		return
	}
	ref.lib.release()
}
