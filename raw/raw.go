// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package raw is a thin, platform-neutral layer over the operating system's
// dynamic loader: dlopen/dlsym/dlclose on POSIX systems and
// LoadLibraryW/GetProcAddress/FreeLibrary on Windows.
//
// Nothing in this package tracks lifetimes. Addresses returned by [Symbol] are
// only valid until the [Handle] they were resolved from is passed to [Free];
// the decan package builds the safe API on top of it.
package raw

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DataDog/go-decan/decanerrors"
	"github.com/DataDog/go-decan/internal/log"
)

// Handle is an opaque reference to an open dynamic library.
type Handle uintptr

// Flags is the dlopen mode used on POSIX systems. It is ignored on Windows.
type Flags int

// DefaultFlags requests global visibility and lazy binding: symbols of the
// library are available to the libraries loaded after it, and undefined symbols
// are bound on first use.
const DefaultFlags = Global | Lazy

// AddressInfo describes the library image containing an address.
type AddressInfo struct {
	// LibraryPath is the path of the library containing the address.
	LibraryPath string `json:"library_path"`
	// LibraryBase is the address the library is mapped at.
	LibraryBase uintptr `json:"library_base"`
	// SymbolName is the name of the nearest exported symbol, if any.
	SymbolName string `json:"symbol_name,omitempty"`
	// SymbolAddr is the address of the nearest exported symbol, if any.
	SymbolAddr uintptr `json:"symbol_addr,omitempty"`
}

// Load opens the library at path with [DefaultFlags].
func Load(path string) (Handle, error) {
	return LoadWithFlags(path, DefaultFlags)
}

// LoadWithFlags opens the library at path. Paths containing a separator are made
// absolute so they do not depend on the loader's search rules; bare file names
// are handed as-is to the platform's library search.
//
// Errors are of type [*decanerrors.LoadError].
func LoadWithFlags(path string, flags Flags) (Handle, error) {
	native, err := nativePath(path)
	if err != nil {
		return 0, &decanerrors.LoadError{Kind: decanerrors.LoadErrorPathEncoding, Path: path, Err: err}
	}

	log.Tracef("Load(%q, 0x%x)", native, int(flags))
	handle, err := loadLibrary(native, flags)
	log.Tracef("Load(%q, 0x%x) = 0x%x, %v", native, int(flags), uintptr(handle), err)
	if err != nil {
		return 0, &decanerrors.LoadError{Kind: decanerrors.LoadErrorOS, Path: path, Err: err}
	}
	return handle, nil
}

// Symbol resolves name in the library behind handle. A nil error with a zero
// address means the export exists and its value is the null address; callers
// that cannot accept null must check for it themselves.
//
// Errors are of type [*decanerrors.SymbolError].
func Symbol(handle Handle, name string) (uintptr, error) {
	if pos := strings.IndexByte(name, 0); pos >= 0 {
		return 0, &decanerrors.SymbolError{
			Kind:   decanerrors.SymbolErrorOS,
			Symbol: name,
			Err:    fmt.Errorf("unexpected NUL byte at position %d", pos),
		}
	}

	log.Tracef("Symbol(0x%x, %q)", uintptr(handle), name)
	addr, err := getSymbol(handle, name)
	log.Tracef("Symbol(0x%x, %q) = 0x%x, %v", uintptr(handle), name, addr, err)
	if err != nil {
		return 0, &decanerrors.SymbolError{Kind: decanerrors.SymbolErrorOS, Symbol: name, Err: err}
	}
	return addr, nil
}

// Free releases the library behind handle. A failure of the underlying OS call
// leaves the process in an unknown state and panics.
func Free(handle Handle) {
	log.Tracef("Free(0x%x)", uintptr(handle))
	if err := releaseLibrary(handle); err != nil {
		log.Errorf("Free(0x%x) = %v", uintptr(handle), err)
		panic(fmt.Sprintf("decan: failed to release library handle 0x%x: %v", uintptr(handle), err))
	}
}

// AddressOf describes the library image containing addr. The boolean is false
// when the address does not belong to any loaded image or when the platform
// cannot tell.
func AddressOf(addr uintptr) (AddressInfo, bool) {
	if addr == 0 {
		return AddressInfo{}, false
	}
	return addressOf(addr)
}

// releaseLibrary is replaced in tests.
var releaseLibrary = freeLibrary

var errNulInPath = errors.New("path contains a NUL byte")

func nativePath(path string) (string, error) {
	if pos := strings.IndexByte(path, 0); pos >= 0 {
		return "", fmt.Errorf("%w at position %d", errNulInPath, pos)
	}
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}
	if !strings.ContainsAny(path, `/`+string(filepath.Separator)) {
		// Bare file name: let the platform search its library path.
		return path, nil
	}
	return filepath.Abs(path)
}
