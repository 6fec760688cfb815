// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import (
	"sync/atomic"

	"github.com/DataDog/go-decan/decanerrors"
	"github.com/DataDog/go-decan/internal/log"
	"github.com/DataDog/go-decan/raw"
)

// Library owns an open dynamic library. It is obtained from [Open] (owning) or
// [WrapRaw] (non-owning), and must be disposed of by calling [Library.Close]
// once no longer in use.
//
// A Library may be shared between goroutines: resolving symbols does not
// mutate it.
type Library struct {
	// The owner holds one reference, dropped by [Library.Close]. Every
	// [SymbolRef], [GroupRef] and [Can] holds one more. The OS handle is freed
	// when the count reaches 0.
	refCounter atomic.Int32
	// closed is set by the first call to [Library.Close].
	closed atomic.Bool

	handle raw.Handle
	path   string
	owned  bool
}

// freeHandle is replaced in tests.
var freeHandle = raw.Free

// Option configures how a library is opened.
type Option func(*config)

type config struct {
	flags raw.Flags
}

// WithFlags overrides the dlopen mode, [raw.DefaultFlags] by default. It has no
// effect on Windows.
func WithFlags(flags raw.Flags) Option {
	return func(cfg *config) {
		cfg.flags = flags
	}
}

// Open loads the dynamic library at path.
//
// Errors are of type [*decanerrors.LoadError].
func Open(path string, opts ...Option) (*Library, error) {
	cfg := config{flags: raw.DefaultFlags}
	for _, opt := range opts {
		opt(&cfg)
	}

	handle, err := raw.LoadWithFlags(path, cfg.flags)
	if err != nil {
		return nil, err
	}
	return newLibrary(handle, path, true), nil
}

// WrapRaw wraps a handle whose lifetime is managed elsewhere, such as one owned
// by the host process. Closing the returned Library never releases handle.
func WrapRaw(handle raw.Handle) *Library {
	return newLibrary(handle, "", false)
}

// Self returns a non-owning Library searching the images already loaded in the
// process.
func Self() *Library {
	return WrapRaw(raw.Default())
}

func newLibrary(handle raw.Handle, path string, owned bool) *Library {
	lib := &Library{handle: handle, path: path, owned: owned}
	lib.refCounter.Store(1) // owner reference
	return lib
}

// Raw returns the OS handle, for use with the [raw] package or other APIs
// needing it. It must not be used after the Library is closed.
func (lib *Library) Raw() raw.Handle {
	return lib.handle
}

// Path returns the path the library was opened from, or "" for wrapped handles.
func (lib *Library) Path() string {
	return lib.path
}

// Owned reports whether closing the library releases the OS handle.
func (lib *Library) Owned() bool {
	return lib.owned
}

// Close drops the owner's reference to the library. The OS handle is released
// once every borrowed reference has been released too. Closing an already
// closed library returns [decanerrors.ErrLibraryClosed] and has no effect.
func (lib *Library) Close() error {
	if !lib.closed.CompareAndSwap(false, true) {
		return decanerrors.ErrLibraryClosed
	}
	lib.release()
	return nil
}

// retain takes a reference on behalf of a borrowed value or a [Can]. It fails
// once the owner closed the library, and every successful call must be paired
// with [Library.release].
func (lib *Library) retain() bool {
	if lib.closed.Load() {
		return false
	}
	return lib.addRefCounter(1) > 0
}

// release drops a reference and unloads an owned library when it was the last.
func (lib *Library) release() {
	if lib.addRefCounter(-1) != 0 {
		return
	}
	if !lib.owned {
		return
	}
	log.Debugf("releasing library %q", lib.path)
	freeHandle(lib.handle)
}

// addRefCounter adds x to the reference count and returns the new count, or -1
// when the library was already unloaded. The count never goes below zero, so
// exactly one caller observes 0 and frees the handle.
func (lib *Library) addRefCounter(x int32) int32 {
	for {
		current := lib.refCounter.Load()
		if current <= 0 {
			return -1
		}
		if next := current + x; lib.refCounter.CompareAndSwap(current, next) {
			return next
		}
	}
}
