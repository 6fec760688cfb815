// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import (
	"fmt"
	"sync"
	"testing"

	"github.com/DataDog/go-decan/decanerrors"
	"github.com/DataDog/go-decan/raw"
)

// fakeSymbols replaces the OS symbol lookup for the duration of the test. Names
// missing from symbols fail like an undefined export would.
type fakeSymbols struct {
	mu      sync.Mutex
	symbols map[string]uintptr
	calls   []string
}

func withFakeSymbols(t *testing.T, symbols map[string]uintptr) *fakeSymbols {
	t.Helper()

	fake := &fakeSymbols{symbols: symbols}
	prev := lookupSymbol
	lookupSymbol = fake.lookup
	t.Cleanup(func() { lookupSymbol = prev })
	return fake
}

func (f *fakeSymbols) lookup(_ raw.Handle, name string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, name)
	addr, ok := f.symbols[name]
	if !ok {
		return 0, &decanerrors.SymbolError{
			Kind:   decanerrors.SymbolErrorOS,
			Symbol: name,
			Err:    fmt.Errorf("undefined symbol: %s", name),
		}
	}
	return addr, nil
}

func (f *fakeSymbols) lookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakeFree replaces the OS library release for the duration of the test and
// counts the releases per handle.
type fakeFree struct {
	mu    sync.Mutex
	freed map[raw.Handle]int
}

func withFakeFree(t *testing.T) *fakeFree {
	t.Helper()

	fake := &fakeFree{freed: make(map[raw.Handle]int)}
	prev := freeHandle
	freeHandle = func(handle raw.Handle) {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		fake.freed[handle]++
	}
	t.Cleanup(func() { freeHandle = prev })
	return fake
}

func (f *fakeFree) count(handle raw.Handle) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.freed[handle]
}
