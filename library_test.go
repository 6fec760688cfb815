// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/DataDog/go-decan/decanerrors"
	"github.com/DataDog/go-decan/raw"
	"github.com/stretchr/testify/require"
)

const fakeHandle = raw.Handle(0xdeca)

func TestLibraryClose(t *testing.T) {
	t.Run("owned", func(t *testing.T) {
		freed := withFakeFree(t)
		lib := newLibrary(fakeHandle, "libfake.so", true)

		require.NoError(t, lib.Close())
		require.Equal(t, 1, freed.count(fakeHandle))

		require.ErrorIs(t, lib.Close(), decanerrors.ErrLibraryClosed)
		require.Equal(t, 1, freed.count(fakeHandle))
	})

	t.Run("wrapped", func(t *testing.T) {
		freed := withFakeFree(t)
		lib := WrapRaw(fakeHandle)
		require.False(t, lib.Owned())
		require.Empty(t, lib.Path())
		require.Equal(t, fakeHandle, lib.Raw())

		require.NoError(t, lib.Close())
		require.Zero(t, freed.count(fakeHandle))
	})

	t.Run("concurrent", func(t *testing.T) {
		freed := withFakeFree(t)
		lib := newLibrary(fakeHandle, "libfake.so", true)

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			closed int
		)
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if lib.Close() == nil {
					mu.Lock()
					closed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 1, closed)
		require.Equal(t, 1, freed.count(fakeHandle))
	})
}

func TestBorrow(t *testing.T) {
	value := int32(7)
	addr := uintptr(unsafe.Pointer(&value))

	t.Run("symbol outlives close", func(t *testing.T) {
		withFakeSymbols(t, map[string]uintptr{"value": addr})
		freed := withFakeFree(t)
		lib := newLibrary(fakeHandle, "libfake.so", true)

		ref, err := BorrowSymbol[NonNull[int32]](lib, "value")
		require.NoError(t, err)
		require.Same(t, lib, ref.Library())

		require.NoError(t, lib.Close())
		require.Zero(t, freed.count(fakeHandle))
		require.Equal(t, int32(7), *ref.Get().Get())

		ref.Release()
		require.Equal(t, 1, freed.count(fakeHandle))
		require.PanicsWithValue(t, decanerrors.ErrLibraryClosed, func() { ref.Get() })

		ref.Release()
		require.Equal(t, 1, freed.count(fakeHandle))
	})

	t.Run("group outlives close", func(t *testing.T) {
		withFakeSymbols(t, map[string]uintptr{"x": addr})
		freed := withFakeFree(t)
		lib := newLibrary(fakeHandle, "libfake.so", true)

		ref, err := BorrowGroup[innerGroup](lib)
		require.NoError(t, err)

		require.NoError(t, lib.Close())
		require.Zero(t, freed.count(fakeHandle))
		require.Equal(t, &value, ref.Get().X.Get())

		ref.Release()
		require.Equal(t, 1, freed.count(fakeHandle))
		require.PanicsWithValue(t, decanerrors.ErrLibraryClosed, func() { ref.Get() })
	})

	t.Run("concurrent get and release", func(t *testing.T) {
		withFakeSymbols(t, map[string]uintptr{"value": addr})
		freed := withFakeFree(t)
		lib := newLibrary(fakeHandle, "libfake.so", true)

		ref, err := BorrowSymbol[NonNull[int32]](lib, "value")
		require.NoError(t, err)
		require.NoError(t, lib.Close())

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { _ = recover() }()
				_ = ref.Get().Addr()
			}()
		}
		ref.Release()
		wg.Wait()

		require.Equal(t, 1, freed.count(fakeHandle))
	})

	t.Run("closed library", func(t *testing.T) {
		withFakeSymbols(t, map[string]uintptr{"value": addr, "x": addr})
		withFakeFree(t)
		lib := newLibrary(fakeHandle, "libfake.so", true)
		require.NoError(t, lib.Close())

		_, err := BorrowSymbol[Ptr[int32]](lib, "value")
		require.ErrorIs(t, err, decanerrors.ErrLibraryClosed)

		_, err = BorrowGroup[innerGroup](lib)
		require.ErrorIs(t, err, decanerrors.ErrLibraryClosed)
	})

	t.Run("failed borrow releases", func(t *testing.T) {
		withFakeSymbols(t, map[string]uintptr{})
		freed := withFakeFree(t)
		lib := newLibrary(fakeHandle, "libfake.so", true)

		_, err := BorrowSymbol[Ptr[int32]](lib, "missing")
		require.Error(t, err)
		_, err = BorrowGroup[innerGroup](lib)
		require.Error(t, err)

		require.NoError(t, lib.Close())
		require.Equal(t, 1, freed.count(fakeHandle))
	})
}

func TestCan(t *testing.T) {
	value := int32(7)
	addr := uintptr(unsafe.Pointer(&value))

	t.Run("close", func(t *testing.T) {
		withFakeSymbols(t, map[string]uintptr{"x": addr})
		freed := withFakeFree(t)

		can, err := NewCan[innerGroup](newLibrary(fakeHandle, "libfake.so", true))
		require.NoError(t, err)
		require.Equal(t, fakeHandle, can.Raw())
		require.Equal(t, &value, can.Symbols().X.Get())

		require.NoError(t, can.Close())
		require.Equal(t, 1, freed.count(fakeHandle))
		require.PanicsWithValue(t, decanerrors.ErrLibraryClosed, func() { can.Symbols() })
		require.ErrorIs(t, can.Close(), decanerrors.ErrLibraryClosed)
		require.Equal(t, 1, freed.count(fakeHandle))
	})

	t.Run("failure closes the library", func(t *testing.T) {
		withFakeSymbols(t, map[string]uintptr{})
		freed := withFakeFree(t)
		lib := newLibrary(fakeHandle, "libfake.so", true)

		_, err := NewCan[innerGroup](lib)
		require.Error(t, err)
		require.Equal(t, 1, freed.count(fakeHandle))
		require.ErrorIs(t, lib.Close(), decanerrors.ErrLibraryClosed)
	})

	t.Run("borrow from can", func(t *testing.T) {
		withFakeSymbols(t, map[string]uintptr{"x": addr})
		freed := withFakeFree(t)

		can, err := NewCan[innerGroup](newLibrary(fakeHandle, "libfake.so", true))
		require.NoError(t, err)

		ref, err := BorrowSymbol[NonNull[int32]](can.Library(), "x")
		require.NoError(t, err)
		require.NoError(t, can.Close())
		require.Zero(t, freed.count(fakeHandle))

		ref.Release()
		require.Equal(t, 1, freed.count(fakeHandle))
	})

	t.Run("library closed directly", func(t *testing.T) {
		withFakeSymbols(t, map[string]uintptr{"x": addr})
		freed := withFakeFree(t)

		can, err := NewCan[innerGroup](newLibrary(fakeHandle, "libfake.so", true))
		require.NoError(t, err)

		require.NoError(t, can.Library().Close())
		require.Zero(t, freed.count(fakeHandle))
		require.Equal(t, &value, can.Symbols().X.Get())

		require.NoError(t, can.Close())
		require.Equal(t, 1, freed.count(fakeHandle))
		require.PanicsWithValue(t, decanerrors.ErrLibraryClosed, func() { can.Symbols() })
	})

	t.Run("closed library", func(t *testing.T) {
		withFakeFree(t)
		lib := newLibrary(fakeHandle, "libfake.so", true)
		require.NoError(t, lib.Close())

		_, err := NewCan[innerGroup](lib)
		require.ErrorIs(t, err, decanerrors.ErrLibraryClosed)
	})

	t.Run("load error", func(t *testing.T) {
		_, err := LoadCan[innerGroup]("bad\x00path")
		require.Error(t, err)

		var loadErr *decanerrors.LoadOrGroupError
		require.ErrorAs(t, err, &loadErr)
		require.Equal(t, decanerrors.PhaseLoad, loadErr.Phase())
		require.Equal(t, decanerrors.LoadErrorPathEncoding, loadErr.Load.Kind)
	})
}
