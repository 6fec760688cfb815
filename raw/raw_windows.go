// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build windows && (amd64 || arm64 || 386)

package raw

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// The dlopen mode has no Windows equivalent.
const (
	// Lazy has no effect on Windows.
	Lazy Flags = 0
	// Now has no effect on Windows.
	Now Flags = 0
	// Global has no effect on Windows.
	Global Flags = 0
	// Local has no effect on Windows.
	Local Flags = 0
)

// Default returns the handle of the process executable. It must never be
// passed to [Free].
func Default() Handle {
	var h windows.Handle
	if err := windows.GetModuleHandleEx(windows.GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT, nil, &h); err != nil {
		return 0
	}
	return Handle(h)
}

// loadLibrary goes through LoadLibraryW: the path is converted to UTF-16.
func loadLibrary(path string, _ Flags) (Handle, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return Handle(handle), nil
}

func getSymbol(handle Handle, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(handle), name)
}

func freeLibrary(handle Handle) error {
	return windows.FreeLibrary(windows.Handle(handle))
}

// addressOf cannot report exported symbol names on Windows without parsing the
// image's export directory, so only the module is described.
func addressOf(addr uintptr) (AddressInfo, bool) {
	var module windows.Handle
	// We take the address and then dereference it to trick go vet from creating a possible misuse of unsafe.Pointer
	name := *(**uint16)(unsafe.Pointer(&addr))
	flags := uint32(windows.GET_MODULE_HANDLE_EX_FLAG_FROM_ADDRESS | windows.GET_MODULE_HANDLE_EX_FLAG_UNCHANGED_REFCOUNT)
	if err := windows.GetModuleHandleEx(flags, name, &module); err != nil {
		return AddressInfo{}, false
	}

	buf := make([]uint16, windows.MAX_LONG_PATH)
	n, err := windows.GetModuleFileName(module, &buf[0], uint32(len(buf)))
	if err != nil {
		return AddressInfo{}, false
	}

	return AddressInfo{
		LibraryPath: windows.UTF16ToString(buf[:n]),
		LibraryBase: uintptr(module),
	}, true
}
