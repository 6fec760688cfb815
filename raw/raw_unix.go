// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build (linux || darwin || freebsd || netbsd) && (amd64 || arm64)

package raw

import (
	"errors"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

const (
	// Lazy binds undefined symbols on first use.
	Lazy Flags = purego.RTLD_LAZY
	// Now binds every undefined symbol when the library is loaded.
	Now Flags = purego.RTLD_NOW
	// Global makes the library's symbols available to libraries loaded after it.
	Global Flags = purego.RTLD_GLOBAL
	// Local keeps the library's symbols private to it.
	Local Flags = purego.RTLD_LOCAL
)

// Default returns the pseudo-handle searching every image already loaded in
// the process. It must never be passed to [Free].
func Default() Handle {
	return Handle(purego.RTLD_DEFAULT)
}

// dlerror is bound lazily so pending errors can be cleared before dlsym.
var (
	dlerrorOnce sync.Once
	dlerror     func() uintptr
)

func clearDlerror() {
	dlerrorOnce.Do(func() {
		sym, err := purego.Dlsym(purego.RTLD_DEFAULT, "dlerror")
		if err != nil || sym == 0 {
			return
		}
		purego.RegisterFunc(&dlerror, sym)
	})
	if dlerror != nil {
		_ = dlerror()
	}
}

func loadLibrary(path string, flags Flags) (handle Handle, err error) {
	withDlerrorLock(func() {
		var h uintptr
		h, err = purego.Dlopen(path, int(flags))
		handle = Handle(h)
	})
	return handle, err
}

func getSymbol(handle Handle, name string) (addr uintptr, err error) {
	withDlerrorLock(func() {
		clearDlerror()
		addr, err = purego.Dlsym(uintptr(handle), name)
	})
	if err != nil {
		var dlErr purego.Dlerror
		if errors.As(err, &dlErr) && dlErr.Error() == "" {
			// dlsym returned NULL without reporting an error: the export exists
			// and its value is NULL.
			return 0, nil
		}
		return 0, err
	}
	return addr, nil
}

func freeLibrary(handle Handle) (err error) {
	withDlerrorLock(func() {
		err = purego.Dlclose(uintptr(handle))
	})
	return err
}

// dlInfo replicates the definition of `Dl_info` from `dlfcn.h`.
type dlInfo struct {
	fname uintptr // const char *
	fbase uintptr // void *
	sname uintptr // const char *
	saddr uintptr // void *
}

var (
	dladdrOnce sync.Once
	dladdr     func(addr uintptr, info *dlInfo) int32
)

func addressOf(addr uintptr) (AddressInfo, bool) {
	dladdrOnce.Do(func() {
		sym, err := purego.Dlsym(purego.RTLD_DEFAULT, "dladdr")
		if err != nil || sym == 0 {
			return
		}
		purego.RegisterFunc(&dladdr, sym)
	})
	if dladdr == nil {
		return AddressInfo{}, false
	}

	var info dlInfo
	if dladdr(addr, &info) == 0 {
		return AddressInfo{}, false
	}

	return AddressInfo{
		LibraryPath: gostring(info.fname),
		LibraryBase: info.fbase,
		SymbolName:  gostring(info.sname),
		SymbolAddr:  info.saddr,
	}, true
}

// gostring copies a char* to a Go string.
func gostring(c uintptr) string {
	// We take the address and then dereference it to trick go vet from creating a possible misuse of unsafe.Pointer
	ptr := *(**byte)(unsafe.Pointer(&c))
	return unix.BytePtrToString(ptr)
}
