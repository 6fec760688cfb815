// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Build when the target OS or architecture are not supported
//go:build !(((linux || darwin || freebsd || netbsd) && (amd64 || arm64)) || (windows && (amd64 || arm64 || 386)))

package raw

import (
	"runtime"

	"github.com/DataDog/go-decan/decanerrors"
)

const (
	// Lazy has no effect on this target.
	Lazy Flags = 0
	// Now has no effect on this target.
	Now Flags = 0
	// Global has no effect on this target.
	Global Flags = 0
	// Local has no effect on this target.
	Local Flags = 0
)

var errUnsupported = decanerrors.UnsupportedOSArchError{OS: runtime.GOOS, Arch: runtime.GOARCH}

func Default() Handle {
	return 0
}

func loadLibrary(string, Flags) (Handle, error) {
	return 0, errUnsupported
}

func getSymbol(Handle, string) (uintptr, error) {
	return 0, errUnsupported
}

func freeLibrary(Handle) error {
	return nil
}

func addressOf(uintptr) (AddressInfo, bool) {
	return AddressInfo{}, false
}
