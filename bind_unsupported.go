// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Build when the target OS or architecture are not supported
//go:build !(((linux || darwin || freebsd || netbsd) && (amd64 || arm64)) || (windows && (amd64 || arm64 || 386)))

package decan

import (
	"runtime"

	"github.com/DataDog/go-decan/decanerrors"
)

func bindFunc[F any](_ *F, name string, _ uintptr) error {
	return &decanerrors.SymbolError{
		Kind:   decanerrors.SymbolErrorSignature,
		Symbol: name,
		Type:   typeName[F](),
		Err:    decanerrors.UnsupportedOSArchError{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}
}
