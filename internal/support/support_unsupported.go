// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Build when the target OS or architecture are not supported
//go:build !(((linux || darwin || freebsd || netbsd) && (amd64 || arm64)) || (windows && (amd64 || arm64 || 386)))

package support

import (
	"runtime"

	"github.com/DataDog/go-decan/decanerrors"
)

func init() {
	supportErrors = append(supportErrors, decanerrors.UnsupportedOSArchError{OS: runtime.GOOS, Arch: runtime.GOARCH})
}
