// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build ((linux || darwin || freebsd || netbsd) && (amd64 || arm64)) || (windows && (amd64 || arm64 || 386))

package decan

import (
	"github.com/ebitengine/purego"

	"github.com/DataDog/go-decan/decanerrors"
)

// bindFunc turns addr into a Go function of type F. purego panics on types it
// cannot marshal, which is reported as a signature error.
func bindFunc[F any](fptr *F, name string, addr uintptr) error {
	err := tryCall(func() error {
		purego.RegisterFunc(fptr, addr)
		return nil
	})
	if err != nil {
		return &decanerrors.SymbolError{
			Kind:   decanerrors.SymbolErrorSignature,
			Symbol: name,
			Type:   typeName[F](),
			Err:    err,
		}
	}
	return nil
}
