// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build !(((linux || darwin || freebsd || netbsd) && (amd64 || arm64)) || (windows && (amd64 || arm64 || 386)))

package decan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DataDog/go-decan/decanerrors"
)

func TestUsable(t *testing.T) {
	ok, err := Usable()
	require.False(t, ok)

	var unsupported decanerrors.UnsupportedOSArchError
	require.ErrorAs(t, err, &unsupported)

	_, err = Open("libdecan.so")
	require.ErrorAs(t, err, &unsupported)
}
