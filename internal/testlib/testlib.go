// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package testlib builds the native library the tests load symbols from.
package testlib

import (
	_ "embed"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

//go:embed testdata/testlib.c
var source []byte

// Greeting is the message print_message writes to stdout.
const Greeting = "Hello from the decan test library"

// Build compiles the test library into a temporary directory and returns its
// path. The test is skipped when the target has no C compiler.
//
// The library exports:
//
//	int print_count;               // incremented by print_message
//	const char *greeting;
//	void print_message(void);
//	int square_int(int);
//	double add_doubles(double, double);
//	long sum_six(long, long, long, long, long, long);
//	null_symbol                    // absolute symbol with the value 0
func Build(tb testing.TB) string {
	tb.Helper()

	switch runtime.GOOS {
	case "linux", "darwin", "freebsd", "netbsd":
	default:
		tb.Skipf("building the test library is not supported on %s", runtime.GOOS)
	}

	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	if _, err := exec.LookPath(cc); err != nil {
		tb.Skipf("no C compiler available: %v", err)
	}

	dir := tb.TempDir()
	src := filepath.Join(dir, "testlib.c")
	if err := os.WriteFile(src, source, 0o600); err != nil {
		tb.Fatalf("error writing test library source: %v", err)
	}

	lib := filepath.Join(dir, "libdecantest"+Ext())
	cmd := exec.Command(cc, "-shared", "-fPIC", "-o", lib, src)
	if out, err := cmd.CombinedOutput(); err != nil {
		tb.Fatalf("error building test library: %v\n%s", err, out)
	}
	return lib
}

// Ext is the file extension of shared libraries on the current platform.
func Ext() string {
	switch runtime.GOOS {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}
