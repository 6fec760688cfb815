// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build (linux || darwin) && (amd64 || arm64)

package raw

import "runtime"

// withDlerrorLock runs f pinned to the current OS thread. dlerror() is
// thread-local on these systems, so the only requirement is that the loader
// call and its error read happen on the same thread.
func withDlerrorLock(f func()) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	f()
}
