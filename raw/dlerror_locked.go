// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build (freebsd || netbsd) && (amd64 || arm64)

package raw

import (
	"runtime"
	"sync"
)

// dlerror() is not guaranteed to be thread-local here, so every loader call and
// its paired error read are serialized process-wide.
var dlMu sync.Mutex

func withDlerrorLock(f func()) {
	dlMu.Lock()
	defer dlMu.Unlock()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	f()
}
