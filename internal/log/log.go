// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package log

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// EnvLevel is the environment variable read at startup to pick the log level.
const EnvLevel = "DECAN_LOG_LEVEL"

// Level is the verbosity of the library's logs.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelOff
)

var current atomic.Int32

func init() {
	current.Store(int32(LevelNamed(os.Getenv(EnvLevel))))
}

// LevelNamed returns the log level corresponding to the given name, or LevelOff
// if the name corresponds to no known log level.
func LevelNamed(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarning
	case "error":
		return LevelError
	case "off":
		return LevelOff
	default:
		return LevelOff
	}
}

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return fmt.Sprintf("0x%X", uintptr(l))
	}
}

// SetLevel changes the minimum level of emitted messages.
func SetLevel(l Level) {
	current.Store(int32(l))
}

// Enabled reports whether messages at level l are emitted.
func Enabled(l Level) bool {
	return l != LevelOff && l >= Level(current.Load())
}

func Tracef(format string, args ...any) { logf(LevelTrace, format, args...) }
func Debugf(format string, args ...any) { logf(LevelDebug, format, args...) }
func Warnf(format string, args ...any)  { logf(LevelWarning, format, args...) }
func Errorf(format string, args ...any) { logf(LevelError, format, args...) }

func logf(level Level, format string, args ...any) {
	if !Enabled(level) {
		return
	}
	log.Printf("[%-5s] decan: %s\n", level, fmt.Sprintf(format, args...))
}
