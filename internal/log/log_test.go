// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package log

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelNamed(t *testing.T) {
	for name, expected := range map[string]Level{
		"trace":   LevelTrace,
		"DEBUG":   LevelDebug,
		" info ":  LevelInfo,
		"warn":    LevelWarning,
		"warning": LevelWarning,
		"error":   LevelError,
		"off":     LevelOff,
		"":        LevelOff,
		"bogus":   LevelOff,
	} {
		require.Equal(t, expected, LevelNamed(name), "level named %q", name)
	}
}

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	out := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(out)

	prev := Level(current.Load())
	defer SetLevel(prev)

	SetLevel(LevelDebug)
	Tracef("hidden %d", 1)
	Debugf("shown %d", 2)

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[DEBUG] decan: shown 2")

	SetLevel(LevelOff)
	Errorf("never")
	require.NotContains(t, buf.String(), "never")
}
