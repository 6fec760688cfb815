// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/pkg/errors"
)

// PanicError is reported when purego rejects a Go function type while binding
// a [Func] or [OptionalFunc]. It is wrapped in a [*decanerrors.SymbolError] of
// kind SymbolErrorSignature.
type PanicError struct {
	// In is the binding call that panicked.
	In func() error
	// Err is the recovered panic value.
	Err error
}

func (e *PanicError) Unwrap() error {
	return e.Err
}

func (e *PanicError) Error() string {
	name := runtime.FuncForPC(reflect.ValueOf(e.In).Pointer()).Name()
	return fmt.Sprintf("panic while executing %s: %v", name, e.Err)
}

// tryCall runs f and turns a panic into a [*PanicError]. Error values get a
// stack trace attached.
func tryCall(f func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		var cause error
		switch actual := r.(type) {
		case error:
			cause = errors.WithStack(actual)
		case string:
			cause = errors.New(actual)
		default:
			cause = errors.Errorf("%v", r)
		}
		err = &PanicError{In: f, Err: cause}
	}()
	return f()
}
