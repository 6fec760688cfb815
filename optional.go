// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import (
	"errors"

	"github.com/DataDog/go-decan/decanerrors"
	"github.com/DataDog/go-decan/internal/log"
	"github.com/DataDog/go-decan/raw"
)

// Optional is a symbol group whose loading always succeeds: if G cannot be
// resolved, the Optional is absent instead of failing the enclosing group.
//
// The reason G was absent is kept and available from [Optional.Cause]. Groups
// with an invalid definition are not optional and still fail.
type Optional[G any] struct {
	group   G
	present bool
	cause   error
}

// Get returns the group and whether it is present.
func (o *Optional[G]) Get() (*G, bool) {
	if !o.present {
		return nil, false
	}
	return &o.group, true
}

// Present reports whether the group was resolved.
func (o *Optional[G]) Present() bool {
	return o.present
}

// Cause returns the error which made the group absent, or nil.
func (o *Optional[G]) Cause() error {
	return o.cause
}

// LoadGroup implements [GroupLoader].
func (o *Optional[G]) LoadGroup(handle raw.Handle) error {
	var group G
	if err := loadGroupInto(handle, &group); err != nil {
		var invalid *decanerrors.InvalidGroupError
		if errors.As(err, &invalid) {
			return err
		}
		log.Debugf("optional symbol group %s is absent: %v", typeName[G](), err)
		*o = Optional[G]{cause: err}
		return nil
	}
	*o = Optional[G]{group: group, present: true}
	return nil
}

// describe exposes the group to [Describe].
func (o *Optional[G]) describe() (any, bool, error) {
	if !o.present {
		return nil, false, o.cause
	}
	return &o.group, true, nil
}
