// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package support

import "errors"

// Store all the errors related to why dynamic loading is unavailable for the
// current target at runtime.
var supportErrors []error

// SupportErrors returns all the errors related to why dynamic loading is
// unavailable for the current target, joined into one value. Returns nil when
// the target is supported.
func SupportErrors() error {
	return errors.Join(supportErrors...)
}
