// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decan

import "github.com/DataDog/go-decan/internal/support"

// Usable returns true if dynamic libraries can be loaded on the current target,
// false and an error explaining why otherwise.
func Usable() (bool, error) {
	err := support.SupportErrors()
	return err == nil, err
}
