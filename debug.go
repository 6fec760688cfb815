// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

//go:build decan.debug

package decan

import "github.com/DataDog/go-decan/internal/log"

func init() {
	log.SetLevel(log.LevelDebug)
}
