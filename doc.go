// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package decan loads native dynamic libraries and resolves typed symbols from
// them without letting a symbol outlive the library that produced it.
//
// Symbols are resolved into one of a closed set of types: [Ptr] and [NonNull]
// for exported data, [Func] and [OptionalFunc] for exported functions. Symbols
// are usually resolved together as a symbol group, a struct describing the
// library's exports, which loads as a single all-or-nothing unit.
//
// Two lifetime strategies are available:
//
//   - borrowed: [BorrowSymbol] and [BorrowGroup] return references which keep
//     the [Library] loaded until they are released;
//   - owned: a [Can] fuses a [Library] and its resolved group into one value
//     that is closed as a whole.
//
// Nothing here can verify that the declared types match the library's actual
// exports: that remains the caller's responsibility.
package decan
