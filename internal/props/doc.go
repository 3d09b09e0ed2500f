// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package props implements the property context: a stack of scopes mapping
// property names to resolved scalar values.
//
// A scope is created for every script invocation. Lookup walks from the
// innermost scope outward and returns the first binding found, with one
// restriction: a binding declared with exported=false is visible only inside
// the scope that declared it, so scripts invoked via `exec` never inherit it.
//
// The context also implements `${name}` substitution over plain text, with a
// configurable policy for names that do not resolve: fail (the default),
// collapse to the empty string, or leave the reference as written. The
// non-failing policies exist for decorative text in batch runs; script
// expressions always fail hard on an unresolved name.
package props
