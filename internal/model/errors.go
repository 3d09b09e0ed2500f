// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "fmt"

// TypeConflictError reports a contribution whose node kind disagrees with
// the node already present at the path.
type TypeConflictError struct {
	Path        string
	Existing    Kind
	Contributed Kind
}

func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("type conflict at %q: existing %s node, contributed %s", e.Path, e.Existing, e.Contributed)
}

// ConflictingValueError reports a duplicate value contribution at an
// occupied path that was not marked `replace`.
type ConflictingValueError struct {
	Path string
}

func (e *ConflictingValueError) Error() string {
	return fmt.Sprintf("conflicting value contribution at %q (a value is already present; mark the contribution `replace` to overwrite)", e.Path)
}
