// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package interp

import (
	"fmt"
	"strings"
)

// CyclicScriptReferenceError reports an exec of a script that is already on
// the interpreter's stack. This is an authoring error and is never retried.
type CyclicScriptReferenceError struct {
	Ref   string
	Stack []string
}

func (e *CyclicScriptReferenceError) Error() string {
	return fmt.Sprintf("cyclic script reference: %q is already executing (stack: %s)", e.Ref, strings.Join(e.Stack, " -> "))
}

// InvalidInputValueError reports a supplied input value outside the
// declared choice set, or one that cannot be parsed for the input's type.
type InvalidInputValueError struct {
	Name    string
	Value   string
	Choices []string
}

func (e *InvalidInputValueError) Error() string {
	if len(e.Choices) > 0 {
		return fmt.Sprintf("invalid value %q for input %q: allowed choices are %s", e.Value, e.Name, strings.Join(e.Choices, ", "))
	}
	return fmt.Sprintf("invalid value %q for input %q", e.Value, e.Name)
}

// StepError attributes a failure to the script reference and step index
// where it originated, so a catalog author can locate the offending
// declaration. Step is the zero-based position in the document.
type StepError struct {
	Script string
	Step   int
	Kind   string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("script %q, step %d (%s): %v", e.Script, e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
