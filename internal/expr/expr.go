// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package expr evaluates the two expression forms that appear in script
// documents: deferred HCL value expressions (input defaults, preset values,
// model contributions) and if/unless guard conjunctions.
package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/archetype/internal/props"
	"github.com/zclconf/go-cty/cty"
)

// EvalContext builds an hcl.EvalContext exposing the visible properties of
// the given context as top-level variables.
func EvalContext(pc *props.Context) *hcl.EvalContext {
	return &hcl.EvalContext{Variables: pc.Variables()}
}

// Eval resolves a deferred value expression against the property context.
// A reference to a name with no visible binding yields an
// UnresolvedPropertyError; script expressions always fail hard regardless of
// the substitution policy.
func Eval(e hcl.Expression, pc *props.Context) (cty.Value, error) {
	// Check the referenced roots up front so a missing name surfaces as the
	// typed error with a suggestion, not a generic HCL diagnostic.
	for _, traversal := range e.Variables() {
		root := traversal.RootName()
		if !pc.Declared(root) {
			return cty.NilVal, &props.UnresolvedPropertyError{
				Name:       root,
				Suggestion: nearest(root, pc),
			}
		}
	}

	val, diags := e.Value(EvalContext(pc))
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("expression evaluation failed: %w", diags)
	}
	return val, nil
}

// EvalString resolves a deferred expression and converts it to a string.
func EvalString(e hcl.Expression, pc *props.Context) (string, error) {
	val, err := Eval(e, pc)
	if err != nil {
		return "", err
	}
	return props.AsString(val)
}

// Guard evaluates an if/unless guard pair. The step executes when every `if`
// term holds and the `unless` conjunction (if present) does not. Evaluation
// short-circuits on the first failing term. A term naming an undeclared
// property is an error, never silently false.
func Guard(ifTerms, unlessTerms []string, pc *props.Context) (bool, error) {
	for _, term := range ifTerms {
		holds, err := evalTerm(term, pc)
		if err != nil {
			return false, err
		}
		if !holds {
			return false, nil
		}
	}

	if len(unlessTerms) > 0 {
		all := true
		for _, term := range unlessTerms {
			holds, err := evalTerm(term, pc)
			if err != nil {
				return false, err
			}
			if !holds {
				all = false
				break
			}
		}
		if all {
			return false, nil
		}
	}

	return true, nil
}

// evalTerm evaluates one guard term: a bare property name, or a name
// prefixed with `!` for negation.
func evalTerm(term string, pc *props.Context) (bool, error) {
	negated := false
	name := term
	if strings.HasPrefix(term, "!") {
		negated = true
		name = strings.TrimPrefix(term, "!")
	}

	v, err := pc.Resolve(name)
	if err != nil {
		return false, err
	}

	holds := props.Truthy(v)
	if negated {
		holds = !holds
	}
	return holds, nil
}

func nearest(name string, pc *props.Context) string {
	_, err := pc.Resolve(name)
	var unresolved *props.UnresolvedPropertyError
	if errors.As(err, &unresolved) {
		return unresolved.Suggestion
	}
	return ""
}
