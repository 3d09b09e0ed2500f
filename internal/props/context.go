// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package props

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Policy controls how Substitute treats a `${name}` reference that does not
// resolve to a visible binding.
type Policy int

const (
	// PolicyFail makes an unresolved reference an error. The default.
	PolicyFail Policy = iota
	// PolicyEmpty collapses an unresolved reference to the empty string.
	PolicyEmpty
	// PolicyKeep leaves an unresolved reference exactly as written.
	PolicyKeep
)

type binding struct {
	value    cty.Value
	exported bool
}

type scope map[string]*binding

// Context is the property context for one generation run: an ordered stack
// of scopes. It is owned by a single run and is not safe for concurrent use.
type Context struct {
	scopes []scope
	policy Policy
}

// New returns a Context holding only the root scope.
func New(policy Policy) *Context {
	return &Context{
		scopes: []scope{make(scope)},
		policy: policy,
	}
}

// Policy returns the substitution not-found policy configured for the run.
func (c *Context) Policy() Policy { return c.policy }

// Push creates a new innermost scope. Called when entering an exec step.
func (c *Context) Push() {
	c.scopes = append(c.scopes, make(scope))
}

// Pop destroys the innermost scope. Popping the root scope is a programming
// error, not a user-recoverable condition.
func (c *Context) Pop() {
	if len(c.scopes) == 1 {
		panic("props: Pop on root scope")
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// Depth returns the number of live scopes. The root scope counts as one.
func (c *Context) Depth() int { return len(c.scopes) }

// Declare binds a name in the innermost scope.
func (c *Context) Declare(name string, value cty.Value, exported bool) error {
	top := c.scopes[len(c.scopes)-1]
	if _, exists := top[name]; exists {
		return &DuplicateDeclarationError{Name: name}
	}
	top[name] = &binding{value: value, exported: exported}
	return nil
}

// Resolve walks the scopes innermost to outermost and returns the first
// visible binding. Non-exported bindings in outer scopes are skipped: they
// are visible only within the scope that declared them.
func (c *Context) Resolve(name string) (cty.Value, error) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		b, ok := c.scopes[i][name]
		if !ok {
			continue
		}
		if i < len(c.scopes)-1 && !b.exported {
			continue
		}
		return b.value, nil
	}
	return cty.NilVal, &UnresolvedPropertyError{
		Name:       name,
		Suggestion: nearestName(name, c.VisibleNames()),
	}
}

// Declared reports whether a name currently resolves to a visible binding.
func (c *Context) Declared(name string) bool {
	_, err := c.Resolve(name)
	return err == nil
}

// VisibleNames returns the sorted set of names Resolve would find.
func (c *Context) VisibleNames() []string {
	seen := make(map[string]struct{})
	for i := len(c.scopes) - 1; i >= 0; i-- {
		for name, b := range c.scopes[i] {
			if i < len(c.scopes)-1 && !b.exported {
				continue
			}
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variables exports the visible bindings as a cty variable map, suitable for
// an hcl.EvalContext. Shadowing follows Resolve.
func (c *Context) Variables() map[string]cty.Value {
	vars := make(map[string]cty.Value)
	for _, name := range c.VisibleNames() {
		v, err := c.Resolve(name)
		if err != nil {
			continue
		}
		vars[name] = v
	}
	return vars
}

// Truthy reports whether a resolved value satisfies a bare guard term:
// the boolean true, or a non-empty string (a selected choice).
func Truthy(v cty.Value) bool {
	if v.IsNull() {
		return false
	}
	switch v.Type() {
	case cty.Bool:
		return v.True()
	case cty.String:
		return v.AsString() != ""
	default:
		return false
	}
}

// AsString converts a resolved scalar to its string form.
func AsString(v cty.Value) (string, error) {
	converted, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	if converted.IsNull() {
		return "", nil
	}
	return converted.AsString(), nil
}
