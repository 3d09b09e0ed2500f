// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package props

import (
	"regexp"
	"strings"
)

// refPattern matches a ${name} reference. Property names follow the same
// shape the script decoder accepts for input and preset labels.
var refPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_.-]*)\}`)

// Substitute replaces every ${name} reference in text using Resolve. An
// unresolved name is handled according to the context's policy: PolicyFail
// returns the UnresolvedPropertyError, PolicyEmpty collapses the reference,
// PolicyKeep leaves it as written.
func (c *Context) Substitute(text string) (string, error) {
	matches := refPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var out strings.Builder
	out.Grow(len(text))
	last := 0
	for _, m := range matches {
		out.WriteString(text[last:m[0]])
		last = m[1]
		name := text[m[2]:m[3]]

		v, err := c.Resolve(name)
		if err != nil {
			switch c.policy {
			case PolicyEmpty:
				continue
			case PolicyKeep:
				out.WriteString(text[m[0]:m[1]])
				continue
			default:
				return "", err
			}
		}

		s, err := AsString(v)
		if err != nil {
			return "", err
		}
		out.WriteString(s)
	}
	out.WriteString(text[last:])
	return out.String(), nil
}
