// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package props

import (
	"fmt"

	"github.com/agext/levenshtein"
)

// UnresolvedPropertyError reports a lookup for a name with no visible
// binding. Suggestion, when non-empty, is the closest visible name.
type UnresolvedPropertyError struct {
	Name       string
	Suggestion string
}

func (e *UnresolvedPropertyError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unresolved property %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unresolved property %q", e.Name)
}

// DuplicateDeclarationError reports a second declaration of a name within
// the same scope.
type DuplicateDeclarationError struct {
	Name string
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("property %q is already declared in this scope", e.Name)
}

// suggestDistanceMax bounds how far a name may be from a visible binding
// before we stop offering it as a correction.
const suggestDistanceMax = 3

// nearestName returns the visible name closest to want, or "" when nothing
// is close enough to be a plausible typo.
func nearestName(want string, visible []string) string {
	best := ""
	bestDist := suggestDistanceMax + 1
	for _, name := range visible {
		dist := levenshtein.Distance(want, name, nil)
		if dist < bestDist {
			best = name
			bestDist = dist
		}
	}
	return best
}
