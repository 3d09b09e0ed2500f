// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package interp implements the flow controller: the interpreter that walks
// a script document graph and drives the property context and the output
// model.
//
// Why an explicit frame stack?
//
// Script inclusion via `exec` is naturally recursive, but the interpreter
// keeps its own stack of (script, step index) frames instead of recursing in
// Go. That makes the two things the engine must report first-class state
// rather than incidental call depth: the set of scripts currently on the
// stack (for cycle detection) and the exact script reference plus step index
// attached to every error.
//
// The walk is synchronous, depth-first and single-threaded. Steps execute
// strictly in document order within one script; an exec step pushes a new
// property scope (inheriting only exported bindings), runs the referenced
// script to completion, then pops the scope and resumes at the next step of
// the parent. The only blocking call is the input-collection collaborator.
package interp
