// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model implements the merged output model: the aggregator that
// collects list, map and value contributions from every visited script into
// one ordered, deduplicated tree.
//
// Why an aggregator instead of plain data?
//
// Any number of scripts may contribute to the same path, and catalog authors
// are free to reorder their `exec` references. The tree therefore has to
// absorb contributions in whatever order the interpreter visits them and
// still produce the same final structure. Three mechanisms make that work:
//
//  1. Every contribution carries an `order` (default 100) and receives a
//     monotonically increasing sequence number at contribution time. The
//     final ordering pass sorts list children by (order asc, seq asc); the
//     stable tie-break makes equal-order output independent of any internal
//     traversal detail.
//
//  2. Map contributions may carry a `key`. Two keyed entries with an equal
//     key value are merged field by field rather than appended, so scripts
//     can each add their own fields to a shared entry.
//
//  3. Redundant contributions are errors, not silent overwrites: a second
//     value at an occupied path raises ConflictingValue unless the
//     contribution is explicitly marked `replace`, and a contribution whose
//     kind disagrees with the existing node raises TypeConflict. Both catch
//     accidental duplication by catalog authors early.
//
// # Lifecycle
//
// A Tree is created empty at the start of a generation run, mutated by the
// interpreter as it visits contribution steps, and frozen by Finalize once
// the walk returns. A frozen tree rejects further contributions (panic: the
// run owns the tree, so contributing after Finalize is a programming error).
// The frozen tree is then handed read-only to the renderer.
package model
