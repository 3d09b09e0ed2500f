// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package schema provides the Go struct representation of an archetype
// catalog: the descriptor file and the script documents it contains. Its core
// purpose is to turn raw HCL files into a strongly-typed, in-memory model
// that the interpreter can walk.
//
// # Core Concepts
//
//   - Archetype: the catalog descriptor. It names the root script and lists
//     the filesets the renderer materializes after interpretation.
//
//   - Document: one parsed script. A Document is an ordered sequence of
//     steps; step order across kinds is significant, so decoding preserves
//     source order rather than grouping blocks by type.
//
//   - Step: a closed set of variants (input, preset, exec, value, list, map)
//     over which the interpreter type-switches exhaustively. Every variant
//     carries an optional if/unless guard.
//
// Why store raw hcl.Expression fields?
//
// Value-bearing fields (input defaults, preset values, model contributions,
// keyed-map keys) are kept as `hcl.Expression` rather than primitive Go
// types. This is a deliberate choice: it defers evaluation until the
// interpreter has a property scope to evaluate against, which is what makes
// `${name}` interpolation inside script documents work. The schema captures
// the author's intent as an expression; the interpreter resolves it against
// the live property context.
//
// Documents are immutable once parsed. The loader may hand the same Document
// to any number of invocations; nothing in this package mutates a Document
// after Decode returns.
package schema
