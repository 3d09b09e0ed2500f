// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// InputType enumerates the kinds of values an input step can collect.
type InputType string

const (
	InputText   InputType = "text"
	InputYesNo  InputType = "yesno"
	InputChoice InputType = "choice"
	InputMulti  InputType = "multi"
)

// DefaultOrder is the contribution order applied when a step omits `order`.
const DefaultOrder = 100

// Document is one parsed script: an ordered sequence of steps. The Ref is
// the canonical reference the document was loaded under and is used for
// error attribution and cycle detection.
type Document struct {
	Ref         string
	Description string
	Steps       []Step
}

// StepMeta holds the fields shared by every step variant: the if/unless
// guard terms and the source range of the declaring block.
type StepMeta struct {
	If        []string
	Unless    []string
	DeclRange hcl.Range
}

// Step is the closed set of script step variants. The interpreter
// type-switches over the concrete types; no other implementations exist.
type Step interface {
	Meta() *StepMeta
	// Kind returns the block type name, for logs and error messages.
	Kind() string
}

// Meta implements Step for every variant embedding StepMeta.
func (m *StepMeta) Meta() *StepMeta { return m }

// InputStep declares a user-facing input. Default is nil when the input has
// no default value.
type InputStep struct {
	StepMeta
	Name     string
	Prompt   string
	Type     InputType
	Default  hcl.Expression
	Choices  []string
	Exported bool
}

func (*InputStep) Kind() string { return "input" }

// PresetStep declares a default property value without prompting.
type PresetStep struct {
	StepMeta
	Name     string
	Value    hcl.Expression
	Exported bool
}

func (*PresetStep) Kind() string { return "preset" }

// ExecStep references another script, relative to the referencing one.
type ExecStep struct {
	StepMeta
	Ref string
}

func (*ExecStep) Kind() string { return "exec" }

// ValueStep contributes a single scalar to the output model.
type ValueStep struct {
	StepMeta
	Path     string
	Value    hcl.Expression
	Order    int
	Template bool
	Replace  bool
}

func (*ValueStep) Kind() string { return "value" }

// ListStep contributes items to an ordered list in the output model.
type ListStep struct {
	StepMeta
	Path  string
	Items hcl.Expression
	Order int
}

func (*ListStep) Kind() string { return "list" }

// MapStep contributes a set of fields to a map in the output model. When Key
// is non-nil the target is a keyed map list and entries with an equal key
// value are merged rather than appended.
type MapStep struct {
	StepMeta
	Path    string
	Key     hcl.Expression
	Fields  hcl.Expression
	Order   int
	Replace bool
}

func (*MapStep) Kind() string { return "map" }
