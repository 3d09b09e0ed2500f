// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package interp

import (
	"context"
	"fmt"

	"github.com/vk/archetype/internal/ctxlog"
	"github.com/vk/archetype/internal/expr"
	"github.com/vk/archetype/internal/input"
	"github.com/vk/archetype/internal/model"
	"github.com/vk/archetype/internal/props"
	"github.com/vk/archetype/internal/schema"
)

// ScriptSource resolves script references and loads parsed documents. The
// interpreter never reads raw bytes itself.
type ScriptSource interface {
	// Resolve canonicalizes a reference relative to the referencing script.
	// fromRef is empty for the root script.
	Resolve(fromRef, ref string) (string, error)
	// Load returns the parsed document for a canonical reference.
	Load(ctx context.Context, ref string) (*schema.Document, error)
}

// Options configures one generation run.
type Options struct {
	// Inputs collects values for input steps not covered by BatchProperties.
	Inputs input.Source
	// BatchProperties are externally supplied name/value pairs. A property
	// present here is bound directly, bypassing the input collaborator.
	BatchProperties map[string]string
	// Policy is the `${name}` substitution not-found policy for the run.
	Policy props.Policy
}

// Interpreter walks a script graph and aggregates model contributions.
// Each instance owns its property context and model tree; independent runs
// must use independent instances.
type Interpreter struct {
	source ScriptSource
	inputs input.Source
	batch  map[string]string

	pc   *props.Context
	tree *model.Tree
}

// New returns an interpreter ready for a single Run.
func New(source ScriptSource, opts Options) *Interpreter {
	inputs := opts.Inputs
	if inputs == nil {
		inputs = &input.Batch{}
	}
	return &Interpreter{
		source: source,
		inputs: inputs,
		batch:  opts.BatchProperties,
		pc:     props.New(opts.Policy),
		tree:   model.New(),
	}
}

// Properties returns the run's property context. Valid after Run for the
// renderer's `${name}` path and content substitution.
func (it *Interpreter) Properties() *props.Context { return it.pc }

// frame is one script invocation on the interpreter's stack.
type frame struct {
	ref  string
	doc  *schema.Document
	next int
}

// Run interprets the script graph starting at rootRef and returns the
// finalized model tree. Run must be called at most once per Interpreter.
func (it *Interpreter) Run(ctx context.Context, rootRef string) (*model.Tree, error) {
	logger := ctxlog.FromContext(ctx)

	canonical, err := it.source.Resolve("", rootRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root script %q: %w", rootRef, err)
	}
	rootDoc, err := it.source.Load(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to load root script %q: %w", canonical, err)
	}
	logger.Debug("Interpreter starting walk.", "root", canonical, "steps", len(rootDoc.Steps))

	stack := []*frame{{ref: canonical, doc: rootDoc}}
	onStack := map[string]struct{}{canonical: {}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]

		if f.next >= len(f.doc.Steps) {
			logger.Debug("Leaving script.", "ref", f.ref)
			delete(onStack, f.ref)
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				// The scope created for this exec dies with its frame.
				it.pc.Pop()
			}
			continue
		}

		index := f.next
		step := f.doc.Steps[index]
		f.next++

		ok, err := expr.Guard(step.Meta().If, step.Meta().Unless, it.pc)
		if err != nil {
			return nil, &StepError{Script: f.ref, Step: index, Kind: step.Kind(), Err: err}
		}
		if !ok {
			logger.Debug("Step skipped by guard.", "ref", f.ref, "step", index, "kind", step.Kind())
			continue
		}

		child, err := it.executeStep(ctx, f, index, step, onStack, stack)
		if err != nil {
			return nil, err
		}
		if child != nil {
			logger.Debug("Entering script.", "ref", child.ref, "steps", len(child.doc.Steps))
			it.pc.Push()
			onStack[child.ref] = struct{}{}
			stack = append(stack, child)
		}
	}

	it.tree.Finalize()
	logger.Debug("Interpreter walk finished.", "contributions_sealed", true)
	return it.tree, nil
}

// executeStep runs one step whose guard has already passed. It returns a
// non-nil frame when the step was an exec and the walk must descend.
func (it *Interpreter) executeStep(ctx context.Context, f *frame, index int, step schema.Step, onStack map[string]struct{}, stack []*frame) (*frame, error) {
	fail := func(err error) error {
		return &StepError{Script: f.ref, Step: index, Kind: step.Kind(), Err: err}
	}

	switch st := step.(type) {
	case *schema.InputStep:
		if err := it.runInputStep(ctx, st); err != nil {
			return nil, fail(err)
		}

	case *schema.PresetStep:
		if err := it.runPresetStep(st); err != nil {
			return nil, fail(err)
		}

	case *schema.ExecStep:
		canonical, err := it.source.Resolve(f.ref, st.Ref)
		if err != nil {
			return nil, fail(err)
		}
		if _, active := onStack[canonical]; active {
			return nil, fail(&CyclicScriptReferenceError{Ref: canonical, Stack: stackRefs(stack)})
		}
		doc, err := it.source.Load(ctx, canonical)
		if err != nil {
			return nil, fail(err)
		}
		return &frame{ref: canonical, doc: doc}, nil

	case *schema.ValueStep:
		v, err := expr.Eval(st.Value, it.pc)
		if err != nil {
			return nil, fail(err)
		}
		err = it.tree.ContributeValue(st.Path, v, model.ValueOpts{
			Order:    st.Order,
			Template: st.Template,
			Replace:  st.Replace,
		})
		if err != nil {
			return nil, fail(err)
		}

	case *schema.ListStep:
		items, err := it.evalItems(st.Items)
		if err != nil {
			return nil, fail(err)
		}
		if err := it.tree.ContributeList(st.Path, items, st.Order); err != nil {
			return nil, fail(err)
		}

	case *schema.MapStep:
		key := ""
		if st.Key != nil {
			var err error
			key, err = expr.EvalString(st.Key, it.pc)
			if err != nil {
				return nil, fail(err)
			}
		}
		fields, err := it.evalFields(st.Fields)
		if err != nil {
			return nil, fail(err)
		}
		err = it.tree.ContributeMap(st.Path, key, fields, model.MapOpts{
			Order:   st.Order,
			Replace: st.Replace,
		})
		if err != nil {
			return nil, fail(err)
		}

	default:
		// Unreachable: schema.Step is a closed set.
		panic(fmt.Sprintf("interp: unhandled step kind %q", step.Kind()))
	}

	return nil, nil
}

// runPresetStep binds a default property value. A name that already resolves
// keeps its current value; a batch-supplied value wins over the preset's
// expression.
func (it *Interpreter) runPresetStep(st *schema.PresetStep) error {
	if batchVal, ok := it.batch[st.Name]; ok && !it.pc.Declared(st.Name) {
		return it.pc.Declare(st.Name, stringValue(batchVal), st.Exported)
	}
	if it.pc.Declared(st.Name) {
		return nil
	}
	v, err := expr.Eval(st.Value, it.pc)
	if err != nil {
		return err
	}
	return it.pc.Declare(st.Name, v, st.Exported)
}

func stackRefs(stack []*frame) []string {
	refs := make([]string, 0, len(stack))
	for _, f := range stack {
		refs = append(refs, f.ref)
	}
	return refs
}
