// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package interp

import (
	"context"
	"strconv"
	"strings"

	"github.com/vk/archetype/internal/ctxlog"
	"github.com/vk/archetype/internal/expr"
	"github.com/vk/archetype/internal/input"
	"github.com/vk/archetype/internal/props"
	"github.com/vk/archetype/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// runInputStep resolves an input's value and binds it into the current
// scope. Batch-supplied properties win; otherwise the input collaborator is
// consulted, with accept-default applying the declared default.
func (it *Interpreter) runInputStep(ctx context.Context, st *schema.InputStep) error {
	logger := ctxlog.FromContext(ctx)

	if raw, ok := it.batch[st.Name]; ok {
		v, err := parseSuppliedValue(st, raw)
		if err != nil {
			return err
		}
		logger.Debug("Input bound from batch properties.", "name", st.Name)
		return it.pc.Declare(st.Name, v, st.Exported)
	}

	var defaultVal cty.Value
	hasDefault := false
	if st.Default != nil {
		v, err := expr.Eval(st.Default, it.pc)
		if err != nil {
			return err
		}
		defaultVal = v
		hasDefault = true
	}

	resp, err := it.inputs.Ask(ctx, &input.Request{
		Name:       st.Name,
		Prompt:     st.Prompt,
		Type:       st.Type,
		Choices:    st.Choices,
		Default:    defaultVal,
		HasDefault: hasDefault,
	})
	if err != nil {
		return err
	}

	var v cty.Value
	if resp.AcceptDefault {
		if !hasDefault {
			return &input.MissingRequiredPropertyError{Name: st.Name}
		}
		logger.Debug("Input accepted declared default.", "name", st.Name)
		v = defaultVal
	} else {
		v = resp.Value
		if err := validateChoiceValue(st, v); err != nil {
			return err
		}
		logger.Debug("Input collected from collaborator.", "name", st.Name)
	}

	return it.pc.Declare(st.Name, v, st.Exported)
}

// parseSuppliedValue converts a batch-supplied string into a typed value,
// validating it against the input's declared type and choice set.
func parseSuppliedValue(st *schema.InputStep, raw string) (cty.Value, error) {
	switch st.Type {
	case schema.InputYesNo:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return cty.NilVal, &InvalidInputValueError{Name: st.Name, Value: raw}
		}
		return cty.BoolVal(b), nil

	case schema.InputChoice:
		if !containsChoice(st.Choices, raw) {
			return cty.NilVal, &InvalidInputValueError{Name: st.Name, Value: raw, Choices: st.Choices}
		}
		return cty.StringVal(raw), nil

	case schema.InputMulti:
		parts := strings.Split(raw, ",")
		selected := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if !containsChoice(st.Choices, part) {
				return cty.NilVal, &InvalidInputValueError{Name: st.Name, Value: part, Choices: st.Choices}
			}
			selected = append(selected, part)
		}
		return cty.StringVal(strings.Join(selected, ",")), nil

	default:
		return cty.StringVal(raw), nil
	}
}

// validateChoiceValue re-checks a collaborator-returned value against the
// declared choice set; a custom input source is not trusted to validate.
func validateChoiceValue(st *schema.InputStep, v cty.Value) error {
	if st.Type != schema.InputChoice && st.Type != schema.InputMulti {
		return nil
	}
	s, err := props.AsString(v)
	if err != nil {
		return &InvalidInputValueError{Name: st.Name, Value: v.GoString(), Choices: st.Choices}
	}
	if st.Type == schema.InputChoice {
		if !containsChoice(st.Choices, s) {
			return &InvalidInputValueError{Name: st.Name, Value: s, Choices: st.Choices}
		}
		return nil
	}
	for _, part := range strings.Split(s, ",") {
		if !containsChoice(st.Choices, strings.TrimSpace(part)) {
			return &InvalidInputValueError{Name: st.Name, Value: part, Choices: st.Choices}
		}
	}
	return nil
}

func containsChoice(choices []string, want string) bool {
	for _, choice := range choices {
		if choice == want {
			return true
		}
	}
	return false
}

func stringValue(s string) cty.Value { return cty.StringVal(s) }
