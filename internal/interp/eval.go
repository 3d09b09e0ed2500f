// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package interp

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/archetype/internal/expr"
	"github.com/zclconf/go-cty/cty"
)

// evalItems resolves a list step's items expression to a slice of scalars.
func (it *Interpreter) evalItems(e hcl.Expression) ([]cty.Value, error) {
	val, err := expr.Eval(e, it.pc)
	if err != nil {
		return nil, err
	}
	if val.IsNull() || !val.CanIterateElements() {
		return nil, fmt.Errorf("`items` must be a list, got %s", val.Type().FriendlyName())
	}
	var items []cty.Value
	for iter := val.ElementIterator(); iter.Next(); {
		_, elem := iter.Element()
		items = append(items, elem)
	}
	return items, nil
}

// evalFields resolves a map step's fields expression to named scalars.
func (it *Interpreter) evalFields(e hcl.Expression) (map[string]cty.Value, error) {
	val, err := expr.Eval(e, it.pc)
	if err != nil {
		return nil, err
	}
	if val.IsNull() || !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("`fields` must be an object, got %s", val.Type().FriendlyName())
	}
	fields := make(map[string]cty.Value)
	for iter := val.ElementIterator(); iter.Next(); {
		k, v := iter.Element()
		fields[k.AsString()] = v
	}
	return fields, nil
}
