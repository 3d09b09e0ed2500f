// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// documentSchema matches the top level of a script file.
var documentSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "script"},
	},
}

// scriptBodySchema matches the body of the `script` block. Block order in
// the source is significant and is preserved by Content.
var scriptBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "preset", LabelNames: []string{"name"}},
		{Type: "exec", LabelNames: []string{"ref"}},
		{Type: "value", LabelNames: []string{"path"}},
		{Type: "list", LabelNames: []string{"path"}},
		{Type: "map", LabelNames: []string{"path"}},
	},
}

var (
	inputSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "prompt"}, {Name: "type"}, {Name: "default"},
			{Name: "choices"}, {Name: "exported"},
			{Name: "if"}, {Name: "unless"},
		},
	}
	presetSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "value", Required: true}, {Name: "exported"},
			{Name: "if"}, {Name: "unless"},
		},
	}
	execSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "if"}, {Name: "unless"},
		},
	}
	valueSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "value", Required: true}, {Name: "order"},
			{Name: "template"}, {Name: "replace"},
			{Name: "if"}, {Name: "unless"},
		},
	}
	listSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "items", Required: true}, {Name: "order"},
			{Name: "if"}, {Name: "unless"},
		},
	}
	mapSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "fields", Required: true}, {Name: "key"},
			{Name: "order"}, {Name: "replace"},
			{Name: "if"}, {Name: "unless"},
		},
	}
)

// ParseDocumentFile parses a script file from disk into a Document.
func ParseDocumentFile(parser *hclparse.Parser, filePath, ref string) (*Document, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse script file %s: %w", filePath, diags)
	}
	return decodeDocument(hclFile.Body, ref)
}

// ParseDocument parses in-memory script source into a Document. Used by the
// test harness and the zip-backed loader.
func ParseDocument(parser *hclparse.Parser, src []byte, filename, ref string) (*Document, error) {
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse script %s: %w", filename, diags)
	}
	return decodeDocument(hclFile.Body, ref)
}

func decodeDocument(body hcl.Body, ref string) (*Document, error) {
	content, diags := body.Content(documentSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid script %s: %w", ref, diags)
	}
	if len(content.Blocks) != 1 {
		return nil, fmt.Errorf("script %s must contain exactly one `script` block, found %d", ref, len(content.Blocks))
	}

	doc := &Document{Ref: ref}

	sc, diags := content.Blocks[0].Body.Content(scriptBodySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid script body in %s: %w", ref, diags)
	}

	if attr, ok := sc.Attributes["description"]; ok {
		desc, dDiags := staticString(attr)
		if dDiags.HasErrors() {
			return nil, fmt.Errorf("invalid description in %s: %w", ref, dDiags)
		}
		doc.Description = desc
	}

	// sc.Blocks preserves source order across block types, which is what
	// gives steps their document order.
	for _, block := range sc.Blocks {
		step, sDiags := decodeStep(block)
		if sDiags.HasErrors() {
			return nil, fmt.Errorf("invalid %s block in %s: %w", block.Type, ref, sDiags)
		}
		doc.Steps = append(doc.Steps, step)
	}

	return doc, nil
}

func decodeStep(block *hcl.Block) (Step, hcl.Diagnostics) {
	switch block.Type {
	case "input":
		return decodeInputStep(block)
	case "preset":
		return decodePresetStep(block)
	case "exec":
		return decodeExecStep(block)
	case "value":
		return decodeValueStep(block)
	case "list":
		return decodeListStep(block)
	case "map":
		return decodeMapStep(block)
	default:
		// Unreachable: scriptBodySchema only admits the types above.
		panic(fmt.Sprintf("schema: unhandled block type %q", block.Type))
	}
}

func decodeInputStep(block *hcl.Block) (Step, hcl.Diagnostics) {
	content, diags := block.Body.Content(inputSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	step := &InputStep{
		Name:     block.Labels[0],
		Type:     InputText,
		Exported: true,
	}
	step.DeclRange = block.DefRange

	if diags := decodeGuards(&step.StepMeta, content.Attributes); diags.HasErrors() {
		return nil, diags
	}
	if attr, ok := content.Attributes["prompt"]; ok {
		var aDiags hcl.Diagnostics
		step.Prompt, aDiags = staticString(attr)
		diags = append(diags, aDiags...)
	}
	if attr, ok := content.Attributes["type"]; ok {
		typeStr, aDiags := staticString(attr)
		diags = append(diags, aDiags...)
		if !aDiags.HasErrors() {
			switch InputType(typeStr) {
			case InputText, InputYesNo, InputChoice, InputMulti:
				step.Type = InputType(typeStr)
			default:
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid input type",
					Detail:   fmt.Sprintf("Input %q has unsupported type %q; expected text, yesno, choice or multi.", step.Name, typeStr),
					Subject:  attr.Range.Ptr(),
				})
			}
		}
	}
	if attr, ok := content.Attributes["default"]; ok {
		step.Default = attr.Expr
	}
	if attr, ok := content.Attributes["choices"]; ok {
		var aDiags hcl.Diagnostics
		step.Choices, aDiags = staticStringList(attr)
		diags = append(diags, aDiags...)
	}
	if attr, ok := content.Attributes["exported"]; ok {
		var aDiags hcl.Diagnostics
		step.Exported, aDiags = staticBool(attr)
		diags = append(diags, aDiags...)
	}

	if (step.Type == InputChoice || step.Type == InputMulti) && len(step.Choices) == 0 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing choices",
			Detail:   fmt.Sprintf("Input %q has type %q but declares no choices.", step.Name, step.Type),
			Subject:  block.DefRange.Ptr(),
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return step, nil
}

func decodePresetStep(block *hcl.Block) (Step, hcl.Diagnostics) {
	content, diags := block.Body.Content(presetSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	step := &PresetStep{
		Name:     block.Labels[0],
		Value:    content.Attributes["value"].Expr,
		Exported: true,
	}
	step.DeclRange = block.DefRange

	if diags := decodeGuards(&step.StepMeta, content.Attributes); diags.HasErrors() {
		return nil, diags
	}
	if attr, ok := content.Attributes["exported"]; ok {
		var aDiags hcl.Diagnostics
		step.Exported, aDiags = staticBool(attr)
		diags = append(diags, aDiags...)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return step, nil
}

func decodeExecStep(block *hcl.Block) (Step, hcl.Diagnostics) {
	content, diags := block.Body.Content(execSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	step := &ExecStep{Ref: block.Labels[0]}
	step.DeclRange = block.DefRange

	if diags := decodeGuards(&step.StepMeta, content.Attributes); diags.HasErrors() {
		return nil, diags
	}
	return step, nil
}

func decodeValueStep(block *hcl.Block) (Step, hcl.Diagnostics) {
	content, diags := block.Body.Content(valueSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	step := &ValueStep{
		Path:  block.Labels[0],
		Value: content.Attributes["value"].Expr,
		Order: DefaultOrder,
	}
	step.DeclRange = block.DefRange

	if diags := decodeGuards(&step.StepMeta, content.Attributes); diags.HasErrors() {
		return nil, diags
	}
	if attr, ok := content.Attributes["order"]; ok {
		var aDiags hcl.Diagnostics
		step.Order, aDiags = staticInt(attr)
		diags = append(diags, aDiags...)
	}
	if attr, ok := content.Attributes["template"]; ok {
		var aDiags hcl.Diagnostics
		step.Template, aDiags = staticBool(attr)
		diags = append(diags, aDiags...)
	}
	if attr, ok := content.Attributes["replace"]; ok {
		var aDiags hcl.Diagnostics
		step.Replace, aDiags = staticBool(attr)
		diags = append(diags, aDiags...)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return step, nil
}

func decodeListStep(block *hcl.Block) (Step, hcl.Diagnostics) {
	content, diags := block.Body.Content(listSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	step := &ListStep{
		Path:  block.Labels[0],
		Items: content.Attributes["items"].Expr,
		Order: DefaultOrder,
	}
	step.DeclRange = block.DefRange

	if diags := decodeGuards(&step.StepMeta, content.Attributes); diags.HasErrors() {
		return nil, diags
	}
	if attr, ok := content.Attributes["order"]; ok {
		var aDiags hcl.Diagnostics
		step.Order, aDiags = staticInt(attr)
		diags = append(diags, aDiags...)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return step, nil
}

func decodeMapStep(block *hcl.Block) (Step, hcl.Diagnostics) {
	content, diags := block.Body.Content(mapSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	step := &MapStep{
		Path:   block.Labels[0],
		Fields: content.Attributes["fields"].Expr,
		Order:  DefaultOrder,
	}
	step.DeclRange = block.DefRange

	if diags := decodeGuards(&step.StepMeta, content.Attributes); diags.HasErrors() {
		return nil, diags
	}
	if attr, ok := content.Attributes["key"]; ok {
		step.Key = attr.Expr
	}
	if attr, ok := content.Attributes["order"]; ok {
		var aDiags hcl.Diagnostics
		step.Order, aDiags = staticInt(attr)
		diags = append(diags, aDiags...)
	}
	if attr, ok := content.Attributes["replace"]; ok {
		var aDiags hcl.Diagnostics
		step.Replace, aDiags = staticBool(attr)
		diags = append(diags, aDiags...)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return step, nil
}

// decodeGuards extracts the if/unless term lists shared by all step kinds.
func decodeGuards(meta *StepMeta, attrs hcl.Attributes) hcl.Diagnostics {
	var diags hcl.Diagnostics
	if attr, ok := attrs["if"]; ok {
		var aDiags hcl.Diagnostics
		meta.If, aDiags = staticStringList(attr)
		diags = append(diags, aDiags...)
	}
	if attr, ok := attrs["unless"]; ok {
		var aDiags hcl.Diagnostics
		meta.Unless, aDiags = staticStringList(attr)
		diags = append(diags, aDiags...)
	}
	return diags
}

// --- Static attribute helpers ---
//
// Guard terms, orders and flags are structural, not value expressions, so
// they are evaluated eagerly with no variables in scope.

func staticValue(attr *hcl.Attribute, want cty.Type) (cty.Value, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	converted, err := convert.Convert(val, want)
	if err != nil || converted.IsNull() {
		return cty.NilVal, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid attribute value",
			Detail:   fmt.Sprintf("Attribute %q must be a %s.", attr.Name, want.FriendlyName()),
			Subject:  attr.Range.Ptr(),
		}}
	}
	return converted, nil
}

func staticString(attr *hcl.Attribute) (string, hcl.Diagnostics) {
	val, diags := staticValue(attr, cty.String)
	if diags.HasErrors() {
		return "", diags
	}
	return val.AsString(), nil
}

func staticBool(attr *hcl.Attribute) (bool, hcl.Diagnostics) {
	val, diags := staticValue(attr, cty.Bool)
	if diags.HasErrors() {
		return false, diags
	}
	return val.True(), nil
}

func staticInt(attr *hcl.Attribute) (int, hcl.Diagnostics) {
	val, diags := staticValue(attr, cty.Number)
	if diags.HasErrors() {
		return 0, diags
	}
	i, _ := val.AsBigFloat().Int64()
	return int(i), nil
}

func staticStringList(attr *hcl.Attribute) ([]string, hcl.Diagnostics) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if !val.CanIterateElements() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid attribute value",
			Detail:   fmt.Sprintf("Attribute %q must be a list of strings.", attr.Name),
			Subject:  attr.Range.Ptr(),
		}}
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		converted, err := convert.Convert(elem, cty.String)
		if err != nil || converted.IsNull() {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid attribute value",
				Detail:   fmt.Sprintf("Attribute %q must contain only strings.", attr.Name),
				Subject:  attr.Range.Ptr(),
			}}
		}
		out = append(out, converted.AsString())
	}
	return out, nil
}
