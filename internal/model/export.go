// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "github.com/zclconf/go-cty/cty"

// Export converts the tree to plain Go data for template rendering and for
// structural comparison in tests: maps become map[string]any, lists become
// []any, scalars become string/bool/float64. A keyed map list exports as an
// ordered []any of entry maps; each entry map carries its key under "_key".
//
// Sequence numbers and order values do not appear in the export, so two
// trees built from the same contributions in a different visitation order
// export equal once Finalize has run.
func (t *Tree) Export() any {
	return exportNode(t.root)
}

func exportNode(n *Node) any {
	switch n.kind {
	case KindValue:
		return exportScalar(n.value)
	case KindList:
		out := make([]any, 0, len(n.items))
		for _, item := range n.items {
			out = append(out, exportNode(item))
		}
		return out
	case KindMap:
		if n.keyed {
			out := make([]any, 0, len(n.items))
			for _, entry := range n.items {
				m := exportEntries(entry)
				m["_key"] = entry.key
				out = append(out, m)
			}
			return out
		}
		return exportEntries(n)
	default:
		panic("model: unhandled node kind")
	}
}

func exportEntries(n *Node) map[string]any {
	out := make(map[string]any, len(n.entries))
	for name, child := range n.entries {
		out[name] = exportNode(child)
	}
	return out
}

func exportScalar(v cty.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Bool:
		return v.True()
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f
	default:
		return v.GoString()
	}
}
