// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Tree is the merged output model for one generation run. It is owned by a
// single run and is not safe for concurrent use.
type Tree struct {
	root   *Node
	seq    int
	frozen bool
}

// New returns an empty tree. The root is an unkeyed Map node.
func New() *Tree {
	return &Tree{root: newMapNode(DefaultOrder, 0)}
}

// DefaultOrder is applied when a contribution does not specify an order.
const DefaultOrder = 100

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// ValueOpts carries the optional attributes of a value contribution.
type ValueOpts struct {
	Order    int
	Template bool
	Replace  bool
}

// ContributeValue records a scalar at a slash-delimited path.
func (t *Tree) ContributeValue(path string, v cty.Value, opts ValueOpts) error {
	t.ensureMutable()
	parent, leaf, err := t.route(path)
	if err != nil {
		return err
	}
	return t.putValue(parent, leaf, path, v, opts)
}

// ContributeList appends items to the list at a slash-delimited path,
// creating the list if absent. Every item carries the contribution's order.
func (t *Tree) ContributeList(path string, items []cty.Value, order int) error {
	t.ensureMutable()
	parent, leaf, err := t.route(path)
	if err != nil {
		return err
	}

	node, ok := parent.entries[leaf]
	if !ok {
		node = &Node{kind: KindList, order: order, seq: t.nextSeq()}
		parent.entries[leaf] = node
	} else if node.kind != KindList {
		return &TypeConflictError{Path: path, Existing: node.kind, Contributed: KindList}
	}

	for _, item := range items {
		node.items = append(node.items, newValueNode(item, false, order, t.nextSeq()))
	}
	return nil
}

// MapOpts carries the optional attributes of a map contribution.
type MapOpts struct {
	Order   int
	Replace bool
}

// ContributeMap records a set of fields at a slash-delimited path. With an
// empty key the fields merge into a plain map node. With a key the target is
// a keyed map list: an existing entry with an equal key is merged field by
// field, otherwise a new entry is appended at the contribution's order.
func (t *Tree) ContributeMap(path, key string, fields map[string]cty.Value, opts MapOpts) error {
	t.ensureMutable()
	parent, leaf, err := t.route(path)
	if err != nil {
		return err
	}

	node, ok := parent.entries[leaf]
	if !ok {
		node = newMapNode(opts.Order, t.nextSeq())
		node.keyed = key != ""
		parent.entries[leaf] = node
	}
	if node.kind != KindMap {
		return &TypeConflictError{Path: path, Existing: node.kind, Contributed: KindMap}
	}

	if key == "" {
		if node.keyed {
			return &TypeConflictError{Path: path, Existing: KindMap, Contributed: KindMap}
		}
		return t.mergeFields(node, path, fields, opts)
	}

	if !node.keyed {
		if len(node.entries) > 0 {
			return &TypeConflictError{Path: path, Existing: KindMap, Contributed: KindMap}
		}
		node.keyed = true
	}

	entry := findKeyedEntry(node, key)
	if entry == nil {
		entry = newMapNode(opts.Order, t.nextSeq())
		entry.key = key
		node.items = append(node.items, entry)
	} else if opts.Replace {
		entry.order = opts.Order
	}
	return t.mergeFields(entry, fmt.Sprintf("%s[%s]", path, key), fields, opts)
}

// mergeFields applies a field set to a map node under the duplicate rules:
// union of fields, ConflictingValue on an occupied field unless `replace`.
// Field names are visited in sorted order so sequence numbers are assigned
// deterministically.
func (t *Tree) mergeFields(node *Node, path string, fields map[string]cty.Value, opts MapOpts) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		err := t.putValue(node, name, path+"/"+name, fields[name], ValueOpts{
			Order:    opts.Order,
			Replace:  opts.Replace,
			Template: false,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// putValue records a scalar as the named child of a map node.
func (t *Tree) putValue(parent *Node, name, path string, v cty.Value, opts ValueOpts) error {
	existing, ok := parent.entries[name]
	if !ok {
		parent.entries[name] = newValueNode(v, opts.Template, opts.Order, t.nextSeq())
		return nil
	}
	if existing.kind != KindValue {
		return &TypeConflictError{Path: path, Existing: existing.kind, Contributed: KindValue}
	}
	if !opts.Replace {
		return &ConflictingValueError{Path: path}
	}
	// Last writer wins, by explicit request only.
	existing.value = v
	existing.template = opts.Template
	existing.order = opts.Order
	return nil
}

// route walks the intermediate segments of a path, creating Map nodes as
// needed, and returns the parent node plus the leaf segment.
func (t *Tree) route(path string) (*Node, string, error) {
	segments := strings.Split(path, "/")
	for _, seg := range segments {
		if seg == "" {
			return nil, "", fmt.Errorf("invalid model path %q: empty segment", path)
		}
	}

	parent := t.root
	for i, seg := range segments[:len(segments)-1] {
		child, ok := parent.entries[seg]
		if !ok {
			child = newMapNode(DefaultOrder, t.nextSeq())
			parent.entries[seg] = child
		}
		prefix := strings.Join(segments[:i+1], "/")
		if child.kind != KindMap {
			return nil, "", &TypeConflictError{Path: prefix, Existing: child.kind, Contributed: KindMap}
		}
		if child.keyed {
			// Keyed map lists are addressed by key, never routed through.
			return nil, "", &TypeConflictError{Path: prefix, Existing: KindMap, Contributed: KindMap}
		}
		parent = child
	}
	return parent, segments[len(segments)-1], nil
}

func findKeyedEntry(node *Node, key string) *Node {
	for _, entry := range node.items {
		if entry.key == key {
			return entry
		}
	}
	return nil
}

func (t *Tree) nextSeq() int {
	t.seq++
	return t.seq
}

func (t *Tree) ensureMutable() {
	if t.frozen {
		panic("model: contribution after Finalize")
	}
}
