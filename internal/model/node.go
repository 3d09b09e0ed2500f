// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Kind identifies a node variant. The set is closed; the aggregator and the
// renderer switch over it exhaustively.
type Kind int

const (
	KindValue Kind = iota
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Node is one node of the model tree. A Value node is a leaf scalar; a List
// node holds ordered unkeyed children; a Map node holds either named entries
// (plain map) or an ordered sequence of keyed Map children (keyed map list).
type Node struct {
	kind Kind

	// Value nodes.
	value    cty.Value
	template bool

	// List children, or keyed entries of a keyed map list.
	items []*Node

	// Plain map entries.
	entries map[string]*Node
	keyed   bool

	// The key value of a keyed map list entry; empty otherwise.
	key string

	order int
	seq   int
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Value returns the scalar held by a Value node.
func (n *Node) Value() cty.Value { return n.value }

// Template reports whether a Value node is flagged for template expansion
// by the renderer.
func (n *Node) Template() bool { return n.template }

// Items returns the ordered children of a List node or the entries of a
// keyed map list. Callers must not mutate the returned slice.
func (n *Node) Items() []*Node { return n.items }

// Entry returns the named child of a plain Map node, or nil.
func (n *Node) Entry(name string) *Node { return n.entries[name] }

// EntryNames returns the sorted entry names of a plain Map node.
func (n *Node) EntryNames() []string {
	names := make([]string, 0, len(n.entries))
	for name := range n.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keyed reports whether a Map node is a keyed map list.
func (n *Node) Keyed() bool { return n.keyed }

// Key returns the key value of a keyed map list entry.
func (n *Node) Key() string { return n.key }

// Order returns the node's contribution order.
func (n *Node) Order() int { return n.order }

func newMapNode(order, seq int) *Node {
	return &Node{kind: KindMap, entries: make(map[string]*Node), order: order, seq: seq}
}

func newValueNode(v cty.Value, template bool, order, seq int) *Node {
	return &Node{kind: KindValue, value: v, template: template, order: order, seq: seq}
}
