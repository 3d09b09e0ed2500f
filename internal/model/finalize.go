// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "sort"

// Finalize runs the ordering pass and freezes the tree. Every List node and
// keyed map list is sorted by (order ascending, sequence ascending); the
// sequence number assigned at contribution time is the stable tie-break.
// Finalize is idempotent.
func (t *Tree) Finalize() {
	t.frozen = true
	sortNode(t.root)
}

// Frozen reports whether Finalize has run.
func (t *Tree) Frozen() bool { return t.frozen }

func sortNode(n *Node) {
	if len(n.items) > 0 {
		sort.SliceStable(n.items, func(i, j int) bool {
			a, b := n.items[i], n.items[j]
			if a.order != b.order {
				return a.order < b.order
			}
			return a.seq < b.seq
		})
		for _, child := range n.items {
			sortNode(child)
		}
	}
	for _, child := range n.entries {
		sortNode(child)
	}
}
