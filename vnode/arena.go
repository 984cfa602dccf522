package vnode

// Arena owns every Node by value, referenced by ID (an index), so that the
// parent/child cycle inherent in a tree (spec.md §9 "Cyclic relations") is
// expressed as plain integers rather than pointers that would need manual
// breaking on unmount. Freed slots are recycled via a free list; recycling
// an arena slot is unrelated to ViewID allocation, which is never recycled
// (spec.md invariant 2 in §3 is about ViewID, not arena ID).
type Arena struct {
	nodes []Node
	free  []ID
	live  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc stores n and returns its new ID.
func (a *Arena) Alloc(n Node) ID {
	if len(a.free) > 0 {
		id := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		a.nodes[id] = n
		a.live++
		return id
	}
	a.nodes = append(a.nodes, n)
	a.live++
	return ID(len(a.nodes) - 1)
}

// Get returns a pointer to the node at id for in-place mutation, or nil if
// id is NoID or out of range. The returned pointer is invalidated by the
// next Alloc if that call grows the backing slice; callers must not retain
// it across an Alloc.
func (a *Arena) Get(id ID) *Node {
	if id == NoID || int(id) < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return &a.nodes[id]
}

// Free releases id back to the arena. It does not recurse into children;
// callers (the reconciler's unmount path) are responsible for freeing an
// entire subtree depth-first.
func (a *Arena) Free(id ID) {
	if a.Get(id) == nil {
		return
	}
	a.nodes[id] = Node{Kind: KindEmpty, Parent: NoID, ViewID: NoView, ContentViewID: NoView}
	a.free = append(a.free, id)
	a.live--
}

// Live returns the number of currently allocated (non-freed) nodes.
func (a *Arena) Live() int {
	return a.live
}

// Children returns the child IDs of id's node, or nil if id has none.
func (a *Arena) Children(id ID) []ID {
	n := a.Get(id)
	if n == nil {
		return nil
	}
	return n.Children
}

// Clone returns a deep copy of a, preserving every ID so that positions
// already recorded elsewhere (registry entries, scheduler identities)
// remain valid against the copy. Used to derive a work_in_progress_tree
// from the current_tree before reconciling a drain (spec.md §4.10): the
// clone absorbs in-place mutations (state updates, reconcile's own
// carried-forward fields) while current_tree stays readable until commit.
func (a *Arena) Clone() *Arena {
	nodes := make([]Node, len(a.nodes))
	for i, n := range a.nodes {
		nodes[i] = n
		if n.Children != nil {
			nodes[i].Children = append([]ID(nil), n.Children...)
		}
		if n.Props != nil {
			p := make(Props, len(n.Props))
			for k, v := range n.Props {
				p[k] = v
			}
			nodes[i].Props = p
		}
	}
	return &Arena{
		nodes: nodes,
		free:  append([]ID(nil), a.free...),
		live:  a.live,
	}
}

// SubtreeNodeCount counts id's node and every descendant reachable through
// Children and, for components, RenderedNode — the "combined old+new node
// count" spec.md §4.8 gates the parallel diff pipeline on, taken on one side
// of the pair. Mirrors worker.countNodes's walk over SerializedNode, but
// runs directly against a live Arena before anything has been serialized.
func (a *Arena) SubtreeNodeCount(id ID) int {
	n := a.Get(id)
	if n == nil || n.Kind == KindEmpty {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += a.SubtreeNodeCount(c)
	}
	if n.Kind.RendersToChild() {
		count += a.SubtreeNodeCount(n.RenderedNode)
	}
	return count
}

// ResolveRenderedElement walks a component's RenderedNode chain until it
// reaches a non-component node (element, fragment, or empty), per spec.md
// §4.3 rule 7: "resolved recursively: if the render result is itself a
// component, resolve through its rendered_node".
func (a *Arena) ResolveRenderedElement(id ID) ID {
	for {
		n := a.Get(id)
		if n == nil || !n.Kind.RendersToChild() {
			return id
		}
		if n.RenderedNode == NoID {
			return NoID
		}
		id = n.RenderedNode
	}
}
