// Package worker implements the off-thread diff pipeline of spec.md §4.8:
// serialization of a subtree pair into plain data, a pure diff computation
// producing a diff plan, a bounded worker pool for dispatching that
// computation off the main context, and a main-thread applier that splices
// the plan's placeholder-identified creates into the real tree.
//
// Grounded on ForgeLogic-nojs's RendererImpl instance bookkeeping
// (ForgeLogic-nojs/nojs/runtime/renderer_impl.go) for the splice-into-
// registry step, and on golang.org/x/sync's semaphore package (used
// elsewhere in the example pack for bounded fan-out) for the pool itself —
// spec.md §9 leaves the pool's own strategy as an open question, and this
// package commits to one concrete implementation (see Pool), used directly
// by Dispatcher.
package worker

import "github.com/forgelogic/reconcile/vnode"

// SerializedNode is the plain-data form of an Element, Fragment, or Empty
// node suitable for cross-thread transport (spec.md §4.8 step 2). By the
// time a subtree reaches serialization, every component in it has already
// been rendered down to elements/fragments on the main context — workers
// never see a component's Instance value or its Render method, since
// neither is plain data.
type SerializedNode struct {
	Kind     vnode.Kind
	Type     string // ElementType, empty for fragments/empty
	Key      any
	Props    vnode.Props // non-handler props only
	Listener []string    // event names requiring listeners
	ViewID   vnode.ViewID
	Children []SerializedNode
}

// Serialize converts the subtree rooted at id into plain data. Fragments
// and elements recurse into their children; components must already be
// resolved (callers serialize only post-render trees, e.g. worker.Serialize
// is invoked on an already fully-rendered new tree and on the already-
// committed old tree).
func Serialize(a *vnode.Arena, id vnode.ID) SerializedNode {
	n := a.Get(id)
	if n == nil || n.Kind == vnode.KindEmpty {
		return SerializedNode{Kind: vnode.KindEmpty}
	}
	if n.Kind.RendersToChild() {
		return Serialize(a, n.RenderedNode)
	}

	out := SerializedNode{Kind: n.Kind, Key: n.Key, ViewID: n.ViewID}
	if n.Kind == vnode.KindElement {
		out.Type = n.ElementType
		out.Props = nonHandlerProps(n.Props)
		out.Listener = listenerNames(n.Props)
	}
	out.Children = make([]SerializedNode, 0, len(n.Children))
	for _, c := range n.Children {
		out.Children = append(out.Children, Serialize(a, c))
	}
	return out
}

// TypeSequence returns the ordered list of child type identifiers used by
// proputil.Similarity's LCS comparison (spec.md §4.8 step 1).
func (s SerializedNode) TypeSequence() []string {
	out := make([]string, len(s.Children))
	for i, c := range s.Children {
		if c.Kind == vnode.KindElement {
			out[i] = c.Type
		} else {
			out[i] = c.Kind.String()
		}
	}
	return out
}

func nonHandlerProps(props vnode.Props) vnode.Props {
	if props == nil {
		return nil
	}
	out := make(vnode.Props, len(props))
	for k, v := range props {
		if vnode.IsEventProp(k, v) {
			continue
		}
		out[k] = v
	}
	return out
}

func listenerNames(props vnode.Props) []string {
	var names []string
	for k, v := range props {
		if vnode.IsEventProp(k, v) {
			names = append(names, vnode.EventName(k))
		}
	}
	return names
}
