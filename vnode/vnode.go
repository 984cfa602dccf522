// Package vnode defines the immutable virtual-node representation reconciled
// by this engine: the five node variants (element, stateful component,
// stateless component, fragment, empty), their shared identity fields, and
// the arena that owns them.
//
// This is the Go-native replacement for ForgeLogic-nojs's single mutable
// *vdom.VNode struct (ForgeLogic-nojs/nojs/vdom/vnode.go). That VNode
// conflated "HTML element" with "thing that can appear in a tree";
// this package separates the five variants spec.md §3 actually requires
// and expresses them as a tagged sum over one arena-backed struct, per
// spec.md §9's "cyclic relations" design note (index-based parent links,
// no strong parent pointers).
package vnode

import "fmt"

// Kind tags the five virtual-node variants.
type Kind uint8

const (
	KindElement Kind = iota
	KindStatefulComponent
	KindStatelessComponent
	KindFragment
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindStatefulComponent:
		return "stateful"
	case KindStatelessComponent:
		return "stateless"
	case KindFragment:
		return "fragment"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// OwnsNativeView reports whether nodes of this kind may carry a ViewID.
func (k Kind) OwnsNativeView() bool {
	return k == KindElement
}

// RendersToChild reports whether nodes of this kind produce a RenderedNode.
func (k Kind) RendersToChild() bool {
	return k == KindStatefulComponent || k == KindStatelessComponent
}

// HoldsUserState reports whether nodes of this kind carry an opaque state capsule.
func (k Kind) HoldsUserState() bool {
	return k == KindStatefulComponent
}

// ViewID is the renderer's integer handle for a native view. 0 is the root.
// NoView marks "no native view" (fragments, empty nodes, unmounted elements).
type ViewID int32

const NoView ViewID = -1

// RootViewID is pre-allocated at engine initialization and never reassigned.
const RootViewID ViewID = 0

// ID is the arena index of a Node. NoID marks "absent".
type ID int32

const NoID ID = -1

// Props is a mapping from prop name to prop value. Prop values are the
// recursive domain of spec.md §3: nil, scalars, []any, map[string]any, and
// EventHandler sentinels. Focus-preserving update suppression is not a prop:
// it is the per-node Node.PreserveLive flag.
type Props map[string]any

// EventHandler is the sentinel type distinguishing a callable prop value
// (registered as a listener, never sent to the renderer as data) from a
// data-carrying prop with the same "on"-prefixed key. Per spec.md §3: "any
// key prefixed by `on` carrying a callable is one."
type EventHandler func(data any)

// IsEventProp reports whether key/value together form an event-handler prop.
func IsEventProp(key string, value any) bool {
	if len(key) <= 2 || key[0] != 'o' || key[1] != 'n' {
		return false
	}
	_, ok := value.(EventHandler)
	return ok
}

// EventName derives the listener name the renderer bridge should register
// for an "on"-prefixed prop key, e.g. "onClick" -> "click".
func EventName(propKey string) string {
	name := propKey[2:]
	if name == "" {
		return name
	}
	if name[0] >= 'A' && name[0] <= 'Z' {
		return string(name[0]+('a'-'A')) + name[1:]
	}
	return name
}

// Node is the tagged-sum representation of all five virtual-node variants.
// Only the fields relevant to Kind are meaningful; others are zero.
type Node struct {
	Kind Kind

	// Identity, shared by all variants.
	Key    any // stable identity hint, typically a string
	Parent ID  // arena index of the parent, NoID if unmounted/root

	// Native view linkage, elements only (KindElement.OwnsNativeView()).
	ViewID        ViewID
	ContentViewID ViewID // aliased from a component's rendered element (§4.3 rule 7)

	// Element fields.
	ElementType  string
	Props        Props
	Children     []ID
	PreserveLive bool // PreserveLiveEditHint: see SPEC_FULL.md §4, focus-preserving update suppression

	// Component fields (stateful and stateless). Instance is the opaque
	// author-supplied value backing this component slot; the reconciler
	// type-asserts it against the component package's Component and
	// optional lifecycle interfaces rather than this package depending on
	// component (which itself depends on vnode).
	ComponentType string // concrete type identifier, stable across renders
	Instance      any
	RenderedNode  ID

	// Stateful-only.
	State any // opaque, component-defined
}

// NewElement creates an Element node. Children and props are copied by
// reference; callers must not mutate them after handing the node to the arena.
func NewElement(elementType string, props Props, children []ID, key any) Node {
	return Node{
		Kind:        KindElement,
		Key:         key,
		Parent:      NoID,
		ViewID:      NoView,
		ContentViewID: NoView,
		ElementType: elementType,
		Props:       props,
		Children:    children,
	}
}

// NewStatefulComponent creates a stateful component instance node. instance
// is the author-supplied value (implementing component.Component and
// optionally component.Initializer/Unmounter/Prioritizer); state is nil
// until the reconciler's first mount calls OnInit.
func NewStatefulComponent(componentType string, instance any, props Props, key any) Node {
	return Node{
		Kind:          KindStatefulComponent,
		Key:           key,
		Parent:        NoID,
		ViewID:        NoView,
		ContentViewID: NoView,
		ComponentType: componentType,
		Instance:      instance,
		Props:         props,
		RenderedNode:  NoID,
	}
}

// NewStatelessComponent creates a stateless component instance node.
func NewStatelessComponent(componentType string, instance any, props Props, key any) Node {
	return Node{
		Kind:          KindStatelessComponent,
		Key:           key,
		Parent:        NoID,
		ViewID:        NoView,
		ContentViewID: NoView,
		ComponentType: componentType,
		Instance:      instance,
		Props:         props,
		RenderedNode:  NoID,
	}
}

// NewFragment creates a transparent container node owning no native view.
func NewFragment(children []ID, key any) Node {
	return Node{Kind: KindFragment, Key: key, Parent: NoID, ViewID: NoView, ContentViewID: NoView, Children: children}
}

// NewEmpty creates the sentinel Empty node.
func NewEmpty() Node {
	return Node{Kind: KindEmpty, Parent: NoID, ViewID: NoView, ContentViewID: NoView}
}

// String renders a compact debug form, e.g. "element<View>#3" or "empty".
func (n Node) String() string {
	switch n.Kind {
	case KindElement:
		return fmt.Sprintf("element<%s>#%d", n.ElementType, n.ViewID)
	case KindStatefulComponent, KindStatelessComponent:
		return fmt.Sprintf("%s<%s>", n.Kind, n.ComponentType)
	default:
		return n.Kind.String()
	}
}
