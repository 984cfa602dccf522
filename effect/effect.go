// Package effect implements the effect list and atomic commit phase of
// spec.md §4.9: the ordered buffer of renderer-bridge operations produced
// by reconciliation (serial) or by the diff-plan applier (parallel), and
// its atomic application against a bridge.Bridge.
//
// The effect vocabulary matches spec.md §4.8 step 3's diff-plan records
// exactly, since §4.9 states the effect list is "equivalent to the
// diff-plan vocabulary" — one set of record types serves both the serial
// and the worker-applied path.
package effect

import "github.com/forgelogic/reconcile/vnode"

// Kind tags one renderer-bridge operation.
type Kind uint8

const (
	Create Kind = iota
	Update
	SetChildren
	Attach
	Detach
	Delete
	AddListeners
	RemoveListeners
	Replace
)

func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Update:
		return "update"
	case SetChildren:
		return "set_children"
	case Attach:
		return "attach"
	case Detach:
		return "detach"
	case Delete:
		return "delete"
	case AddListeners:
		return "add_listeners"
	case RemoveListeners:
		return "remove_listeners"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// Effect is one record in the effect list. Only the fields relevant to Kind
// are meaningful; others are zero.
type Effect struct {
	Kind Kind

	ViewID   vnode.ViewID // primary target (or OldViewID for Replace)
	ParentID vnode.ViewID
	Index    int

	// Create
	ElementType string
	Props       vnode.Props
	Names       []string // AddListeners/RemoveListeners, or listener names at creation

	// Update
	Changed map[string]any

	// SetChildren
	Children []vnode.ViewID

	// Replace: delete ViewID (the old subtree root), then run MountEffects
	// in order to mount the new subtree into the same parent/index.
	MountEffects []Effect
}

// List is the ordered sequence of pending effects for one drain, populated
// either by the serial reconciler walk or by the diff-plan applier
// (spec.md §4.9).
type List struct {
	effects []Effect
}

// NewList creates an empty effect list.
func NewList() *List { return &List{} }

// Append records e as the next effect in reconciliation-walk order.
func (l *List) Append(e Effect) { l.effects = append(l.effects, e) }

// AppendAll appends a pre-built sequence, preserving its internal order.
func (l *List) AppendAll(es []Effect) { l.effects = append(l.effects, es...) }

// Effects returns the recorded effects in emission order. Callers must not
// mutate the returned slice.
func (l *List) Effects() []Effect { return l.effects }

// Len returns the number of recorded effects.
func (l *List) Len() int { return len(l.effects) }
