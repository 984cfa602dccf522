// Package component defines the author-facing component contract of
// spec.md §6.1: the render function, cooperative priority declaration,
// and the OnInit/OnUnmount lifecycle hooks a stateful component may
// implement, plus the deterministic component-type identifier used as
// the "component_type" leg of every registry.PositionKey.
//
// Grounded on ForgeLogic-nojs's Component interface (its original
// component/component.go, a single-method Render() contract) generalized
// to spec.md's richer lifecycle, and on
// ForgeLogic-nojs/nojs/runtime/componentlifecycle.go's Initializer/
// Cleaner/ParameterReceiver split, which this package keeps as optional
// interfaces rather than folding into one required base type.
package component

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"

	"github.com/forgelogic/reconcile/vnode"
)

// Priority mirrors the five update-priority classes of spec.md §4.7.
// Components declare a default via Prioritizer; an individual
// engine RequestRerender call may still request a different class explicitly.
type Priority uint8

const (
	PriorityImmediate Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
	PriorityIdle
)

func (p Priority) String() string {
	switch p {
	case PriorityImmediate:
		return "immediate"
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	case PriorityIdle:
		return "idle"
	default:
		return "normal"
	}
}

// Component is the minimal author contract: given its current opaque
// state and props, produce exactly one child node id in the supplied
// arena. Render must be pure with respect to anything other than state
// and props — spec.md §6.1's "no direct mutation of the tree".
type Component interface {
	Render(arena *vnode.Arena, state any, props vnode.Props) vnode.ID
}

// Prioritizer is implemented by components that want a non-default
// scheduling priority for their own updates (spec.md §4.7's "component-type
// priority heuristics"). Components that don't implement it get
// PriorityNormal.
type Prioritizer interface {
	Priority() Priority
}

// Initializer is implemented by components needing one-time setup before
// their first render, mirroring ForgeLogic-nojs's OnInit contract.
type Initializer interface {
	OnInit(props vnode.Props) any // returns initial state
}

// Unmounter is implemented by components needing cleanup when their
// instance leaves the tree, mirroring ForgeLogic-nojs's OnDestroy contract.
type Unmounter interface {
	OnUnmount(state any)
}

// ReRenderRequester is the callback a component instance uses to enqueue
// itself for a future render pass (spec.md §4.7's "a component requests
// re-render" trigger). The engine supplies the concrete implementation;
// components only see this narrow closure.
type ReRenderRequester func(priority Priority)

// TypeID derives a deterministic identifier for a component type from its
// package path and type name, for stable cross-run identity in the
// registry's position keys. Grounded on ForgeLogic-nojs's
// nojs/typeid.GenerateTypeID, generalized by dropping the js||wasm build
// tag: nothing about an MD5-based deterministic id is platform-specific.
func TypeID(packagePath, typeName string) string {
	h := md5.Sum([]byte(fmt.Sprintf("%s.%s", packagePath, typeName)))
	return fmt.Sprintf("%08x", binary.BigEndian.Uint32(h[:4]))
}
