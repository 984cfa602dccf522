// Package proputil implements prop-value diffing, stable prop hashing, and
// structural-similarity scoring (spec.md §4.2, §4.1, §4.8). It is grounded
// on ForgeLogic-nojs's patchAttributes (ForgeLogic-nojs/vdom/render.go) for
// the diff shape, generalized from DOM attributes to the full recursive
// prop-value domain spec.md §3 defines.
package proputil

import (
	"reflect"

	"github.com/forgelogic/reconcile/vnode"
)

// Changed is the result of diffing two prop maps: a key mapped to nil means
// removal, per the renderer bridge's update_view contract (spec.md §6.2).
type Changed map[string]any

// Diff computes changed_props per spec.md §4.2. Event-handler props are
// never included; handler reconciliation is a separate concern (§4.6).
func Diff(oldProps, newProps vnode.Props) Changed {
	var changed Changed
	record := func(k string, v any) {
		if changed == nil {
			changed = make(Changed)
		}
		changed[k] = v
	}

	for k, nv := range newProps {
		if vnode.IsEventProp(k, nv) {
			continue
		}
		ov, existed := oldProps[k]
		if !existed {
			record(k, nv)
			continue
		}
		if vnode.IsEventProp(k, ov) {
			// old held a handler, new holds data under the same key: treat as add.
			record(k, nv)
			continue
		}
		if !Equal(ov, nv) {
			record(k, nv)
		}
	}

	for k, ov := range oldProps {
		if vnode.IsEventProp(k, ov) {
			continue
		}
		if _, stillPresent := newProps[k]; !stillPresent {
			record(k, nil)
		}
	}

	return changed
}

// Equal compares two prop values by spec.md §4.2's rule: mappings and
// sequences compared deeply, scalars by value equality.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !Equal(v, bvv) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// NonHandlerProps returns a copy of props with event-handler entries
// removed, suitable for sending to the renderer bridge as create_view's
// props argument (spec.md §4.5 "create_view(id, type, props_minus_handlers)").
func NonHandlerProps(props vnode.Props) vnode.Props {
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

// EventNames returns the set of listener names an element's props require,
// per spec.md §4.6.
func EventNames(props vnode.Props) map[string]struct{} {
	var names map[string]struct{}
	for k, v := range props {
		if vnode.IsEventProp(k, v) {
			if names == nil {
				names = make(map[string]struct{})
			}
			names[vnode.EventName(k)] = struct{}{}
		}
	}
	return names
}
