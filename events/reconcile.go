// Package events implements event listener reconciliation (spec.md §4.6):
// computing which listener names must be added to or removed from a view's
// renderer-side registration, and keeping the engine-side handler table
// current so a handler-identity change alone never triggers a bridge call.
//
// Grounded on ForgeLogic-nojs's event-args/registry split (its original
// events/registry.go): that file's EventRegistry map is kept here, adapted
// from HTML tag names to generic element-type strings, as validation.go;
// its adapters.go and events.go were dropped (DESIGN.md) since they convert
// syscall/js.Value into typed arg structs, a DOM-specific concern with no
// analogue once the renderer bridge already delivers typed event_data.
package events

import (
	"github.com/forgelogic/reconcile/proputil"
	"github.com/forgelogic/reconcile/registry"
	"github.com/forgelogic/reconcile/vnode"
)

// Reconcile diffs the listener names reg already holds for viewID against
// the event-handler props of newProps (oldProps is not consulted), updates
// reg's handler table, and returns the listener names that
// must be added or removed at the renderer. Per spec.md §4.6: "a change in
// handler identity alone, with the same set of event names, produces no
// renderer-facing effect."
func Reconcile(reg *registry.Registry, viewID vnode.ViewID, oldProps, newProps vnode.Props) (added, removed []string) {
	newNames := collectHandlers(newProps)
	oldNames := reg.ListenerNames(viewID)

	for name, handler := range newNames {
		reg.SetHandler(viewID, name, handler)
		if _, existed := oldNames[name]; !existed {
			added = append(added, name)
		}
	}
	for name := range oldNames {
		if _, stillPresent := newNames[name]; !stillPresent {
			reg.RemoveHandler(viewID, name)
			removed = append(removed, name)
		}
	}
	return added, removed
}

// InitialListenerNames returns the listener names a freshly created
// element's props require, for the create_view effect's initial
// add_event_listeners call (spec.md §4.5).
func InitialListenerNames(reg *registry.Registry, viewID vnode.ViewID, props vnode.Props) []string {
	handlers := collectHandlers(props)
	names := make([]string, 0, len(handlers))
	for name, handler := range handlers {
		reg.SetHandler(viewID, name, handler)
		names = append(names, name)
	}
	return names
}

func collectHandlers(props vnode.Props) map[string]vnode.EventHandler {
	names := proputil.EventNames(props)
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]vnode.EventHandler, len(names))
	for k, v := range props {
		if !vnode.IsEventProp(k, v) {
			continue
		}
		name := vnode.EventName(k)
		if _, want := names[name]; !want {
			continue
		}
		out[name] = v.(vnode.EventHandler)
	}
	return out
}
