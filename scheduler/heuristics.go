package scheduler

import (
	"strings"

	"github.com/forgelogic/reconcile/component"
)

// DefaultPriority implements spec.md §4.7's component-type heuristic,
// applied when a component does not implement component.Prioritizer: text
// input components get immediate priority, buttons/touchables get high,
// analytics/background components get low, debug/dev tooling gets idle,
// everything else defaults to normal.
func DefaultPriority(componentType string) component.Priority {
	t := strings.ToLower(componentType)
	switch {
	case strings.Contains(t, "input") || strings.Contains(t, "textfield"):
		return component.PriorityImmediate
	case strings.Contains(t, "button") || strings.Contains(t, "touchable") || strings.Contains(t, "pressable"):
		return component.PriorityHigh
	case strings.Contains(t, "analytics") || strings.Contains(t, "background"):
		return component.PriorityLow
	case strings.Contains(t, "debug") || strings.Contains(t, "devtool"):
		return component.PriorityIdle
	default:
		return component.PriorityNormal
	}
}

// PriorityFor resolves the priority an update for instance should use:
// instance's own Prioritizer if implemented, else the component-type
// heuristic.
func PriorityFor(instance any, componentType string) component.Priority {
	if p, ok := instance.(component.Prioritizer); ok {
		return p.Priority()
	}
	return DefaultPriority(componentType)
}
