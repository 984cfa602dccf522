package events

// Signature describes which element types a bare event name (no "on"
// prefix; see vnode.EventName) is expected to fire on. This is advisory:
// unknown event names and element types are still reconciled and
// dispatched normally (spec.md §6.2 makes no renderer-side event
// allowlist), but the engine uses it to log a diagnostic for likely
// authoring mistakes rather than fail silently.
//
// Adapted from ForgeLogic-nojs's EventRegistry (its original
// events/registry.go), generalized from HTML tag names to the engine's
// own element-type strings, which are author-defined rather than a fixed
// HTML vocabulary.
type Signature struct {
	Name                string
	SupportedElementTypes []string
}

// KnownSignatures is a seed table of the common interaction events,
// covering the element-type vocabulary ForgeLogic-nojs's own examples use
// (button, input, textarea, select, form, div, span, a, img, canvas).
// Hosts may extend it for their own element-type vocabulary; it is not
// exhaustive by construction.
var KnownSignatures = map[string]Signature{
	"click":      {"click", []string{"button", "a", "div", "span", "p", "img"}},
	"input":      {"input", []string{"input", "textarea"}},
	"change":     {"change", []string{"input", "select", "textarea"}},
	"keydown":    {"keydown", []string{"input", "textarea", "div"}},
	"keyup":      {"keyup", []string{"input", "textarea", "div"}},
	"keypress":   {"keypress", []string{"input", "textarea", "div"}},
	"focus":      {"focus", []string{"input", "textarea", "select", "button"}},
	"blur":       {"blur", []string{"input", "textarea", "select", "button"}},
	"submit":     {"submit", []string{"form"}},
	"mousedown":  {"mousedown", []string{"button", "div", "span", "img", "a"}},
	"mouseup":    {"mouseup", []string{"button", "div", "span", "img", "a"}},
	"mousemove":  {"mousemove", []string{"div", "span", "canvas"}},
}

// IsSupported reports whether eventName is a known signature for
// elementType. Unknown event names report true (nothing to flag); known
// event names report whether elementType appears in their supported list.
func IsSupported(eventName, elementType string) bool {
	sig, ok := KnownSignatures[eventName]
	if !ok {
		return true
	}
	for _, t := range sig.SupportedElementTypes {
		if t == elementType {
			return true
		}
	}
	return false
}
