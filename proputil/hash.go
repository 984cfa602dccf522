package proputil

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/forgelogic/reconcile/vnode"
)

// PropsHash computes a stable hash of an element's non-event props, per
// spec.md §4.1: "event handlers excluded; mappings and sequences hashed
// structurally with deterministic key ordering." Used as the tie-breaker
// key in the by_position_and_props instance-registry table.
func PropsHash(props vnode.Props) uint64 {
	d := xxhash.New()
	hashProps(d, props)
	return d.Sum64()
}

func hashProps(d *xxhash.Digest, props vnode.Props) {
	keys := make([]string, 0, len(props))
	for k, v := range props {
		if vnode.IsEventProp(k, v) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.WriteString(k)
		d.WriteString("=")
		hashValue(d, props[k])
		d.WriteString(";")
	}
}

func hashValue(d *xxhash.Digest, v any) {
	switch tv := v.(type) {
	case nil:
		d.WriteString("null")
	case map[string]any:
		d.WriteString("{")
		keys := make([]string, 0, len(tv))
		for k := range tv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d.WriteString(k)
			d.WriteString(":")
			hashValue(d, tv[k])
			d.WriteString(",")
		}
		d.WriteString("}")
	case []any:
		d.WriteString("[")
		for _, e := range tv {
			hashValue(d, e)
			d.WriteString(",")
		}
		d.WriteString("]")
	default:
		fmt.Fprintf(d, "%v:%T", tv, tv)
	}
}
