//go:build dev

package effect

import "github.com/forgelogic/reconcile/bridge"

// guardedDispatch lets panics from a single effect's dispatch propagate in
// development builds, for fast failure, per ForgeLogic-nojs's renderer_dev.go
// (ForgeLogic-nojs/nojs/runtime/renderer_dev.go). Commit's deferred
// rollback still runs as the panic unwinds, so the batch is never left
// half-applied even though the panic itself is not recovered here.
func guardedDispatch(b bridge.Bridge, e Effect) error {
	dispatch(b, e)
	return nil
}
