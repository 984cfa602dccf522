//go:build !dev

package effect

import (
	"fmt"

	"github.com/forgelogic/reconcile/bridge"
)

// guardedDispatch recovers a panic from a single effect's dispatch and
// converts it to an error in production builds, per ForgeLogic-nojs's
// renderer_prod.go (ForgeLogic-nojs/nojs/runtime/renderer_prod.go), so a
// single bad bridge call cannot crash the host process.
func guardedDispatch(b bridge.Bridge, e Effect) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	dispatch(b, e)
	return nil
}
