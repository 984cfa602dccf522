package effect

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/forgelogic/reconcile/bridge"
	"github.com/forgelogic/reconcile/telemetry/logging"
)

// bridgeErrorLimiter throttles the "bridge effect dispatch failed" log line
// per spec.md §7's log-storm mitigation: a bridge that keeps failing on the
// same kind of effect (a renderer stuck refusing every create_view, say)
// should not flood the log at full volume on every drain.
var bridgeErrorLimiter = logging.NewRateLimited(20)

// Commit is the scoped-acquisition commit phase of spec.md §4.9 and §9's
// "Scoped renderer batch" design note: begin_batch on entry, then either
// commit_batch (success) or rollback_batch (any failure) on every exit
// path — normal return, dispatch error, or panic unwinding through the
// deferred cleanup below.
//
// Any effect-dispatch failure aborts the remaining effects in the batch,
// logs a diagnostic naming the failing command and view id, and leaves the
// caller's current tree unchanged; the next drain reruns reconciliation
// from the last committed tree (spec.md §7 "Bridge errors").
func Commit(b bridge.Bridge, list *List) (err error) {
	b.BeginBatch()
	committed := false
	defer func() {
		if !committed {
			if b.SupportsRollback() {
				b.RollbackBatch()
			} else {
				// No rollback support: the bridge contract (spec.md §6.2)
				// already ordered deletes before creates within the batch,
				// so committing the partial buffer cannot leave two live
				// views claiming one logical slot.
				b.CommitBatch()
			}
		}
	}()

	for i, e := range list.effects {
		if derr := guardedDispatch(b, e); derr != nil {
			err = fmt.Errorf("effect[%d] %s on view %d: %w", i, e.Kind, e.ViewID, derr)
			if bridgeErrorLimiter.Allow(e.Kind.String()) {
				logging.Error("bridge effect dispatch failed, aborting batch",
					zap.Int("index", i),
					zap.String("kind", e.Kind.String()),
					zap.Int32("view_id", int32(e.ViewID)),
					zap.Error(derr),
				)
			}
			return err
		}
	}

	b.CommitBatch()
	committed = true
	return nil
}
