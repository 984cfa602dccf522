package reconcile

import "fmt"

// AuthorError covers spec.md §7 category 1: duplicate keys among siblings,
// a component producing an unexpected number of nodes, or a malformed prop
// value shape. These are recovered locally (logged, then the reconciler
// falls back to positional matching or treats the offending slot as Empty)
// rather than returned, so this type exists for diagnostics and tests
// rather than as a propagated error.
type AuthorError struct {
	Reason string
}

func (e *AuthorError) Error() string { return fmt.Sprintf("author error: %s", e.Reason) }

// InvariantViolation covers spec.md §7 category 4: a view id referenced
// that no longer exists, a node mounted twice, or effect ordering that
// would delete before create for the same id. Unmount builds one when a
// view id is not registered to the node being unmounted, logs it at error
// level and drops that delete. This is the same in every build: nothing
// about it is fatal, and the dev/prod commit files do not handle it.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string { return fmt.Sprintf("invariant violation: %s", e.Reason) }
