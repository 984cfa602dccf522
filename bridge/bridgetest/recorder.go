// Package bridgetest provides a recording fake implementation of
// bridge.Bridge for use in reconciler and scheduler tests, mirroring the
// recording-double style of _examples/onstash-greact/vdom/testutil/util.go.
package bridgetest

import (
	"fmt"
	"sort"

	"github.com/forgelogic/reconcile/bridge"
	"github.com/forgelogic/reconcile/vnode"
)

// Call is one recorded bridge invocation, in emission order.
type Call struct {
	Op       string
	ViewID   vnode.ViewID
	ParentID vnode.ViewID
	Index    int
	Type     string
	Props    vnode.Props
	Changed  map[string]any
	Children []vnode.ViewID
	Names    []string
}

func (c Call) String() string {
	return fmt.Sprintf("%s(%v)", c.Op, c.ViewID)
}

// Recorder records every bridge call in order. A failure of a view command
// can be injected via FailOn to exercise spec.md §7's bridge-error path;
// begin_batch and commit_batch never fail.
type Recorder struct {
	Calls            []Call
	BatchDepth       int
	Rollbacks        int
	NoRollbackSupport bool

	// FailOn, if non-empty, names an Op that panics the next time it is
	// invoked (consumed once), for exercising abort-on-bridge-error tests.
	FailOn string
}

func New() *Recorder { return &Recorder{} }

func (r *Recorder) maybeFail(op string) {
	if r.FailOn == op {
		r.FailOn = ""
		panic(fmt.Sprintf("bridgetest: injected failure on %s", op))
	}
}

func (r *Recorder) BeginBatch() {
	r.BatchDepth++
	r.Calls = append(r.Calls, Call{Op: "begin_batch"})
}

func (r *Recorder) CommitBatch() {
	r.BatchDepth--
	r.Calls = append(r.Calls, Call{Op: "commit_batch"})
}

func (r *Recorder) RollbackBatch() {
	r.BatchDepth--
	r.Rollbacks++
	r.Calls = append(r.Calls, Call{Op: "rollback_batch"})
}

func (r *Recorder) SupportsRollback() bool { return !r.NoRollbackSupport }

func (r *Recorder) CreateView(id vnode.ViewID, elementType string, props vnode.Props) {
	r.maybeFail("create_view")
	r.Calls = append(r.Calls, Call{Op: "create_view", ViewID: id, Type: elementType, Props: props})
}

func (r *Recorder) UpdateView(id vnode.ViewID, changed map[string]any) {
	r.maybeFail("update_view")
	r.Calls = append(r.Calls, Call{Op: "update_view", ViewID: id, Changed: changed})
}

func (r *Recorder) DeleteView(id vnode.ViewID) {
	r.maybeFail("delete_view")
	r.Calls = append(r.Calls, Call{Op: "delete_view", ViewID: id})
}

func (r *Recorder) AttachView(id vnode.ViewID, parentID vnode.ViewID, index int) {
	r.maybeFail("attach_view")
	r.Calls = append(r.Calls, Call{Op: "attach_view", ViewID: id, ParentID: parentID, Index: index})
}

func (r *Recorder) DetachView(id vnode.ViewID) {
	r.maybeFail("detach_view")
	r.Calls = append(r.Calls, Call{Op: "detach_view", ViewID: id})
}

func (r *Recorder) SetChildren(parentID vnode.ViewID, childIDs []vnode.ViewID) {
	r.maybeFail("set_children")
	cp := append([]vnode.ViewID(nil), childIDs...)
	r.Calls = append(r.Calls, Call{Op: "set_children", ViewID: parentID, Children: cp})
}

func (r *Recorder) AddEventListeners(id vnode.ViewID, names []string) {
	r.maybeFail("add_event_listeners")
	ns := append([]string(nil), names...)
	sort.Strings(ns)
	r.Calls = append(r.Calls, Call{Op: "add_event_listeners", ViewID: id, Names: ns})
}

func (r *Recorder) RemoveEventListeners(id vnode.ViewID, names []string) {
	r.maybeFail("remove_event_listeners")
	ns := append([]string(nil), names...)
	sort.Strings(ns)
	r.Calls = append(r.Calls, Call{Op: "remove_event_listeners", ViewID: id, Names: ns})
}

// Ops returns just the operation names, in order, for terse assertions.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

var _ bridge.Bridge = (*Recorder)(nil)
