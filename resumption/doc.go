// Package resumption implements the suspension/release primitives of
// spec.md §4.10: Mutex, Semaphore, CondVar, AutoResetEvent, Latch and
// Barrier. Every primitive except Semaphore shares the waiter package's
// intrusive list and Record type for parking and waking callers (Semaphore
// is backed by golang.org/x/sync/semaphore and never symmetric-transfers),
// and every primitive exposes the same two-shaped API the original
// describes:
//
//   - a non-suspending release ("unlock", "release", "set", "notify*",
//     "count_down", "arrive") that wakes waiters by posting resumption and
//     never blocks the releaser;
//   - a suspending acquire ("Lock", "Acquire", "Wait"...) that may
//     symmetric-transfer into the woken waiter when releaser and waiter
//     share the same executor and priority (see waiter.Record.Wake).
//
// Bookkeeping (the locked flag, the count, the stored value) is guarded by
// a short-held sync.Mutex internal to each primitive — the primitive's own
// book-keeping critical section is never held across a block, only across
// the handful of instructions that decide whether to wake someone. This
// differs from the fully lock-free single-word compositions of the
// original runtime but keeps the same observable contract; see DESIGN.md.
package resumption
