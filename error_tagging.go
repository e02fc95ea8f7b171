package taskrt

import (
	"errors"
	"fmt"
)

// TaskMetaError exposes correlation metadata for a failed child of a
// Group/OpenGroup: which slot it was (TaskIndex) and at which priority
// tier it ran (TaskPriority) — the two coordinates spec.md §4.7's
// "tagged with its originating task" asks for in a priority scheduler,
// where plain index alone doesn't say whether a failure came from the
// latency-sensitive tier or a background one.
type TaskMetaError interface {
	error
	Unwrap() error
	TaskPriority() int
	TaskIndex() int
}

type taskTaggedError struct {
	err   error
	prio  int
	index int
}

func newTaskTaggedError(err error, prio, index int) error {
	if err == nil {
		return nil
	}
	return &taskTaggedError{err: err, prio: prio, index: index}
}

func (e *taskTaggedError) Error() string     { return e.err.Error() }
func (e *taskTaggedError) Unwrap() error     { return e.err }
func (e *taskTaggedError) TaskPriority() int { return e.prio }
func (e *taskTaggedError) TaskIndex() int    { return e.index }

func (e *taskTaggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "task(index=%d,prio=%d): %+v", e.index, e.prio, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractTaskPriority returns the priority tier the failing child ran at,
// if err (or something it wraps) carries that metadata.
func ExtractTaskPriority(err error) (int, bool) {
	var tme TaskMetaError
	if errors.As(err, &tme) {
		return tme.TaskPriority(), true
	}
	return 0, false
}

// ExtractTaskIndex returns the failing child's slot index within its
// Group/OpenGroup, if err (or something it wraps) carries that metadata.
func ExtractTaskIndex(err error) (int, bool) {
	var tme TaskMetaError
	if errors.As(err, &tme) {
		return tme.TaskIndex(), true
	}
	return 0, false
}
