package taskrt

import "errors"

const Namespace = "taskrt"

var (
	ErrTaskCancelled = errors.New(Namespace + ": task execution cancelled")
	ErrTaskPanicked  = errors.New(Namespace + ": task execution panicked")
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
	ErrPoolFull      = errors.New(Namespace + ": object pool full")
)
