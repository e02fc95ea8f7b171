package executor

// NewSingleThread returns a CPU executor (ex_cpu_st of spec.md §4.5) pinned
// to exactly one worker. It retains full priority semantics and the same
// submission API as a multi-worker Executor — it is simply a degenerate
// case with nothing to steal from.
func NewSingleThread(opts ...Option) *Executor {
	opts = append(append([]Option{}, opts...), WithThreadCount(1))
	return New(opts...)
}
