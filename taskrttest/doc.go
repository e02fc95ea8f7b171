// Package taskrttest holds end-to-end scenario tests that exercise the
// executor together with the task/spawn API, the kind of whole-stack
// check a single package's own _test.go files can't express. It mirrors
// the scenarios under spec.md §8; the one scenario scoped to a single
// package (channel throughput) lives alongside that package's own tests
// instead of being duplicated here.
package taskrttest
