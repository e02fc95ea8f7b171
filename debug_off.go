//go:build !taskrtdebug

package taskrt

// markConsumed is a no-op outside the taskrtdebug build; see debug_on.go.
func markConsumed(_ *bool, _ string) {}
