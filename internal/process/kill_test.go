package process

import "testing"

// KillProcessGroup is only exercised with a non-existent PID here to verify
// it does not panic. Real kill behavior is covered by the browser cleanup
// integration tests; PID 0 would kill the test's own process group.
func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}
