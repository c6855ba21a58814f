package types

import "time"

// BurnInTest is the contract every stress workload implements.
//
// Execute may fan out worker goroutines internally but must join all of
// them before returning; no background work survives the call. The
// configured duration is a soft bound honored cooperatively at loop
// boundaries, never enforced by preemption: a worker stuck in blocking I/O
// is not killed, and callers needing hard timeouts must layer their own
// watchdog.
type BurnInTest interface {
	// Name returns the workload's stable identifier. It doubles as the
	// runner's grouping key: names containing "cpu" or "memory" are placed
	// in the concurrent execution group.
	Name() string

	// DetectHardware queries the hardware-probe collaborator. It has no
	// side effects on engine state and failures surface as errors.
	DetectHardware() (*HardwareSnapshot, error)

	// EstimateDuration predicts the wall-clock time Execute will take.
	// Advisory only.
	EstimateDuration(cfg *TestConfig) time.Duration

	// Execute runs the workload and returns a fully-populated result, or
	// an error which the runner converts to a synthetic Failed result.
	Execute(cfg *TestConfig) (*TestResult, error)

	// Cleanup releases external resources created by Execute. It must be
	// idempotent and safe to call even if Execute failed or never ran.
	Cleanup() error
}
