// Package exitcodes defines the standard exit codes used by burnin.
package exitcodes

// Exit code constants used by burnin
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when the suite completes without failures
// * TestFailure (1): Used when one or more burn-in tests fail
// * RuntimeErr (2): Used for runtime errors such as panics, invalid
//   configuration or interrupt-handler setup failures
const (
	Success     = 0 // Suite passed
	TestFailure = 1 // Test failures
	RuntimeErr  = 2 // Runtime errors
)
