// Package interrupt provides the cooperative cancellation token shared by
// the runner and in-flight workloads. The token is set exactly once by an
// asynchronous signal and read at loop and group boundaries; in-flight
// workload iterations are never preempted, so worst-case shutdown latency
// is one workload-iteration quantum.
package interrupt

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Token is a set-once cancellation flag. The zero value is usable and not
// interrupted.
type Token struct {
	interrupted atomic.Bool
}

// NewToken returns a fresh, uninterrupted token.
func NewToken() *Token {
	return &Token{}
}

// Interrupt sets the flag. Safe to call from any goroutine, including a
// signal handler goroutine. Subsequent calls are no-ops.
func (t *Token) Interrupt() {
	t.interrupted.Store(true)
}

// Interrupted reports whether the token has been set. It never clears the
// flag.
func (t *Token) Interrupted() bool {
	return t.interrupted.Load()
}

// Installer wires a token to an external interruption source. The default
// installer listens for SIGINT/SIGTERM; tests substitute their own.
type Installer func(t *Token) error

// DefaultInstaller sets the token on SIGINT or SIGTERM. The notification
// goroutine exits after the first signal; the token is never cleared.
func DefaultInstaller(t *Token) error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-ch
		signal.Stop(ch)
		t.Interrupt()
	}()

	return nil
}
