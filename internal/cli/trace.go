package cli

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

const maxFrames = 32

type tracedError struct {
	err error
	pcs []uintptr
}

func (e *tracedError) Error() string { return e.err.Error() }
func (e *tracedError) Unwrap() error { return e.err }

// WithStack records the caller's stack on err unless err already carries one.
func WithStack(err error) error {
	return withStack(err, 3)
}

func withStack(err error, skip int) error {
	if err == nil {
		return nil
	}
	var t *tracedError
	if errors.As(err, &t) {
		return err
	}
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip, pcs)
	return &tracedError{err: err, pcs: pcs[:n]}
}

// Trace renders err as a multi-line diagnostic: the message, the recorded
// stack frames (runtime internals omitted) and the distinct messages of the
// wrapped causes.
func Trace(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(err.Error())

	var t *tracedError
	if errors.As(err, &t) {
		frames := runtime.CallersFrames(t.pcs)
		for {
			f, more := frames.Next()
			if f.Function != "" && !strings.HasPrefix(f.Function, "runtime.") {
				fmt.Fprintf(&b, "\n    at %s (%s:%d)", f.Function, f.File, f.Line)
			}
			if !more {
				break
			}
		}
	}

	prev := err.Error()
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		msg := cause.Error()
		if msg == prev {
			continue
		}
		b.WriteString("\ncaused by: ")
		b.WriteString(msg)
		prev = msg
	}
	return b.String()
}

// traced wraps a cobra handler so its errors carry the handler stack.
func traced(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := run(cmd, args); err != nil {
			return withStack(err, 2)
		}
		return nil
	}
}
