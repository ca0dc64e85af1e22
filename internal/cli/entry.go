package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/svgo/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// RegisterFunc attaches subcommands, flags and handlers to the root command.
type RegisterFunc func(root *cobra.Command)

// Result is the outcome of a dispatch.
type Result struct {
	Err error
}

type entry struct {
	stderr  io.Writer
	exit    func(code int)
	profile *termenv.Profile
}

// Option configures Main.
type Option func(*entry)

// WithStderr redirects the failure trace.
func WithStderr(w io.Writer) Option {
	return func(e *entry) {
		e.stderr = w
	}
}

// WithExit replaces os.Exit.
func WithExit(fn func(code int)) Option {
	return func(e *entry) {
		e.exit = fn
	}
}

// WithProfile forces the color profile of the failure trace.
func WithProfile(p termenv.Profile) Option {
	return func(e *entry) {
		e.profile = &p
	}
}

// Main configures root with register, dispatches argv and turns a failed
// dispatch into a red trace on stderr and exit status 1. On success it
// writes nothing and does not exit.
func Main(ctx context.Context, root *cobra.Command, register RegisterFunc, argv []string, opts ...Option) {
	e := &entry{
		stderr: os.Stderr,
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(e)
	}
	profile := termenv.NewOutput(e.stderr).EnvColorProfile()
	if e.profile != nil {
		profile = *e.profile
	}

	register(root)
	root.SilenceErrors = true
	root.SilenceUsage = true

	res := <-Dispatch(ctx, root, argv)
	if res.Err != nil {
		fmt.Fprintln(e.stderr, tui.Alarm(profile, Trace(res.Err)))
		e.exit(1)
	}
}

// Dispatch parses argv (program name first) and runs the matching command in
// its own goroutine. The returned channel yields exactly one Result; a panic
// in a handler is reported as an error carrying the panicking stack.
func Dispatch(ctx context.Context, root *cobra.Command, argv []string) <-chan Result {
	args := []string{}
	if len(argv) > 1 {
		args = append(args, argv[1:]...)
	}

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Result{Err: withStack(fmt.Errorf("panic: %v", r), 2)}
			}
		}()
		root.SetArgs(args)
		done <- Result{Err: root.ExecuteContext(ctx)}
	}()
	return done
}
