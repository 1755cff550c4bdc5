// Package bridgetest provides a scripted bridge.Runner for tests.
package bridgetest

import (
	"context"
	"slices"
	"sync"

	"github.com/pithecene-io/adbpush/bridge"
)

// Response is the scripted reply for one subcommand.
type Response struct {
	Result *bridge.Result
	Err    error
}

// Runner records every invocation and replies from Responses, keyed by the
// first argument (the bridge subcommand). Handler, when set, takes
// precedence. Unscripted subcommands succeed with empty output.
type Runner struct {
	Responses map[string]Response
	Handler   func(ctx context.Context, args []string) (*bridge.Result, error)

	mu    sync.Mutex
	calls [][]string
}

// NewRunner creates a Runner with no scripted responses.
func NewRunner() *Runner {
	return &Runner{Responses: make(map[string]Response)}
}

// Devices scripts the stdout of the `devices` subcommand.
func (r *Runner) Devices(stdout string) *Runner {
	r.Responses["devices"] = Response{Result: &bridge.Result{Stdout: stdout}}
	return r
}

// Fail scripts an error for the given subcommand.
func (r *Runner) Fail(subcommand string, err error) *Runner {
	r.Responses[subcommand] = Response{Err: err}
	return r
}

// Run implements bridge.Runner.
func (r *Runner) Run(ctx context.Context, args ...string) (*bridge.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, slices.Clone(args))
	r.mu.Unlock()

	if r.Handler != nil {
		return r.Handler(ctx, args)
	}
	if len(args) > 0 {
		if resp, ok := r.Responses[args[0]]; ok {
			if resp.Result == nil && resp.Err == nil {
				return &bridge.Result{}, nil
			}
			return resp.Result, resp.Err
		}
	}
	return &bridge.Result{}, nil
}

// Calls returns a copy of every recorded argument list, in call order.
func (r *Runner) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	for i, call := range r.calls {
		out[i] = slices.Clone(call)
	}
	return out
}

// CallsTo returns the recorded invocations of one subcommand.
func (r *Runner) CallsTo(subcommand string) [][]string {
	var out [][]string
	for _, call := range r.Calls() {
		if len(call) > 0 && call[0] == subcommand {
			out = append(out, call)
		}
	}
	return out
}

// Verify Runner implements bridge.Runner.
var _ bridge.Runner = (*Runner)(nil)
