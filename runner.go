// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package uctest

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// TestFunc is a unit of test logic, the return value is the verdict of the function itself and may
// differ from the outcome of the assertions it made
type TestFunc func(c *Context) bool

// TestCase is a named, registered TestFunc
type TestCase struct {
	Name string
	Func TestFunc
}

// Suite is an ordered list of test cases, they run in registration order
type Suite struct {
	cases []TestCase
}

// NewSuite creates a suite holding cases
func NewSuite(cases ...TestCase) *Suite {
	return &Suite{cases: append([]TestCase{}, cases...)}
}

// Register adds fn under name
func (s *Suite) Register(name string, fn TestFunc) *Suite {
	s.cases = append(s.cases, TestCase{Name: name, Func: fn})
	return s
}

// Add registers functions named after their symbol, main.TestCase1 becomes TestCase1
func (s *Suite) Add(fns ...TestFunc) *Suite {
	for _, fn := range fns {
		s.Register(FuncName(fn), fn)
	}

	return s
}

// Cases is a copy of the registered cases in order
func (s *Suite) Cases() []TestCase {
	return append([]TestCase{}, s.cases...)
}

// Len is the number of registered cases
func (s *Suite) Len() int { return len(s.cases) }

// FuncName derives a short name for fn from its symbol. Method values lose their receiver so
// (*Suite).TestLimits-fm becomes TestLimits, closures keep their funcN suffix.
func FuncName(fn TestFunc) string {
	if fn == nil {
		return ""
	}

	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return ""
	}

	name := f.Name()
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.Index(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimPrefix(name, "glob..")

	if method, ok := strings.CutSuffix(name, "-fm"); ok {
		if idx := strings.LastIndex(method, "."); idx >= 0 {
			method = method[idx+1:]
		}
		return method
	}

	return name
}

// State is the lifecycle of a Runner
type State int

const (
	NotStarted State = iota
	Running
	CompletedClean
	CompletedWithFailure
	StoppedEarly
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case CompletedClean:
		return "completed_clean"
	case CompletedWithFailure:
		return "completed_with_failure"
	case StoppedEarly:
		return "stopped_early"
	default:
		return "unknown"
	}
}

// Terminal reports if the state is a final outcome
func (s State) Terminal() bool {
	return s == CompletedClean || s == CompletedWithFailure || s == StoppedEarly
}

// TestResult records the verdict of one invoked test function
type TestResult struct {
	Name             string `json:"name" yaml:"name"`
	Passed           bool   `json:"passed" yaml:"passed"`
	Assertions       uint32 `json:"assertions" yaml:"assertions"`
	FailedAssertions uint32 `json:"failed_assertions" yaml:"failed_assertions"`
}

// Runner executes a Suite once against a Context
type Runner struct {
	id      string
	ctx     *Context
	suite   *Suite
	state   State
	passed  bool
	results []TestResult
}

// NewRunner prepares a run of suite, ctx holds the shared counter and failure flag
func NewRunner(ctx *Context, suite *Suite) *Runner {
	if ctx == nil {
		ctx = NewContext(DefaultOptions(), nil)
	}
	if suite == nil {
		suite = NewSuite()
	}

	return &Runner{
		id:    uuid.NewString(),
		ctx:   ctx,
		suite: suite,
		state: NotStarted,
	}
}

// RunAll invokes every registered test function in order and stops at the first one that returns false.
// A case without a function counts as a test function that returned false.
// It returns true only when every invoked function returned true, assertion failures that a function chose
// to ignore are visible through Context.AllAssertionsPassed().
//
// A Runner runs once, later calls return the outcome of the first run.
func (r *Runner) RunAll() bool {
	if r.state != NotStarted {
		r.ctx.log.Debug("Runner already ran", "run", r.id, "state", r.state.String())
		return r.passed
	}

	r.state = Running
	r.passed = true

	for _, tc := range r.suite.cases {
		r.ctx.executed++

		startAssertions, startFailures := r.ctx.assertions, r.ctx.failures

		var ok bool
		if tc.Func == nil {
			r.ctx.log.Debug("Test function is not set", "run", r.id, "test", tc.Name)
		} else {
			r.ctx.log.Debug("Invoking test function", "run", r.id, "test", tc.Name, "count", r.ctx.executed)
			ok = tc.Func(r.ctx)
		}

		r.results = append(r.results, TestResult{
			Name:             tc.Name,
			Passed:           ok,
			Assertions:       r.ctx.assertions - startAssertions,
			FailedAssertions: r.ctx.failures - startFailures,
		})

		r.ctx.emit(tc.Name)

		if !ok {
			r.ctx.emit(caseNOKTag)
			r.passed = false
			r.state = StoppedEarly
			r.ctx.log.Debug("Stopping run after failed test function", "run", r.id, "test", tc.Name)
			return false
		}

		r.ctx.emit(caseOKTag)
	}

	if r.ctx.ErrorDetected() {
		r.state = CompletedWithFailure
	} else {
		r.state = CompletedClean
	}

	return true
}

// State is the current lifecycle state
func (r *Runner) State() State { return r.state }

// ID is the unique id of this run
func (r *Runner) ID() string { return r.id }

// Context is the run context shared by all test functions
func (r *Runner) Context() *Context { return r.ctx }

// Results are the verdicts of invoked test functions in invocation order
func (r *Runner) Results() []TestResult {
	return append([]TestResult{}, r.results...)
}

// RunAll runs tests in order against ctx, see Runner.RunAll
func RunAll(ctx *Context, tests ...TestCase) bool {
	return NewRunner(ctx, NewSuite(tests...)).RunAll()
}
