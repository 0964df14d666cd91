// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package uctest

const (
	okTag      = " [OK]\r\n"
	nokTag     = " [NOK]\r\n"
	caseOKTag  = "\t[OK]\r\n"
	caseNOKTag = "\t[NOK]\r\n"
)

// Options configures a Context, the fail-fast policy is not an option as it is fixed at build time
type Options struct {
	// Sink receives results, DefaultSink() when nil
	Sink Sink
}

// DefaultOptions follows the build time configuration
func DefaultOptions() Options {
	return Options{Sink: DefaultSink()}
}

// Check is the outcome of a single assertion
type Check struct {
	passed bool
	stop   bool
}

// Passed reports if the asserted condition held
func (c Check) Passed() bool { return c.passed }

// Stop reports that fail-fast tripped and the calling test function must return false immediately
func (c Check) Stop() bool { return c.stop }

// Context holds the state of one run: the executed test function counter and the failure flag.
// A Context is not safe for concurrent use, create one per run.
type Context struct {
	failFast bool
	sink     Sink
	log      Logger

	executed   uint32
	failed     bool
	tripped    bool
	assertions uint32
	failures   uint32
}

// NewContext creates a Context for a single run using the build time FailFast policy, log may be nil
func NewContext(opts Options, log Logger) *Context {
	return newContext(opts, log, FailFast)
}

func newContext(opts Options, log Logger, failFast bool) *Context {
	if opts.Sink == nil {
		opts.Sink = DefaultSink()
	}
	if log == nil {
		log = nopLogger{}
	}

	return &Context{
		failFast: failFast,
		sink:     opts.Sink,
		log:      log,
	}
}

// Assert emits message followed by an [OK] or [NOK] tag and records a failure when condition is false.
//
// When fail-fast is enabled a false condition returns a Check with Stop() set, the caller should return false:
//
//	if c.Assert("buffer is empty", buf.Len() == 0).Stop() {
//		return false
//	}
//
// After fail-fast tripped further assertions on the Context are not evaluated or emitted.
func (c *Context) Assert(message string, condition bool) Check {
	if c.tripped {
		c.log.Debug("Skipping assertion after fail-fast", "message", message)
		return Check{stop: true}
	}

	c.assertions++
	c.emit(message)

	if condition {
		c.emit(okTag)
		return Check{passed: true}
	}

	c.emit(nokTag)
	c.failures++
	c.failed = true

	if c.failFast {
		c.tripped = true
		c.log.Debug("Fail-fast triggered", "message", message)
		return Check{stop: true}
	}

	return Check{}
}

// Executed is the number of test functions invoked so far
func (c *Context) Executed() uint32 { return c.executed }

// ErrorDetected reports if any assertion failed, once true it stays true
func (c *Context) ErrorDetected() bool { return c.failed }

// AllAssertionsPassed is true when no assertion failed during the run, regardless of what test functions returned
func (c *Context) AllAssertionsPassed() bool { return !c.failed }

// Assertions is the number of evaluated assertions
func (c *Context) Assertions() uint32 { return c.assertions }

// FailedAssertions is the number of assertions that evaluated false
func (c *Context) FailedAssertions() uint32 { return c.failures }

// FailFast reports the fail-fast policy of the Context
func (c *Context) FailFast() bool { return c.failFast }

func (c *Context) emit(text string) {
	if !PrintfEnabled {
		return
	}

	c.sink.Emit(text)
}
