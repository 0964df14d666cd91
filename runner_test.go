// Copyright (c) 2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package uctest

import (
	"fmt"

	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func passingCase(c *Context) bool {
	c.Assert("passing", true)
	return true
}

var packageClosure = func(c *Context) bool { return true }

type caseHolder struct{}

func (caseHolder) TestLimits(c *Context) bool { return true }

func (*caseHolder) TestPointerLimits(c *Context) bool { return true }

var _ = g.Describe("Runner", func() {
	var invoked []string

	record := func(name string, result bool) TestCase {
		return TestCase{Name: name, Func: func(c *Context) bool {
			invoked = append(invoked, name)
			return result
		}}
	}

	g.BeforeEach(func() {
		invoked = nil
	})

	g.It("runs every passing test function", func() {
		c := newContext(Options{Sink: NopSink{}}, nil, false)
		suite := NewSuite()
		for i := range 5 {
			suite.Register(fmt.Sprintf("t%d", i), passingCase)
		}

		runner := NewRunner(c, suite)
		Expect(runner.State()).To(Equal(NotStarted))
		Expect(runner.RunAll()).To(BeTrue())
		Expect(c.Executed()).To(Equal(uint32(5)))
		Expect(c.ErrorDetected()).To(BeFalse())
		Expect(runner.State()).To(Equal(CompletedClean))
	})

	g.It("stops at the first test function returning false", func() {
		c := newContext(Options{Sink: NopSink{}}, nil, false)

		res := RunAll(c, record("a", true), record("b", true), record("c", false), record("d", true))
		Expect(res).To(BeFalse())
		Expect(c.Executed()).To(Equal(uint32(3)))
		Expect(invoked).To(Equal([]string{"a", "b", "c"}))
	})

	g.It("stops regardless of the fail-fast policy", func() {
		c := newContext(Options{Sink: NopSink{}}, nil, false)
		runner := NewRunner(c, NewSuite(record("a", false), record("b", true)))

		Expect(runner.RunAll()).To(BeFalse())
		Expect(runner.State()).To(Equal(StoppedEarly))
		Expect(invoked).To(Equal([]string{"a"}))
		Expect(c.ErrorDetected()).To(BeFalse())
	})

	g.It("evaluates every assertion without fail-fast", func() {
		sink, out := recordingSink()
		c := newContext(Options{Sink: sink}, nil, false)

		var seen int
		tc := TestCase{Name: "both", Func: func(c *Context) bool {
			if c.Assert("first", false).Stop() {
				return false
			}
			seen++
			if c.Assert("second", true).Stop() {
				return false
			}
			seen++
			return true
		}}

		Expect(RunAll(c, tc)).To(BeTrue())
		Expect(seen).To(Equal(2))
		Expect(c.ErrorDetected()).To(BeTrue())

		if PrintfEnabled {
			Expect(out.String()).To(Equal("first [NOK]\r\nsecond [OK]\r\nboth\t[OK]\r\n"))
		}
	})

	g.It("abandons the test function with fail-fast", func() {
		sink, out := recordingSink()
		c := newContext(Options{Sink: sink}, nil, true)

		var seen int
		tc := TestCase{Name: "first_fails", Func: func(c *Context) bool {
			if c.Assert("first", false).Stop() {
				return false
			}
			seen++
			c.Assert("second", true)
			return true
		}}

		runner := NewRunner(c, NewSuite(tc, record("after", true)))
		Expect(runner.RunAll()).To(BeFalse())
		Expect(seen).To(BeZero())
		Expect(invoked).To(BeEmpty())
		Expect(c.Executed()).To(Equal(uint32(1)))
		Expect(runner.State()).To(Equal(StoppedEarly))

		if PrintfEnabled {
			Expect(out.String()).To(Equal("first [NOK]\r\nfirst_fails\t[NOK]\r\n"))
			Expect(out.String()).ToNot(ContainSubstring("second"))
		}
	})

	g.It("detects assertion failures masked by the test function", func() {
		c := newContext(Options{Sink: NopSink{}}, nil, false)
		masked := TestCase{Name: "masked", Func: func(c *Context) bool {
			c.Assert("ignored", false)
			return true
		}}

		runner := NewRunner(c, NewSuite(TestCase{Name: "ok", Func: passingCase}, masked))
		Expect(runner.RunAll()).To(BeTrue())
		Expect(c.AllAssertionsPassed()).To(BeFalse())
		Expect(runner.State()).To(Equal(CompletedWithFailure))
	})

	g.It("only runs once", func() {
		c := newContext(Options{Sink: NopSink{}}, nil, false)
		runner := NewRunner(c, NewSuite(record("a", true)))

		Expect(runner.RunAll()).To(BeTrue())
		Expect(runner.RunAll()).To(BeTrue())
		Expect(invoked).To(HaveLen(1))
		Expect(c.Executed()).To(Equal(uint32(1)))
	})

	g.It("does not change state when emitting", func() {
		c := newContext(Options{Sink: NopSink{}}, nil, false)

		c.emit("some text")
		Expect(c.Executed()).To(BeZero())
		Expect(c.ErrorDetected()).To(BeFalse())
	})

	g.It("records per test results", func() {
		c := newContext(Options{Sink: NopSink{}}, nil, false)
		mixed := TestCase{Name: "mixed", Func: func(c *Context) bool {
			c.Assert("a", true)
			c.Assert("b", false)
			c.Assert("c", true)
			return true
		}}

		runner := NewRunner(c, NewSuite(mixed, record("last", false)))
		runner.RunAll()

		Expect(runner.Results()).To(Equal([]TestResult{
			{Name: "mixed", Passed: true, Assertions: 3, FailedAssertions: 1},
			{Name: "last", Passed: false},
		}))
	})

	g.It("treats a case without a function as failed", func() {
		c := newContext(Options{Sink: NopSink{}}, nil, false)
		runner := NewRunner(c, NewSuite(TestCase{Name: "missing"}, record("after", true)))

		Expect(func() { runner.RunAll() }).ToNot(Panic())
		Expect(runner.State()).To(Equal(StoppedEarly))
		Expect(c.Executed()).To(Equal(uint32(1)))
		Expect(invoked).To(BeEmpty())
		Expect(runner.Results()).To(Equal([]TestResult{{Name: "missing", Passed: false}}))
	})

	g.It("stops the free RunAll on a case without a function", func() {
		c := newContext(Options{Sink: NopSink{}}, nil, false)

		Expect(RunAll(c, TestCase{Name: "nil"})).To(BeFalse())
	})

	g.It("handles an empty suite", func() {
		c := newContext(Options{Sink: NopSink{}}, nil, false)
		runner := NewRunner(c, nil)

		Expect(runner.RunAll()).To(BeTrue())
		Expect(runner.State()).To(Equal(CompletedClean))
		Expect(c.Executed()).To(BeZero())
	})
})

var _ = g.Describe("Suite", func() {
	g.It("names functions after their symbol", func() {
		suite := NewSuite().Add(passingCase)

		Expect(suite.Len()).To(Equal(1))
		Expect(suite.Cases()[0].Name).To(Equal("passingCase"))
	})

	g.It("keeps registration order", func() {
		suite := NewSuite().Register("b", passingCase).Register("a", passingCase)

		Expect(suite.Cases()[0].Name).To(Equal("b"))
		Expect(suite.Cases()[1].Name).To(Equal("a"))
	})

	g.It("names method values without their receiver", func() {
		Expect(FuncName(caseHolder{}.TestLimits)).To(Equal("TestLimits"))
		Expect(FuncName((&caseHolder{}).TestPointerLimits)).To(Equal("TestPointerLimits"))
	})

	g.It("names closures without package qualifiers", func() {
		local := func(c *Context) bool { return true }

		for _, fn := range []TestFunc{local, packageClosure} {
			name := FuncName(fn)
			Expect(name).To(MatchRegexp(`func\d+(\.\d+)*$`))
			Expect(name).ToNot(ContainSubstring("/"))
			Expect(name).ToNot(HavePrefix("uctest."))
			Expect(name).ToNot(HavePrefix("."))
		}
	})

	g.It("handles nil functions in FuncName", func() {
		Expect(FuncName(nil)).To(BeEmpty())
	})
})

var _ = g.Describe("State", func() {
	g.It("describes itself", func() {
		Expect(NotStarted.String()).To(Equal("not_started"))
		Expect(StoppedEarly.String()).To(Equal("stopped_early"))
		Expect(State(99).String()).To(Equal("unknown"))
		Expect(Running.Terminal()).To(BeFalse())
		Expect(CompletedWithFailure.Terminal()).To(BeTrue())
	})
})
