// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package internal

import (
	"github.com/choria-io/uctest"
)

// TestCase1 asserts a true condition
func TestCase1(c *uctest.Context) bool {
	c.Assert("TestCase1: Detailed information ...", true)

	return true
}

// TestCase2 asserts a false condition and still returns true, only AllAssertionsPassed() notices
func TestCase2(c *uctest.Context) bool {
	if c.Assert("TestCase2: Detailed information ...", false).Stop() {
		return false
	}

	return true
}

// DemoSuite registers the demo test cases, more cases are added here
func DemoSuite() *uctest.Suite {
	return uctest.NewSuite().Add(TestCase1, TestCase2)
}
