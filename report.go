// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package uctest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

const (
	// SummaryPassed is printed when every test function returned true and no assertion failed
	SummaryPassed = "All test cases successfully passed."
	// SummaryFailed is printed otherwise
	SummaryFailed = "Error detected."
)

// Report summarises a run
type Report struct {
	RunID               string       `json:"run_id" yaml:"run_id"`
	State               string       `json:"state" yaml:"state"`
	Passed              bool         `json:"passed" yaml:"passed"`
	AllAssertionsPassed bool         `json:"all_assertions_passed" yaml:"all_assertions_passed"`
	FailFast            bool         `json:"fail_fast" yaml:"fail_fast"`
	Registered          int          `json:"registered" yaml:"registered"`
	Executed            uint32       `json:"executed" yaml:"executed"`
	Assertions          uint32       `json:"assertions" yaml:"assertions"`
	FailedAssertions    uint32       `json:"failed_assertions" yaml:"failed_assertions"`
	Tests               []TestResult `json:"tests" yaml:"tests"`
}

// Report produces the summary of the run, it may be called before or after RunAll
func (r *Runner) Report() Report {
	return Report{
		RunID:               r.id,
		State:               r.state.String(),
		Passed:              r.state.Terminal() && r.passed,
		AllAssertionsPassed: r.ctx.AllAssertionsPassed(),
		FailFast:            r.ctx.FailFast(),
		Registered:          r.suite.Len(),
		Executed:            r.ctx.Executed(),
		Assertions:          r.ctx.Assertions(),
		FailedAssertions:    r.ctx.FailedAssertions(),
		Tests:               r.Results(),
	}
}

// Clean is true when every test function returned true and no assertion failed
func (r Report) Clean() bool {
	return r.Passed && r.AllAssertionsPassed
}

// Summary writes the two line run summary
func (r Report) Summary(w io.Writer) error {
	line := SummaryFailed
	if r.Clean() {
		line = SummaryPassed
	}

	_, err := fmt.Fprintf(w, "%s\nExecuted %d test functions.\n", line, r.Executed)

	return err
}

// JSON renders the report as indented JSON
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// YAML renders the report as YAML
func (r Report) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
