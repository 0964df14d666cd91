// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package uctest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// PlanAssertion is a single expression assertion
type PlanAssertion struct {
	// Message is emitted with the result, it may hold {{ expression }} placeholders. Defaults to Expect.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	// Expect is a boolean expr expression evaluated against the facts
	Expect string `json:"expect" yaml:"expect"`
}

// PlanTest declares a test function made of expression assertions
type PlanTest struct {
	Name string `json:"name" yaml:"name"`
	// Mask makes the test function return true even when its assertions fail, the failures still count
	Mask       bool            `json:"mask,omitempty" yaml:"mask,omitempty"`
	Assertions []PlanAssertion `json:"assertions" yaml:"assertions"`
}

// Plan is a declarative, ordered list of tests loaded from YAML or JSON
type Plan struct {
	Name  string     `json:"name,omitempty" yaml:"name,omitempty"`
	Tests []PlanTest `json:"tests" yaml:"tests"`
}

// ParsePlan decodes a JSON or YAML plan, the format is detected from the content
func ParsePlan(data []byte) (*Plan, error) {
	if IsJson(data) {
		return ParseJsonPlan(data)
	}

	return ParseYamlPlan(data)
}

// ParseYamlPlan decodes and validates a YAML plan
func ParseYamlPlan(data []byte) (*Plan, error) {
	plan := &Plan{}
	if err := yaml.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return plan, plan.Validate()
}

// ParseJsonPlan decodes and validates a JSON plan
func ParseJsonPlan(data []byte) (*Plan, error) {
	plan := &Plan{}
	if err := json.Unmarshal(data, plan); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return plan, plan.Validate()
}

// Validate checks that tests are uniquely named and every assertion has an expression
func (p *Plan) Validate() error {
	if len(p.Tests) == 0 {
		return fmt.Errorf("plan has no tests")
	}

	seen := make(map[string]struct{}, len(p.Tests))
	for i, t := range p.Tests {
		if t.Name == "" {
			return fmt.Errorf("test %d has no name", i)
		}
		if _, ok := seen[t.Name]; ok {
			return fmt.Errorf("duplicate test name %q", t.Name)
		}
		seen[t.Name] = struct{}{}

		for j, a := range t.Assertions {
			if strings.TrimSpace(a.Expect) == "" {
				return fmt.Errorf("test %q assertion %d has no expect expression", t.Name, j)
			}
		}
	}

	return nil
}

// Suite builds a Suite with one test function per plan test, in plan order
func (p *Plan) Suite(facts map[string]any) *Suite {
	suite := NewSuite()
	for _, t := range p.Tests {
		suite.Register(t.Name, t.testFunc(facts))
	}

	return suite
}

func (t PlanTest) testFunc(facts map[string]any) TestFunc {
	return func(c *Context) bool {
		ok := true

		for _, a := range t.Assertions {
			msg := a.Message
			if msg == "" {
				msg = a.Expect
			}

			rendered, err := RenderMessage(msg, facts)
			if err != nil {
				c.log.Debug("Could not render assertion message", "message", msg, "error", err)
			} else {
				msg = rendered
			}

			check := c.AssertExpr(msg, a.Expect, facts)
			if check.Stop() {
				return false
			}
			if !check.Passed() {
				ok = false
			}
		}

		return ok || t.Mask
	}
}

// IsJson reports if data looks like a JSON document rather than YAML
func IsJson(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))

	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}
