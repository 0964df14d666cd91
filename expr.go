// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package uctest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/tidwall/gjson"
)

// matches {{ something }}, group 1 is the inner expression
var placeholderRe = regexp.MustCompile(`{{\s*(.*?)\s*}}`)

// AssertExpr evaluates expression against facts and asserts the result.
// An expression that does not compile, fails to run or does not produce a boolean is a failed assertion,
// the message then carries the reason.
func (c *Context) AssertExpr(message string, expression string, facts map[string]any) Check {
	if c.tripped {
		return c.Assert(message, false)
	}

	ok, err := EvalExpr(expression, facts)
	if err != nil {
		c.log.Debug("Expression assertion failed to evaluate", "expression", expression, "error", err)
		return c.Assert(fmt.Sprintf("%s (%v)", message, err), false)
	}

	return c.Assert(message, ok)
}

// EvalExpr runs a boolean expr expression with facts as its environment.
// The lookup(path, [default]) function queries facts using gjson path syntax.
func EvalExpr(expression string, facts map[string]any) (bool, error) {
	env, err := genExprEnv(facts)
	if err != nil {
		return false, err
	}

	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("expr compile error for '%s': %w", expression, err)
	}

	value, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("expr run error for '%s': %w", expression, err)
	}

	res, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("expression '%s' returned %T, expected bool", expression, value)
	}

	return res, nil
}

// RenderMessage replaces {{ expression }} placeholders in message with their evaluated values
func RenderMessage(message string, facts map[string]any) (string, error) {
	matches := placeholderRe.FindAllStringSubmatchIndex(message, -1)
	if matches == nil {
		return message, nil
	}

	env, err := genExprEnv(facts)
	if err != nil {
		return "", err
	}

	var result strings.Builder
	lastIndex := 0

	for _, loc := range matches {
		fullStart, fullEnd := loc[0], loc[1]
		inner := message[loc[2]:loc[3]]

		result.WriteString(message[lastIndex:fullStart])

		program, err := expr.Compile(inner, expr.Env(env))
		if err != nil {
			return "", fmt.Errorf("expr compile error for '%s': %w", inner, err)
		}

		value, err := expr.Run(program, env)
		if err != nil {
			return "", fmt.Errorf("expr run error for '%s': %w", inner, err)
		}

		result.WriteString(fmt.Sprint(value))

		lastIndex = fullEnd
	}

	result.WriteString(message[lastIndex:])

	return result.String(), nil
}

func genExprEnv(facts map[string]any) (map[string]any, error) {
	j, err := json.Marshal(facts)
	if err != nil {
		return nil, fmt.Errorf("could not encode facts: %w", err)
	}

	env := make(map[string]any, len(facts)+1)
	for k, v := range facts {
		env[k] = v
	}

	env["lookup"] = func(key string, dflt ...any) (any, error) {
		res := gjson.GetBytes(j, key)
		if res.Exists() {
			return res.Value(), nil
		}

		if len(dflt) > 0 {
			return dflt[0], nil
		}

		return nil, nil
	}

	return env, nil
}
