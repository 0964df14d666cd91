// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package uctest

// Logger receives diagnostic output about a run, it is distinct from the Sink that carries test results.
// *slog.Logger satisfies this interface.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
