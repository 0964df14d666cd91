// Copyright (c) 2025-2025, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package uctest

import (
	"io"
	"os"
)

// Sink receives the human readable result stream of a run
type Sink interface {
	Emit(text string)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(text string)

func (f SinkFunc) Emit(text string) { f(text) }

// WriterSink emits to an io.Writer, write errors are dropped as there is nowhere to report them
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a Sink that writes to w, os.Stdout when w is nil
func NewWriterSink(w io.Writer) *WriterSink {
	if w == nil {
		w = os.Stdout
	}

	return &WriterSink{w: w}
}

func (s *WriterSink) Emit(text string) {
	io.WriteString(s.w, text)
}

// NopSink discards everything
type NopSink struct{}

func (NopSink) Emit(string) {}

// DefaultSink is the Sink selected at build time, standard output unless built with uctest_noprint
func DefaultSink() Sink {
	if !PrintfEnabled {
		return NopSink{}
	}

	return NewWriterSink(os.Stdout)
}
