// This file is part of hackvm - https://github.com/db47h/hackvm
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hvi - or hackvm-internal with some commonly used stuff.
package hvi

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
)

// LevelTrace is the slog level used for per-instruction and per-command
// logging. It sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

// Discard is a logger that drops everything.
var Discard = slog.New(slog.DiscardHandler)

// ErrWriter is a simple wrapper to track io errors. Write will keep returning
// the last error over and over.
type ErrWriter struct {
	w   io.Writer
	N   int64
	Err error
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	w.N += int64(n)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// WriteLine writes s followed by a newline.
func (w *ErrWriter) WriteLine(s string) {
	io.WriteString(w, s)
	w.Write([]byte{'\n'})
}

// NewErrWriter returns a new ErrWriter. If w is already an *ErrWriter, it is
// returned as-is.
func NewErrWriter(w io.Writer) *ErrWriter {
	if ew, ok := w.(*ErrWriter); ok {
		return ew
	}
	return &ErrWriter{w: w}
}
