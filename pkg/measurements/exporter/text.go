// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package exporter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Text writes one `[category], label, value` line per measurement.
type Text struct {
	output io.Writer
	buffer *bufio.Writer
}

// NewText returns text exporter writing to w.
func NewText(w io.Writer) *Text {
	return &Text{output: w, buffer: bufio.NewWriter(w)}
}

// Write implements Exporter.
func (t *Text) Write(category, label string, value interface{}) error {
	_, err := fmt.Fprintf(t.buffer, "[%s], %s, %s\n", category, label, FormatValue(value))
	return errors.Wrap(err, "cannot write measurement")
}

// Close implements Exporter.
func (t *Text) Close() error {
	if err := t.buffer.Flush(); err != nil {
		return errors.Wrap(err, "cannot flush measurements")
	}
	return closeOutput(t.output)
}
