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
	"bytes"
	"math"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (c *closingBuffer) Close() error {
	c.closed = true
	return nil
}

func TestText(t *testing.T) {
	Convey("When writing measurements as text", t, func() {
		output := &closingBuffer{}
		text := NewText(output)

		So(text.Write("READ", "Operations", 10), ShouldBeNil)
		So(text.Write("READ", "AverageLatency(us)", 12.3456), ShouldBeNil)
		So(text.Write("OVERALL", "Throughput(ops/sec)", float32(0.5)), ShouldBeNil)

		Convey("Nothing reaches output before close", func() {
			So(output.Len(), ShouldEqual, 0)
		})

		Convey("Lines are flushed on close and output is closed", func() {
			So(text.Close(), ShouldBeNil)
			So(output.String(), ShouldEqual,
				"[READ], Operations, 10\n[READ], AverageLatency(us), 12.35\n[OVERALL], Throughput(ops/sec), 0.5\n")
			So(output.closed, ShouldBeTrue)
		})
	})
}

func TestTable(t *testing.T) {
	Convey("When writing measurements as table", t, func() {
		output := &bytes.Buffer{}
		table := NewTable(output)

		So(table.Write("UPDATE", "Operations", 3), ShouldBeNil)
		So(table.Write("UPDATE", "Return=0", 3), ShouldBeNil)
		So(table.Close(), ShouldBeNil)

		Convey("Rendered table contains header and rows", func() {
			rendered := output.String()
			So(rendered, ShouldContainSubstring, "CATEGORY")
			So(rendered, ShouldContainSubstring, "Return=0")
			So(strings.Count(rendered, "UPDATE"), ShouldEqual, 2)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Exporters are selected by name", t, func() {
		exp, err := New("table", &bytes.Buffer{})
		So(err, ShouldBeNil)
		So(exp, ShouldHaveSameTypeAs, &Table{})

		Convey("Unknown name falls back to text with an error", func() {
			exp, err := New("json", &bytes.Buffer{})
			So(err, ShouldNotBeNil)
			So(exp, ShouldHaveSameTypeAs, &Text{})
		})
	})
}

func TestFormatValue(t *testing.T) {
	Convey("Floats are rounded to two decimal places", t, func() {
		So(FormatValue(2.0/3), ShouldEqual, "0.67")
		So(FormatValue(float32(1.5)), ShouldEqual, "1.5")
		So(FormatValue(int64(7)), ShouldEqual, "7")
	})

	Convey("Values without decimal form are written as is", t, func() {
		So(func() { FormatValue(math.NaN()) }, ShouldNotPanic)
		So(FormatValue(math.NaN()), ShouldEqual, "NaN")
		So(FormatValue(math.Inf(1)), ShouldEqual, "+Inf")
		So(FormatValue(float32(math.Inf(-1))), ShouldEqual, "-Inf")
	})
}
