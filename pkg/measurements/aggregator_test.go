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

package measurements

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHistogram(t *testing.T) {
	Convey("When latencies are recorded in histogram with 10 buckets", t, func() {
		h := newHistogram("READ", 10)
		for i := 0; i < 95; i++ {
			h.Measure(0, 1200)
		}
		for i := 0; i < 4; i++ {
			h.Measure(0, 5500)
		}
		h.Measure(0, 25000)
		h.ReportReturnCode(0)
		h.ReportReturnCode(-1)
		h.ReportReturnCode(0)

		c := &collector{}
		So(h.Export(c), ShouldBeNil)

		Convey("Totals and percentiles in milliseconds are exported", func() {
			So(c.value("Operations"), ShouldEqual, "100")
			So(c.value("MinLatency(us)"), ShouldEqual, "1200")
			So(c.value("MaxLatency(us)"), ShouldEqual, "25000")
			So(c.value("95thPercentileLatency(ms)"), ShouldEqual, "1")
			So(c.value("99thPercentileLatency(ms)"), ShouldEqual, "5")
		})

		Convey("Return codes are sorted and buckets include overflow", func() {
			So(c.triples[6], ShouldResemble, triple{"READ", "Return=-1", "1"})
			So(c.triples[7], ShouldResemble, triple{"READ", "Return=0", "2"})
			So(c.value("5"), ShouldEqual, "4")
			So(c.value(">10"), ShouldEqual, "1")
		})
	})

	Convey("Empty histogram skips percentiles", t, func() {
		c := &collector{}
		So(newHistogram("READ", 0).Export(c), ShouldBeNil)
		So(c.values("95thPercentileLatency(ms)"), ShouldBeEmpty)
		So(c.value(">1000"), ShouldEqual, "0")
	})
}

func TestTimeSeries(t *testing.T) {
	Convey("When latencies are recorded in 500ms windows", t, func() {
		ts := newTimeSeries("UPDATE", 500*time.Millisecond)
		ts.Measure(100000, 10)
		ts.Measure(400000, 30)
		ts.Measure(1700000, 50)

		c := &collector{}
		So(ts.Export(c), ShouldBeNil)

		Convey("Every occupied window is exported with its start in milliseconds", func() {
			So(c.value("Operations"), ShouldEqual, "3")
			So(c.value("0"), ShouldEqual, "20")
			So(c.value("1500"), ShouldEqual, "50")
			So(c.values("500"), ShouldBeEmpty)
		})
	})

	Convey("Windows shorter than a microsecond are widened to one", t, func() {
		ts := newTimeSeries("READ", 500*time.Nanosecond)
		So(ts.granularityMicros, ShouldEqual, 1)
		So(func() { ts.Measure(1500, 10) }, ShouldNotPanic)

		c := &collector{}
		So(ts.Export(c), ShouldBeNil)
		So(c.value("1"), ShouldEqual, "10")
	})
}

func TestIndividual(t *testing.T) {
	Convey("When individual samples are exported", t, func() {
		in := newIndividual("READ", 100, *testElasticity())
		in.Measure(2100000, 400)
		in.Measure(100000, 50)
		in.Measure(900000, 150)
		in.Measure(3500000, 90)
		in.ReportReturnCode(0)

		c := &collector{}
		So(in.Export(c), ShouldBeNil)

		Convey("Totals come first", func() {
			So(c.triples[0], ShouldResemble, triple{"READ", "Operations", "4"})
			So(c.value("TotalLatency(us)"), ShouldEqual, "690")
			So(c.value("AverageLatency(us)"), ShouldEqual, "172.5")
			So(c.value("Return=0"), ShouldEqual, "1")
		})

		Convey("Samples are chronological", func() {
			So(c.values("Sample"), ShouldResemble, []string{"100000, 50", "900000, 150", "2100000, 400", "3500000, 90"})
		})

		Convey("Per second averages skip empty seconds", func() {
			So(c.values("Average"), ShouldResemble, []string{"0, 100", "2000000, 400", "3000000, 90"})
		})

		Convey("Percentiles and scores are exported", func() {
			So(c.value("95thPercentileLatency(us)"), ShouldEqual, "400")
			So(c.value("5thPercentileLatency(us)"), ShouldEqual, "50")
			So(c.value("UnderprovOperations"), ShouldEqual, "1")
			So(c.value("Underprov"), ShouldEqual, "1.5")
			So(c.value("OverprovOperations"), ShouldEqual, "0")
			So(c.value("Elasticity"), ShouldEqual, "0.75")
		})
	})

	Convey("Individual without samples skips scoring", t, func() {
		c := &collector{}
		So(newIndividual("READ", 100, *testElasticity()).Export(c), ShouldBeNil)
		So(c.values("Elasticity"), ShouldBeEmpty)
		So(c.value("Operations"), ShouldEqual, "0")
	})
}
