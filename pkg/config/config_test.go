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

package config

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/rodrigofelix/YCSB/pkg/timeline"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

const distributionDocument = `
type: poisson
timeline:
  - time: 0
    value: 1
  - time: 5
    value: 10
elasticity:
  underprovPercentile: 0.95
  overprovPercentile: "0.05"
  overprovisionLambda: 0.1
  underprovisionWeight: 1
  overprovisionWeight: 1
`

const slaDocument = `
queries:
  - type: READ
    time: 1000
  - type: UPDATE
    time: 2500
`

func TestDistribution(t *testing.T) {
	Convey("When parsing distribution document", t, func() {
		distribution, err := ParseDistribution([]byte(distributionDocument))
		So(err, ShouldBeNil)

		Convey("Timeline and mode are decoded", func() {
			So(distribution.Timeline, ShouldResemble, []timeline.Checkpoint{{Time: 0, Target: 1}, {Time: 5, Target: 10}})
			mode, err := distribution.Mode()
			So(err, ShouldBeNil)
			So(mode, ShouldEqual, timeline.Poisson)
		})

		Convey("Percentiles are parsed exactly", func() {
			So(distribution.Elasticity, ShouldNotBeNil)
			So(distribution.Elasticity.UnderprovisionPercentile.Equal(decimal.RequireFromString("0.95")), ShouldBeTrue)
			So(distribution.Elasticity.OverprovisionPercentile.Equal(decimal.RequireFromString("0.05")), ShouldBeTrue)
			So(distribution.Elasticity.OverprovisionLambda, ShouldEqual, 0.1)
		})
	})

	Convey("Distribution without elasticity is accepted", t, func() {
		distribution, err := ParseDistribution([]byte("timeline:\n  - time: 0\n    value: 3\n"))
		So(err, ShouldBeNil)
		So(distribution.Elasticity, ShouldBeNil)
	})

	Convey("Non ascending timeline is rejected", t, func() {
		_, err := ParseDistribution([]byte("timeline:\n  - time: 5\n    value: 10\n  - time: 2\n    value: 20\n"))
		So(err, ShouldNotBeNil)
	})

	Convey("Negative weights and malformed percentiles are rejected", t, func() {
		_, err := ParseDistribution([]byte("timeline:\n  - time: 0\n    value: 1\nelasticity:\n  underprovisionWeight: -1\n"))
		So(err, ShouldNotBeNil)

		_, err = ParseDistribution([]byte("timeline:\n  - time: 0\n    value: 1\nelasticity:\n  underprovPercentile: high\n"))
		So(err, ShouldNotBeNil)
	})
}

func TestSLA(t *testing.T) {
	Convey("When loading SLA document from file", t, func() {
		dir, err := ioutil.TempDir("", "config")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		file := path.Join(dir, "sla.yaml")
		So(ioutil.WriteFile(file, []byte(slaDocument), 0644), ShouldBeNil)

		sla, err := LoadSLA(file)
		So(err, ShouldBeNil)

		Convey("Expected times are available per operation", func() {
			expected, ok := sla.ExpectedTime("UPDATE")
			So(ok, ShouldBeTrue)
			So(expected, ShouldEqual, 2500)

			_, ok = sla.ExpectedTime("SCAN")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Missing file is reported", t, func() {
		_, err := LoadSLA("/nonexistent/sla.yaml")
		So(err, ShouldNotBeNil)
	})

	Convey("Repeated operations and non-positive times are rejected", t, func() {
		_, err := ParseSLA([]byte("queries:\n  - type: READ\n    time: 10\n  - type: READ\n    time: 20\n"))
		So(err, ShouldNotBeNil)

		_, err = ParseSLA([]byte("queries:\n  - type: READ\n    time: 0\n"))
		So(err, ShouldNotBeNil)
	})
}
