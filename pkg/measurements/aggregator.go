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
	"fmt"
	"sort"

	"github.com/rodrigofelix/YCSB/pkg/measurements/exporter"
)

// Aggregator collects samples of a single operation.
// Implementations are safe for concurrent use.
type Aggregator interface {
	// Name returns operation name.
	Name() string
	// Measure records latency of an operation issued at offsetMicros from the start of the run.
	Measure(offsetMicros, latencyMicros int64)
	// ReportReturnCode records outcome of an operation.
	ReportReturnCode(code int)
	// Export writes collected measurements.
	Export(exporter.Exporter) error
	// Summary returns short description of samples collected since previous call.
	Summary() string
}

// stats are counters shared by all aggregators.
type stats struct {
	operations   int64
	totalLatency int64
	min          int64
	max          int64
	returnCodes  map[int]int64

	windowOperations   int64
	windowTotalLatency int64
}

func newStats() stats {
	return stats{min: -1, max: -1, returnCodes: map[int]int64{}}
}

func (s *stats) add(latencyMicros int64) {
	s.operations++
	s.totalLatency += latencyMicros
	s.windowOperations++
	s.windowTotalLatency += latencyMicros

	if latencyMicros > s.max {
		s.max = latencyMicros
	}
	if s.min < 0 || latencyMicros < s.min {
		s.min = latencyMicros
	}
}

func (s *stats) average() float64 {
	if s.operations == 0 {
		return 0
	}
	return float64(s.totalLatency) / float64(s.operations)
}

// summary describes the window and resets it.
func (s *stats) summary(name string) string {
	if s.windowOperations == 0 {
		return ""
	}
	average := float64(s.windowTotalLatency) / float64(s.windowOperations)
	s.windowOperations, s.windowTotalLatency = 0, 0
	return fmt.Sprintf("[%s AverageLatency(us)=%.2f]", name, average)
}

// writes execute exporter writes in order and stop on the first failure.
type writes struct {
	exporter exporter.Exporter
	category string
	err      error
}

func (w *writes) write(label string, value interface{}) {
	if w.err != nil {
		return
	}
	w.err = w.exporter.Write(w.category, label, value)
}

func (w *writes) returnCodes(codes map[int]int64) {
	sorted := make([]int, 0, len(codes))
	for code := range codes {
		sorted = append(sorted, code)
	}
	sort.Ints(sorted)
	for _, code := range sorted {
		w.write(fmt.Sprintf("Return=%d", code), codes[code])
	}
}
