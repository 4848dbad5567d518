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
	"strconv"
	"sync"

	"github.com/rodrigofelix/YCSB/pkg/measurements/exporter"
)

// DefaultHistogramBuckets is number of one millisecond buckets before the overflow bucket.
const DefaultHistogramBuckets = 1000

type histogram struct {
	name string

	mu       sync.Mutex
	stats    stats
	buckets  []int64
	overflow int64
}

func newHistogram(name string, buckets int) *histogram {
	if buckets <= 0 {
		buckets = DefaultHistogramBuckets
	}
	return &histogram{name: name, stats: newStats(), buckets: make([]int64, buckets)}
}

func (h *histogram) Name() string { return h.name }

func (h *histogram) Measure(offsetMicros, latencyMicros int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if bucket := latencyMicros / 1000; bucket < int64(len(h.buckets)) {
		h.buckets[bucket]++
	} else {
		h.overflow++
	}
	h.stats.add(latencyMicros)
}

func (h *histogram) ReportReturnCode(code int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.returnCodes[code]++
}

// percentile returns first bucket (in ms) at which cumulative share of operations reaches p.
// Overflowing operations report number of buckets.
func (h *histogram) percentile(p float64) int {
	var cumulative int64
	for i, count := range h.buckets {
		cumulative += count
		if float64(cumulative)/float64(h.stats.operations) >= p {
			return i
		}
	}
	return len(h.buckets)
}

func (h *histogram) Export(exp exporter.Exporter) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	w := &writes{exporter: exp, category: h.name}
	w.write("Operations", h.stats.operations)
	w.write("AverageLatency(us)", h.stats.average())
	w.write("MinLatency(us)", h.stats.min)
	w.write("MaxLatency(us)", h.stats.max)
	if h.stats.operations > 0 {
		w.write("95thPercentileLatency(ms)", h.percentile(0.95))
		w.write("99thPercentileLatency(ms)", h.percentile(0.99))
	}
	w.returnCodes(h.stats.returnCodes)
	for i, count := range h.buckets {
		w.write(strconv.Itoa(i), count)
	}
	w.write(">"+strconv.Itoa(len(h.buckets)), h.overflow)
	return w.err
}

func (h *histogram) Summary() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats.summary(h.name)
}
