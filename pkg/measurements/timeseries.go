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
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rodrigofelix/YCSB/pkg/measurements/exporter"
)

// DefaultTimeSeriesGranularity is width of a single time series window.
const DefaultTimeSeriesGranularity = time.Second

type window struct {
	operations   int64
	totalLatency int64
}

type timeSeries struct {
	name              string
	granularityMicros int64

	mu      sync.Mutex
	stats   stats
	windows map[int64]*window
}

func newTimeSeries(name string, granularity time.Duration) *timeSeries {
	switch {
	case granularity <= 0:
		granularity = DefaultTimeSeriesGranularity
	case granularity < time.Microsecond:
		// Offsets are measured in microseconds.
		granularity = time.Microsecond
	}
	return &timeSeries{
		name:              name,
		granularityMicros: int64(granularity / time.Microsecond),
		stats:             newStats(),
		windows:           map[int64]*window{},
	}
}

func (t *timeSeries) Name() string { return t.name }

func (t *timeSeries) Measure(offsetMicros, latencyMicros int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := offsetMicros - offsetMicros%t.granularityMicros
	w, ok := t.windows[start]
	if !ok {
		w = &window{}
		t.windows[start] = w
	}
	w.operations++
	w.totalLatency += latencyMicros
	t.stats.add(latencyMicros)
}

func (t *timeSeries) ReportReturnCode(code int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.returnCodes[code]++
}

// Export writes totals followed by one line per window: window start in milliseconds and
// average latency within it.
func (t *timeSeries) Export(exp exporter.Exporter) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	w := &writes{exporter: exp, category: t.name}
	w.write("Operations", t.stats.operations)
	w.write("AverageLatency(us)", t.stats.average())
	w.write("MinLatency(us)", t.stats.min)
	w.write("MaxLatency(us)", t.stats.max)
	w.returnCodes(t.stats.returnCodes)

	starts := make([]int64, 0, len(t.windows))
	for start := range t.windows {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	for _, start := range starts {
		win := t.windows[start]
		w.write(strconv.FormatInt(start/1000, 10), float64(win.totalLatency)/float64(win.operations))
	}
	return w.err
}

func (t *timeSeries) Summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats.summary(t.name)
}
