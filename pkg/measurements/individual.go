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
	"sync"

	"github.com/rodrigofelix/YCSB/pkg/config"
	"github.com/rodrigofelix/YCSB/pkg/measurements/exporter"
	"github.com/shopspring/decimal"
)

const microsPerSecond = 1000000

type sample struct {
	offsetMicros  int64
	latencyMicros int64
}

// individual keeps every sample of an operation and scores them against expected time.
type individual struct {
	name           string
	expectedMicros int64
	elasticity     config.Elasticity

	mu      sync.Mutex
	stats   stats
	samples []sample
}

func newIndividual(name string, expectedMicros int64, elasticity config.Elasticity) *individual {
	return &individual{
		name:           name,
		expectedMicros: expectedMicros,
		elasticity:     elasticity,
		stats:          newStats(),
	}
}

func (i *individual) Name() string { return i.name }

func (i *individual) Measure(offsetMicros, latencyMicros int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.samples = append(i.samples, sample{offsetMicros: offsetMicros, latencyMicros: latencyMicros})
	i.stats.add(latencyMicros)
}

func (i *individual) ReportReturnCode(code int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stats.returnCodes[code]++
}

func (i *individual) Summary() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stats.summary(i.name)
}

func (i *individual) Export(exp exporter.Exporter) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	w := &writes{exporter: exp, category: i.name}
	w.write("Operations", i.stats.operations)
	w.write("TotalLatency(us)", i.stats.totalLatency)
	w.write("AverageLatency(us)", i.stats.average())
	w.write("MinLatency(us)", i.stats.min)
	w.write("MaxLatency(us)", i.stats.max)
	w.returnCodes(i.stats.returnCodes)

	chronological := append([]sample(nil), i.samples...)
	sort.SliceStable(chronological, func(a, b int) bool {
		return chronological[a].offsetMicros < chronological[b].offsetMicros
	})
	for _, s := range chronological {
		w.write("Sample", fmt.Sprintf("%d, %d", s.offsetMicros, s.latencyMicros))
	}
	for _, avg := range perSecondAverages(chronological) {
		w.write("Average", fmt.Sprintf("%d, %d", avg.second*microsPerSecond, avg.latencyMicros))
	}

	if len(i.samples) == 0 {
		return w.err
	}

	latencies := make([]int64, len(i.samples))
	for n, s := range i.samples {
		latencies[n] = s.latencyMicros
	}
	sort.Slice(latencies, func(a, b int) bool { return latencies[a] < latencies[b] })
	result := score(latencies, i.expectedMicros, i.elasticity)

	w.write(percentileLabel(result.UnderprovisionPercentile), result.UnderprovisionLatency)
	w.write("Underprov", result.Underprovision)
	w.write("UnderprovOperations", result.UnderprovisionOperations)
	w.write(percentileLabel(result.OverprovisionPercentile), result.OverprovisionLatency)
	w.write("Overprov", result.Overprovision)
	w.write("OverprovOperations", result.OverprovisionOperations)
	w.write("Elasticity", result.Elasticity)
	return w.err
}

func percentileLabel(p decimal.Decimal) string {
	return fmt.Sprintf("%sthPercentileLatency(us)", p.Shift(2).String())
}

type secondAverage struct {
	second        int64
	latencyMicros int64
}

// perSecondAverages buckets chronologically sorted samples by whole second of their offset and
// averages latency within every occupied bucket.
func perSecondAverages(chronological []sample) []secondAverage {
	var averages []secondAverage
	var sum, count int64
	current := int64(-1)
	for _, s := range chronological {
		second := s.offsetMicros / microsPerSecond
		if second != current && count > 0 {
			averages = append(averages, secondAverage{second: current, latencyMicros: sum / count})
			sum, count = 0, 0
		}
		current = second
		sum += s.latencyMicros
		count++
	}
	if count > 0 {
		averages = append(averages, secondAverage{second: current, latencyMicros: sum / count})
	}
	return averages
}
