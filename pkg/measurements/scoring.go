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
	"github.com/rodrigofelix/YCSB/pkg/config"
	"github.com/shopspring/decimal"
)

var (
	maxPercentile = decimal.RequireFromString("0.95")
	minPercentile = decimal.RequireFromString("0.05")
)

// clampPercentile replaces percentiles outside of (0, 1).
func clampPercentile(p decimal.Decimal) decimal.Decimal {
	switch {
	case p.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return maxPercentile
	case p.LessThanOrEqual(decimal.Zero):
		return minPercentile
	}
	return p
}

// percentileIndex returns 0-based position of the p-th order statistic among n sorted samples.
func percentileIndex(n int, p decimal.Decimal) int {
	index := int(decimal.NewFromInt(int64(n)).Mul(p).Ceil().IntPart()) - 1
	if index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}

// Score is the outcome of scoring latency samples of one operation against its SLA.
type Score struct {
	UnderprovisionPercentile decimal.Decimal
	OverprovisionPercentile  decimal.Decimal
	UnderprovisionLatency    int64
	OverprovisionLatency     int64
	UnderprovisionOperations int
	OverprovisionOperations  int
	Underprovision           float64
	Overprovision            float64
	Elasticity               float64
}

// score computes provisioning rates for latencies sorted in ascending order.
// Samples slower than expected time (but faster than the underprovisioning percentile) count as
// underprovisioned with latency/expected. Samples faster than expected*(1-lambda) (but slower
// than the overprovisioning percentile) count as overprovisioned with expected/latency. A sample
// is never counted in both.
func score(sorted []int64, expectedMicros int64, elasticity config.Elasticity) Score {
	s := Score{
		UnderprovisionPercentile: clampPercentile(elasticity.UnderprovisionPercentile),
		OverprovisionPercentile:  clampPercentile(elasticity.OverprovisionPercentile),
	}
	if len(sorted) == 0 {
		return s
	}

	s.UnderprovisionLatency = sorted[percentileIndex(len(sorted), s.UnderprovisionPercentile)]
	s.OverprovisionLatency = sorted[percentileIndex(len(sorted), s.OverprovisionPercentile)]

	expected := float64(expectedMicros)
	overprovisionBound := expected * (1 - elasticity.OverprovisionLambda)

	var underTotal, overTotal float64
	for _, latency := range sorted {
		l := float64(latency)
		if latency > expectedMicros && latency < s.UnderprovisionLatency {
			underTotal += l / expected
			s.UnderprovisionOperations++
		} else if l < overprovisionBound && latency > s.OverprovisionLatency {
			overTotal += expected / l
			s.OverprovisionOperations++
		}
	}

	if s.UnderprovisionOperations > 0 {
		s.Underprovision = underTotal / float64(s.UnderprovisionOperations)
	}
	if s.OverprovisionOperations > 0 {
		s.Overprovision = overTotal / float64(s.OverprovisionOperations)
	}
	s.Elasticity = elasticityScore(s.Underprovision, s.Overprovision, elasticity.UnderprovisionWeight, elasticity.OverprovisionWeight)
	return s
}

// elasticityScore is weighted mean of provisioning rates. Zero weights give zero.
func elasticityScore(underprov, overprov, underWeight, overWeight float64) float64 {
	if underWeight+overWeight == 0 {
		return 0
	}
	return (underWeight*underprov + overWeight*overprov) / (underWeight + overWeight)
}
