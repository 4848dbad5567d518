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
	"strings"

	"github.com/pkg/errors"
)

// Kind selects aggregator used for every operation of a run.
type Kind string

const (
	// Histogram buckets latencies in one millisecond buckets.
	Histogram Kind = "histogram"
	// TimeSeries averages latencies in fixed time windows.
	TimeSeries Kind = "timeseries"
	// Individual keeps every sample and scores them against SLA.
	Individual Kind = "individual"
)

// ParseKind returns aggregator kind for given name. Empty name means Histogram.
func ParseKind(name string) (Kind, error) {
	switch kind := Kind(strings.ToLower(strings.TrimSpace(name))); kind {
	case "":
		return Histogram, nil
	case Histogram, TimeSeries, Individual:
		return kind, nil
	}
	return Histogram, errors.Errorf("unknown measurement type %q", name)
}
