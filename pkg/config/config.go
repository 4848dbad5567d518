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

// Package config loads the documents describing an elastic run: the distribution (timeline,
// interpolation type and elasticity constants) and the SLA with expected time per operation.
package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/timeline"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// Elasticity holds per-run constants used for scoring.
// Percentiles are fractions, for example 0.95.
type Elasticity struct {
	UnderprovisionPercentile decimal.Decimal `yaml:"underprovPercentile"`
	OverprovisionPercentile  decimal.Decimal `yaml:"overprovPercentile"`
	OverprovisionLambda      float64         `yaml:"overprovisionLambda"`
	UnderprovisionWeight     float64         `yaml:"underprovisionWeight"`
	OverprovisionWeight      float64         `yaml:"overprovisionWeight"`
}

// UnmarshalYAML implements yaml.Unmarshaler. Percentiles are parsed exactly, so boundary
// values like 1.0 or 0.0 are detected without float rounding.
func (e *Elasticity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw struct {
		UnderprovisionPercentile string  `yaml:"underprovPercentile"`
		OverprovisionPercentile  string  `yaml:"overprovPercentile"`
		OverprovisionLambda      float64 `yaml:"overprovisionLambda"`
		UnderprovisionWeight     float64 `yaml:"underprovisionWeight"`
		OverprovisionWeight      float64 `yaml:"overprovisionWeight"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	under, err := parsePercentile(raw.UnderprovisionPercentile)
	if err != nil {
		return errors.Wrap(err, "underprovPercentile")
	}
	over, err := parsePercentile(raw.OverprovisionPercentile)
	if err != nil {
		return errors.Wrap(err, "overprovPercentile")
	}

	*e = Elasticity{
		UnderprovisionPercentile: under,
		OverprovisionPercentile:  over,
		OverprovisionLambda:      raw.OverprovisionLambda,
		UnderprovisionWeight:     raw.UnderprovisionWeight,
		OverprovisionWeight:      raw.OverprovisionWeight,
	}
	return nil
}

// Missing percentile is zero and gets clamped when scoring.
func parsePercentile(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

// Validate checks elasticity constants.
func (e Elasticity) Validate() error {
	if e.UnderprovisionWeight < 0 || e.OverprovisionWeight < 0 {
		return errors.Errorf("elasticity weights must be non-negative, got underprovision %g and overprovision %g",
			e.UnderprovisionWeight, e.OverprovisionWeight)
	}
	if e.OverprovisionLambda < 0 || e.OverprovisionLambda > 1 {
		return errors.Errorf("overprovision lambda must be within [0, 1], got %g", e.OverprovisionLambda)
	}
	return nil
}

// Distribution describes the load curve of an elastic run.
type Distribution struct {
	Type       string                `yaml:"type"`
	Timeline   []timeline.Checkpoint `yaml:"timeline"`
	Elasticity *Elasticity           `yaml:"elasticity"`
}

// Mode returns interpolation mode. Unknown types are reported with linear mode.
func (d Distribution) Mode() (timeline.Mode, error) {
	return timeline.ParseMode(d.Type)
}

// Query is an expected time in microseconds for single operation type.
type Query struct {
	Type string `yaml:"type"`
	Time int64  `yaml:"time"`
}

// SLA is a list of expected times per operation.
type SLA struct {
	Queries []Query `yaml:"queries"`
}

// ExpectedTime returns expected time in microseconds for given operation.
func (s SLA) ExpectedTime(operation string) (int64, bool) {
	for _, query := range s.Queries {
		if query.Type == operation {
			return query.Time, true
		}
	}
	return 0, false
}

// Validate checks that expected times are positive and operations are not repeated.
func (s SLA) Validate() error {
	seen := map[string]bool{}
	for _, query := range s.Queries {
		if query.Type == "" {
			return errors.New("sla query without operation type")
		}
		if query.Time <= 0 {
			return errors.Errorf("sla expected time for %q must be positive, got %d", query.Type, query.Time)
		}
		if seen[query.Type] {
			return errors.Errorf("sla defines %q more than once", query.Type)
		}
		seen[query.Type] = true
	}
	return nil
}

// ParseDistribution decodes and validates distribution document.
func ParseDistribution(data []byte) (*Distribution, error) {
	distribution := &Distribution{}
	if err := yaml.Unmarshal(data, distribution); err != nil {
		return nil, errors.Wrap(err, "cannot decode distribution")
	}
	if err := timeline.Validate(distribution.Timeline); err != nil {
		return nil, errors.Wrap(err, "invalid distribution timeline")
	}
	if distribution.Elasticity != nil {
		if err := distribution.Elasticity.Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid distribution elasticity")
		}
	}
	return distribution, nil
}

// ParseSLA decodes and validates SLA document.
func ParseSLA(data []byte) (*SLA, error) {
	sla := &SLA{}
	if err := yaml.Unmarshal(data, sla); err != nil {
		return nil, errors.Wrap(err, "cannot decode sla")
	}
	if err := sla.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid sla")
	}
	return sla, nil
}

// LoadDistribution reads distribution document from file.
func LoadDistribution(path string) (*Distribution, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read distribution file %q", path)
	}
	return ParseDistribution(data)
}

// LoadSLA reads SLA document from file.
func LoadSLA(path string) (*SLA, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read sla file %q", path)
	}
	return ParseSLA(data)
}
