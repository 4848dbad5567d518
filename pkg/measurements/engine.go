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

// Package measurements aggregates latency samples reported by workers. Every run owns a single
// Engine which lazily creates one aggregator per operation name. Aggregator kind is chosen once
// per run: histogram, time series or individual samples scored against SLA.
package measurements

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/config"
	"github.com/rodrigofelix/YCSB/pkg/measurements/exporter"
	"github.com/sirupsen/logrus"
)

const (
	// OverallCategory is category of run-wide measurements.
	OverallCategory = "OVERALL"
	// RunTimeLabel is run duration in milliseconds.
	RunTimeLabel = "RunTime(ms)"
	// ThroughputLabel is number of operations per second of the run.
	ThroughputLabel = "Throughput(ops/sec)"
)

// Config selects aggregators created by Engine.
// SLA, Elasticity and start time are required by Individual kind only.
type Config struct {
	Kind                  Kind
	HistogramBuckets      int
	TimeSeriesGranularity time.Duration
	SLA                   *config.SLA
	Elasticity            *config.Elasticity
	StartTime             time.Time
	Logger                logrus.FieldLogger
}

// Engine routes samples to per-operation aggregators.
type Engine struct {
	cfg        Config
	elasticity config.Elasticity
	logger     logrus.FieldLogger

	// startNanos is start of the run in Unix nanoseconds, 0 when unknown.
	startNanos atomic.Int64

	mu          sync.RWMutex
	aggregators map[string]Aggregator
}

// New returns Engine using given config.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	e := &Engine{cfg: cfg, logger: logger, aggregators: map[string]Aggregator{}}
	if cfg.Elasticity != nil {
		e.elasticity = *cfg.Elasticity
	}
	if !cfg.StartTime.IsZero() {
		e.SetStartTime(cfg.StartTime)
	}
	return e
}

// SetStartTime sets start of the run. Sample offsets are computed against it.
func (e *Engine) SetStartTime(start time.Time) {
	e.startNanos.Store(start.UnixNano())
}

// StartTime returns start of the run or zero time when not set.
func (e *Engine) StartTime() time.Time {
	nanos := e.startNanos.Load()
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

// Aggregator returns aggregator for operation, creating it on first use.
// At most one aggregator per operation is ever created.
func (e *Engine) Aggregator(operation string) Aggregator {
	e.mu.RLock()
	aggregator, ok := e.aggregators[operation]
	e.mu.RUnlock()
	if ok {
		return aggregator
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if aggregator, ok := e.aggregators[operation]; ok {
		return aggregator
	}
	aggregator = e.create(operation)
	e.aggregators[operation] = aggregator
	return aggregator
}

func (e *Engine) create(operation string) Aggregator {
	switch e.cfg.Kind {
	case TimeSeries:
		return newTimeSeries(operation, e.cfg.TimeSeriesGranularity)
	case Individual:
		if individual := e.individual(operation); individual != nil {
			return individual
		}
	}
	return newHistogram(operation, e.cfg.HistogramBuckets)
}

// individual returns nil and warns when scoring inputs are missing for operation.
func (e *Engine) individual(operation string) Aggregator {
	logger := e.logger.WithField("operation", operation)

	var missing []string
	if e.cfg.SLA == nil {
		missing = append(missing, "sla")
	}
	if e.cfg.Elasticity == nil {
		missing = append(missing, "elasticity configuration")
	}
	if e.startNanos.Load() == 0 {
		missing = append(missing, "start time")
	}
	if len(missing) > 0 {
		logger.Warnf("%s not set to use individual measurement, using histogram instead", strings.Join(missing, ", "))
		return nil
	}

	expected, ok := e.cfg.SLA.ExpectedTime(operation)
	if !ok {
		logger.Warn("sla has no expected time for operation, using histogram instead")
		return nil
	}
	return newIndividual(operation, expected, e.elasticity)
}

// Measure records latency of an operation issued at given time.
func (e *Engine) Measure(operation string, issued time.Time, latencyMicros int64) {
	if latencyMicros < 0 {
		latencyMicros = 0
	}
	offset := issued.UnixNano()
	if start := e.startNanos.Load(); start != 0 {
		offset -= start
	}
	e.Aggregator(operation).Measure(offset/int64(time.Microsecond), latencyMicros)
}

// ReportReturnCode records outcome of an operation.
func (e *Engine) ReportReturnCode(operation string, code int) {
	e.Aggregator(operation).ReportReturnCode(code)
}

func (e *Engine) sorted() []Aggregator {
	e.mu.RLock()
	defer e.mu.RUnlock()

	aggregators := make([]Aggregator, 0, len(e.aggregators))
	for _, aggregator := range e.aggregators {
		aggregators = append(aggregators, aggregator)
	}
	sort.Slice(aggregators, func(i, j int) bool { return aggregators[i].Name() < aggregators[j].Name() })
	return aggregators
}

// Summary returns one line describing every operation since previous call.
func (e *Engine) Summary() string {
	var summaries []string
	for _, aggregator := range e.sorted() {
		if summary := aggregator.Summary(); summary != "" {
			summaries = append(summaries, summary)
		}
	}
	return strings.Join(summaries, " ")
}

// Throughput returns operations per second, 0 for empty runtime.
func Throughput(opsDone int64, runtime time.Duration) float64 {
	runtimeMs := int64(runtime / time.Millisecond)
	if runtimeMs <= 0 {
		return 0
	}
	return float64(opsDone) * 1000 / float64(runtimeMs)
}

// Export writes every operation (sorted by name) followed by run time and throughput,
// then closes exporter.
func (e *Engine) Export(exp exporter.Exporter, opsDone int64, runtime time.Duration) error {
	err := e.export(exp, opsDone, runtime)
	closeErr := exp.Close()
	if err != nil {
		return err
	}
	return errors.Wrap(closeErr, "cannot close exporter")
}

func (e *Engine) export(exp exporter.Exporter, opsDone int64, runtime time.Duration) error {
	for _, aggregator := range e.sorted() {
		if err := aggregator.Export(exp); err != nil {
			return errors.Wrapf(err, "cannot export %q measurements", aggregator.Name())
		}
	}
	if err := exp.Write(OverallCategory, RunTimeLabel, int64(runtime/time.Millisecond)); err != nil {
		return errors.Wrap(err, "cannot export run time")
	}
	if err := exp.Write(OverallCategory, ThroughputLabel, Throughput(opsDone, runtime)); err != nil {
		return errors.Wrap(err, "cannot export throughput")
	}
	return nil
}
