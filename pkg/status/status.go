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

// Package status provides auxiliary goroutines of a run: periodic progress reporter and
// max execution time watchdog.
package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is default period of status reports.
const DefaultInterval = 10 * time.Second

// Progress is observed set of workers.
type Progress interface {
	OpsDone() int64
	// Finished is closed when every worker exited.
	Finished() <-chan struct{}
}

// Summarizer returns one line summary of measurements.
type Summarizer interface {
	Summary() string
}

// Config of Reporter.
type Config struct {
	Label    string
	Interval time.Duration
	// Standard echoes status lines to Stdout.
	Standard bool
	Stdout   io.Writer
}

// Reporter periodically logs progress of the run.
type Reporter struct {
	config   Config
	progress Progress
	summary  Summarizer
	logger   logrus.FieldLogger
}

// NewReporter returns Reporter of given progress.
func NewReporter(config Config, progress Progress, summary Summarizer, logger logrus.FieldLogger) *Reporter {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Reporter{config: config, progress: progress, summary: summary, logger: logger}
}

// Line formats single status line. Current throughput is omitted until first operation.
func (r *Reporter) Line(elapsed time.Duration, ops int64, current float64) string {
	seconds := int64(elapsed / time.Second)
	if ops == 0 {
		return fmt.Sprintf("%s %d sec: %d operations; %s", r.config.Label, seconds, ops, r.summary.Summary())
	}
	return fmt.Sprintf("%s %d sec: %d operations; %s current ops/sec; %s",
		r.config.Label, seconds, ops, decimal.NewFromFloat(current).Round(2).String(), r.summary.Summary())
}

// Run reports immediately and then every interval until progress is finished or context is
// cancelled. Final report is written when workers finish.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	start := time.Now()
	last := start
	var lastOps int64
	report := func() {
		now := time.Now()
		ops := r.progress.OpsDone()
		var current float64
		if window := now.Sub(last); window > 0 {
			current = float64(ops-lastOps) / window.Seconds()
		}
		last, lastOps = now, ops

		line := r.Line(now.Sub(start), ops, current)
		r.logger.Info(line)
		if r.config.Standard {
			fmt.Fprintln(r.config.Stdout, line)
		}
	}

	report()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.progress.Finished():
			report()
			return
		case <-ticker.C:
			report()
		}
	}
}

// Stopper is asked to stop when watchdog fires.
type Stopper interface {
	RequestStop()
}

// Terminator stops the run after max execution time.
type Terminator struct {
	maxExecution time.Duration
	stopper      Stopper
	cancel       context.CancelFunc
	logger       logrus.FieldLogger
}

// NewTerminator returns watchdog which requests stop of stopper and calls cancel after
// maxExecution.
func NewTerminator(maxExecution time.Duration, stopper Stopper, cancel context.CancelFunc, logger logrus.FieldLogger) *Terminator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Terminator{maxExecution: maxExecution, stopper: stopper, cancel: cancel, logger: logger}
}

// Run waits for max execution time and reports whether the run was terminated. It returns
// early when context is done first.
func (t *Terminator) Run(ctx context.Context) bool {
	timer := time.NewTimer(t.maxExecution)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}

	t.logger.Warnf("Maximum execution time of %v reached, stopping the run", t.maxExecution)
	t.stopper.RequestStop()
	t.cancel()
	return true
}
