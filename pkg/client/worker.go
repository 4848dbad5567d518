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

// Package client implements benchmark workers. A worker is one logical client executing
// workload operations against its own backend handle.
package client

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/db"
	"github.com/rodrigofelix/YCSB/pkg/workloads"
	"github.com/sirupsen/logrus"
)

// Mode selects the worker's stop condition.
type Mode int

const (
	// FixedCount runs until operation count is reached or workload is stopped.
	FixedCount Mode = iota
	// Continuous runs until the worker's own stop flag is set.
	Continuous
)

// Config of a single worker.
type Config struct {
	ID          int
	ThreadCount int
	Mode        Mode
	// Transactions selects DoTransaction over DoInsert.
	Transactions bool
	// OperationCount limits FixedCount mode, 0 means unlimited.
	OperationCount int64
	// TargetPerMs is per-worker throughput target of FixedCount mode, 0 disables throttling.
	TargetPerMs float64
	// QueryDelay is pause between operations of Continuous mode.
	QueryDelay time.Duration
}

// Worker executes operations of a workload.
type Worker struct {
	config   Config
	handle   db.DB
	workload workloads.Workload
	logger   logrus.FieldLogger

	stop    atomic.Bool
	opsDone atomic.Int64
	done    chan struct{}

	release    sync.Once
	releaseErr error
	err        error

	sleep func(ctx context.Context, d time.Duration) bool
}

// New returns worker operating on already initialized handle. The handle is released when
// Run returns.
func New(config Config, handle db.DB, workload workloads.Workload, logger logrus.FieldLogger) *Worker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Worker{
		config:   config,
		handle:   handle,
		workload: workload,
		logger:   logger.WithField("worker", config.ID),
		done:     make(chan struct{}),
		sleep:    sleep,
	}
}

// ID returns worker identity.
func (w *Worker) ID() int {
	return w.config.ID
}

// RequestStop asks worker to exit after its current operation.
func (w *Worker) RequestStop() {
	w.stop.Store(true)
}

// StopRequested reports whether RequestStop was called.
func (w *Worker) StopRequested() bool {
	return w.stop.Load()
}

// OpsDone returns number of completed operations.
func (w *Worker) OpsDone() int64 {
	return w.opsDone.Load()
}

// Done is closed when Run returns.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns result of Run. Valid after Done is closed.
func (w *Worker) Err() error {
	<-w.done
	return w.err
}

// Release cleans up the backend handle. Only the first call has any effect.
func (w *Worker) Release() error {
	w.release.Do(func() {
		w.releaseErr = w.handle.Cleanup()
		if w.releaseErr != nil {
			w.releaseErr = errors.Wrapf(w.releaseErr, "worker %d: cannot release backend handle", w.config.ID)
		}
	})
	return w.releaseErr
}

// Run executes operations until stop condition of the worker's mode. Context cancellation
// interrupts throttle and delay sleeps.
func (w *Worker) Run(ctx context.Context) (err error) {
	defer func() {
		if releaseErr := w.Release(); err == nil {
			err = releaseErr
		}
		w.err = err
		close(w.done)
	}()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("worker %d panicked: %v", w.config.ID, r)
			w.logger.Error(err)
		}
	}()

	state, err := w.workload.InitThread(w.config.ID, w.config.ThreadCount)
	if err != nil {
		return errors.Wrapf(err, "worker %d: cannot initialize workload state", w.config.ID)
	}

	if w.config.Mode == Continuous {
		w.runContinuous(ctx, state)
		return nil
	}
	w.runFixed(ctx, state)
	return nil
}

func (w *Worker) operation(ctx context.Context, state workloads.ThreadState) bool {
	if w.config.Transactions {
		return w.workload.DoTransaction(ctx, w.handle, state)
	}
	return w.workload.DoInsert(ctx, w.handle, state)
}

func (w *Worker) runContinuous(ctx context.Context, state workloads.ThreadState) {
	for !w.StopRequested() && ctx.Err() == nil {
		// The worker keeps its slot until the controller stops it, failed operations are not counted.
		if w.operation(ctx, state) {
			w.opsDone.Add(1)
		} else {
			w.logger.Debug("Operation generator returned no operation")
		}

		if w.config.QueryDelay > 0 && !w.sleep(ctx, w.config.QueryDelay) {
			return
		}
	}
}

func (w *Worker) runFixed(ctx context.Context, state workloads.ThreadState) {
	target := w.config.TargetPerMs
	// Spread workers so they don't all hit the backend at once.
	if target > 0 && target <= 1 {
		spread := time.Duration(rand.Int64N(int64(1/target))) * time.Millisecond
		if !w.sleep(ctx, spread) {
			return
		}
	}

	start := time.Now()
	limit := w.config.OperationCount
	for (limit == 0 || w.OpsDone() < limit) && !w.workload.StopRequested() && ctx.Err() == nil {
		if !w.operation(ctx, state) {
			return
		}
		done := w.opsDone.Add(1)

		if target <= 0 {
			continue
		}
		for float64(time.Since(start))/float64(time.Millisecond) < float64(done)/target {
			if !w.sleep(ctx, time.Millisecond) {
				return
			}
		}
	}
}

// sleep waits for d and reports false when context got cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
