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

// Package workloads defines operation generators driving benchmark workers.
package workloads

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/conf"
	"github.com/rodrigofelix/YCSB/pkg/db"
)

// ThreadState is per-worker state returned by InitThread and passed back on every operation.
type ThreadState interface{}

// Workload generates operations. A single Workload is shared by all workers of a run.
type Workload interface {
	// Init reads workload properties. Called once before any worker starts.
	Init(props conf.Properties) error
	// InitThread prepares state for a single worker.
	InitThread(threadID, threadCount int) (ThreadState, error)
	// DoInsert performs one insert of the load phase. False stops the worker.
	DoInsert(ctx context.Context, handle db.DB, state ThreadState) bool
	// DoTransaction performs one operation of the transaction phase. False stops the worker.
	DoTransaction(ctx context.Context, handle db.DB, state ThreadState) bool
	// RequestStop asks all workers to stop at their next iteration.
	RequestStop()
	// StopRequested reports whether RequestStop was called.
	StopRequested() bool
	// Cleanup is called once after all workers are done.
	Cleanup() error
}

// Stopper implements stop part of Workload.
type Stopper struct {
	stop atomic.Bool
}

// RequestStop implements Workload.
func (s *Stopper) RequestStop() {
	s.stop.Store(true)
}

// StopRequested implements Workload.
func (s *Stopper) StopRequested() bool {
	return s.stop.Load()
}

// Creator returns new workload.
type Creator func() Workload

var registry = map[string]Creator{}

// Register makes workload available under name.
func Register(name string, creator Creator) {
	if _, ok := registry[name]; ok {
		panic("workloads: workload " + name + " registered twice")
	}
	registry[name] = creator
}

// New returns named workload initialized with properties.
func New(name string, props conf.Properties) (Workload, error) {
	creator, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown workload %q", name)
	}
	workload := creator()
	if err := workload.Init(props); err != nil {
		return nil, errors.Wrapf(err, "cannot initialize workload %q", name)
	}
	return workload, nil
}
