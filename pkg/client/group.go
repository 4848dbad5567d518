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

package client

import (
	"context"
	"sync"

	"github.com/rodrigofelix/YCSB/pkg/utils/err_collection"
)

// Group runs fixed set of workers.
type Group struct {
	workers  []*Worker
	wg       sync.WaitGroup
	finished chan struct{}
	errs     errcollection.ErrorCollection
}

// NewGroup returns group of workers, not started yet.
func NewGroup(workers ...*Worker) *Group {
	return &Group{workers: workers, finished: make(chan struct{})}
}

// Start runs every worker in its own goroutine.
func (g *Group) Start(ctx context.Context) {
	for _, worker := range g.workers {
		g.wg.Add(1)
		go func(worker *Worker) {
			defer g.wg.Done()
			g.errs.Add(worker.Run(ctx))
		}(worker)
	}
	go func() {
		g.wg.Wait()
		close(g.finished)
	}()
}

// Wait blocks until every worker exited and returns their errors combined.
func (g *Group) Wait() error {
	<-g.finished
	return g.errs.GetErrIfAny()
}

// Finished is closed when every worker exited.
func (g *Group) Finished() <-chan struct{} {
	return g.finished
}

// OpsDone returns operations completed by all workers.
func (g *Group) OpsDone() int64 {
	var total int64
	for _, worker := range g.workers {
		total += worker.OpsDone()
	}
	return total
}
