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

// Package manager keeps number of active workers in line with a target timeline.
//
// Controller expands the timeline once and on every tick compares target of the current
// checkpoint with the next one, spawning or stopping workers accordingly. After the last
// checkpoint it drains: stops and joins all workers, persists timeline history and exports
// measurements.
package manager

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/client"
	"github.com/rodrigofelix/YCSB/pkg/db"
	"github.com/rodrigofelix/YCSB/pkg/measurements"
	"github.com/rodrigofelix/YCSB/pkg/measurements/exporter"
	"github.com/rodrigofelix/YCSB/pkg/timeline"
	"github.com/rodrigofelix/YCSB/pkg/utils/err_collection"
	"github.com/rodrigofelix/YCSB/pkg/utils/errutil"
	"github.com/rodrigofelix/YCSB/pkg/workloads"
	"github.com/sirupsen/logrus"
)

// DefaultStep is default interpolation step and tick period.
const DefaultStep = time.Second

// Factory returns new, not yet initialized backend handle.
type Factory func() (db.DB, error)

// Sink opens destination of final export.
type Sink func() (exporter.Exporter, error)

// Config of a Controller.
type Config struct {
	Timeline []timeline.Checkpoint
	Mode     timeline.Mode
	// Step is both interpolation step and tick period.
	Step time.Duration
	// Source drives Poisson interpolation and selection of stopped workers. Nil means random.
	Source rand.Source

	Workload     workloads.Workload
	Transactions bool
	QueryDelay   time.Duration
	NewDB        Factory
	Engine       *measurements.Engine
	Sink         Sink

	// HistoryPath is file the timeline history is persisted to. Empty disables it.
	HistoryPath string
	// Ticks replaces the ticker when set.
	Ticks  <-chan time.Time
	Logger logrus.FieldLogger
}

// Controller owns the live worker set.
type Controller struct {
	config  Config
	targets []int
	logger  logrus.FieldLogger
	rng     *rand.Rand
	history timeline.History

	start    time.Time
	nextID   int
	wg       sync.WaitGroup
	finished chan struct{}

	mu sync.Mutex
	// live are workers not yet observed as exited, spawned are all workers of the run.
	live    []*client.Worker
	spawned []*client.Worker
}

// New validates configuration and expands the timeline.
func New(config Config) (*Controller, error) {
	if len(config.Timeline) == 0 {
		return nil, errors.New("at least one entry must be defined in the timeline")
	}
	if config.Timeline[0].Target <= 0 {
		return nil, errors.Errorf("first timeline entry must be greater than zero, got %d", config.Timeline[0].Target)
	}
	if config.Workload == nil || config.NewDB == nil || config.Engine == nil || config.Sink == nil {
		return nil, errors.New("workload, backend factory, measurement engine and export sink are required")
	}
	if config.Step <= 0 {
		config.Step = DefaultStep
	}
	if config.Source == nil {
		config.Source = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	expanded, err := timeline.Expand(config.Timeline, config.Step.Seconds(), config.Mode, config.Source)
	if err != nil {
		return nil, err
	}

	return &Controller{
		config:   config,
		targets:  timeline.Targets(expanded),
		logger:   config.Logger,
		rng:      rand.New(config.Source),
		finished: make(chan struct{}),
	}, nil
}

// Targets returns expanded target of every tick.
func (c *Controller) Targets() []int {
	return append([]int(nil), c.targets...)
}

// History returns transitions recorded so far.
func (c *Controller) History() []timeline.Entry {
	return c.history.Entries()
}

// Finished is closed when Run returns.
func (c *Controller) Finished() <-chan struct{} {
	return c.finished
}

// OpsDone returns operations completed by all workers of the run.
func (c *Controller) OpsDone() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for _, worker := range c.spawned {
		total += worker.OpsDone()
	}
	return total
}

// Active returns number of workers not asked to stop.
func (c *Controller) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active()
}

func (c *Controller) active() int {
	active := 0
	for _, worker := range c.live {
		if !worker.StopRequested() {
			active++
		}
	}
	return active
}

// Run spawns initial workers and reconciles worker set on every tick until the timeline ends
// or context is cancelled. Then it drains. Returned error means final export failed.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.finished)

	ticks := c.config.Ticks
	if ticks == nil {
		ticker := time.NewTicker(c.config.Step)
		defer ticker.Stop()
		ticks = ticker.C
	}

	c.start = time.Now()
	c.config.Engine.SetStartTime(c.start)

	c.spawn(ctx, c.targets[0])
	c.record()

	for index := 0; ; index++ {
		select {
		case <-ctx.Done():
			c.logger.Warn("Run cancelled, removing all clients")
			return c.drain()
		case <-ticks:
		}

		if index >= len(c.targets)-1 {
			c.logger.Infof("Removing last %d clients", c.Active())
			return c.drain()
		}
		c.tick(ctx, c.targets[index], c.targets[index+1])
	}
}

func (c *Controller) tick(ctx context.Context, current, goal int) {
	c.prune()
	switch {
	case goal > current:
		c.logger.Infof("Changing clients from %d to %d", current, goal)
		c.spawn(ctx, goal-current)
	case goal < current:
		c.logger.Infof("Changing clients from %d to %d", current, goal)
		c.stop(current - goal)
	default:
		c.logger.Infof("Keeping %d clients", current)
	}
	c.record()
}

func (c *Controller) offsetMicros() int64 {
	return time.Since(c.start).Microseconds()
}

func (c *Controller) record() {
	c.history.Append(c.offsetMicros(), c.Active())
}

// spawn starts n workers, each with its own handle initialized before the worker is counted.
func (c *Controller) spawn(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		id := c.nextID
		c.nextID++

		handle, err := c.newHandle()
		if err != nil {
			c.logger.WithField("worker", id).Error(err)
			continue
		}

		worker := client.New(client.Config{
			ID:           id,
			ThreadCount:  n,
			Mode:         client.Continuous,
			Transactions: c.config.Transactions,
			QueryDelay:   c.config.QueryDelay,
		}, handle, c.config.Workload, c.logger)

		c.mu.Lock()
		c.live = append(c.live, worker)
		c.spawned = append(c.spawned, worker)
		c.mu.Unlock()

		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			worker.Run(ctx)
		}()
		c.logger.WithField("worker", id).Debug("Created client")
	}
}

func (c *Controller) newHandle() (db.DB, error) {
	handle, err := c.config.NewDB()
	if err != nil {
		return nil, errors.Wrap(err, "cannot create backend handle")
	}
	if err := handle.Init(); err != nil {
		return nil, errors.Wrap(err, "cannot initialize backend handle")
	}
	return db.NewMeasured(handle, c.config.Engine), nil
}

// stop requests stop of n uniformly chosen active workers.
func (c *Controller) stop(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := make([]*client.Worker, 0, len(c.live))
	for _, worker := range c.live {
		if !worker.StopRequested() {
			active = append(active, worker)
		}
	}
	for i := 0; i < n && len(active) > 0; i++ {
		chosen := c.rng.IntN(len(active))
		active[chosen].RequestStop()
		active[chosen] = active[len(active)-1]
		active = active[:len(active)-1]
	}
}

// prune removes exited workers from the live set.
func (c *Controller) prune() {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.live[:0]
	for _, worker := range c.live {
		select {
		case <-worker.Done():
			if err := worker.Err(); err != nil {
				c.logger.WithField("worker", worker.ID()).Warn(err)
			}
		default:
			live = append(live, worker)
		}
	}
	c.live = live
}

func (c *Controller) drain() error {
	c.mu.Lock()
	for _, worker := range c.live {
		worker.RequestStop()
	}
	c.mu.Unlock()
	c.wg.Wait()
	runtime := time.Since(c.start)

	var errs errcollection.ErrorCollection
	c.mu.Lock()
	for _, worker := range c.live {
		errs.Add(worker.Err())
	}
	c.live = nil
	c.mu.Unlock()
	if err := errs.GetErrIfAny(); err != nil {
		c.logger.Errorf("Workers finished with errors: %v", err)
	}

	c.record()
	if c.config.HistoryPath != "" {
		errutil.Warn(c.logger, c.history.Persist(c.config.HistoryPath), "Cannot persist timeline history")
	}
	for _, entry := range c.history.Entries() {
		c.logger.Debugf("Timeline history: %v", entry)
	}

	sink, err := c.config.Sink()
	if err != nil {
		return errors.Wrap(err, "could not export measurements")
	}
	return errors.Wrap(c.config.Engine.Export(sink, c.OpsDone(), runtime), "could not export measurements")
}
