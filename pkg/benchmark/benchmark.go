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

// Package benchmark wires workload, backend, measurements and workers into a single run.
// Transaction runs with a distribution follow the timeline with a load controller, any other
// run uses fixed number of workers.
package benchmark

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/client"
	"github.com/rodrigofelix/YCSB/pkg/conf"
	"github.com/rodrigofelix/YCSB/pkg/config"
	"github.com/rodrigofelix/YCSB/pkg/db"
	"github.com/rodrigofelix/YCSB/pkg/manager"
	"github.com/rodrigofelix/YCSB/pkg/measurements"
	"github.com/rodrigofelix/YCSB/pkg/measurements/exporter"
	"github.com/rodrigofelix/YCSB/pkg/status"
	"github.com/rodrigofelix/YCSB/pkg/utils/err_collection"
	"github.com/rodrigofelix/YCSB/pkg/utils/errutil"
	"github.com/rodrigofelix/YCSB/pkg/workloads"
	"github.com/sirupsen/logrus"
)

// Config of a run.
type Config struct {
	Workload string
	DB       string
	Props    conf.Properties
	// Load runs inserts instead of transactions.
	Load bool

	Threads int
	// Target is total throughput in operations per second, 0 disables throttling.
	Target         float64
	OperationCount int64
	RecordCount    int64
	// InsertCount is number of inserts of a load run, 0 means RecordCount.
	InsertCount int64

	Distribution      *config.Distribution
	SLA               *config.SLA
	InterpolationStep time.Duration
	QueryDelay        time.Duration
	TimelineLog       string

	MeasurementType       measurements.Kind
	HistogramBuckets      int
	TimeSeriesGranularity time.Duration
	Exporter              string
	// ExportFile is destination of results, empty means Stdout.
	ExportFile string

	Status           bool
	StatusInterval   time.Duration
	Label            string
	MaxExecutionTime time.Duration

	Stdout io.Writer
	Logger logrus.FieldLogger
}

// Elastic reports whether run follows the timeline.
func (c Config) Elastic() bool {
	return !c.Load && c.Distribution != nil
}

// Run performs the benchmark and exports measurements. Returned error means the run could
// not be configured or its results could not be exported.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}

	workload, err := workloads.New(cfg.Workload, cfg.Props)
	if err != nil {
		return err
	}
	newDB := func() (db.DB, error) { return db.New(cfg.DB, cfg.Props) }
	validated, err := newDB()
	if err != nil {
		return err
	}
	errutil.Warn(cfg.Logger, validated.Cleanup(), "Cannot release backend handle")

	engineConfig := measurements.Config{
		Kind:                  cfg.MeasurementType,
		HistogramBuckets:      cfg.HistogramBuckets,
		TimeSeriesGranularity: cfg.TimeSeriesGranularity,
		SLA:                   cfg.SLA,
		Logger:                cfg.Logger,
	}
	if cfg.Distribution != nil {
		engineConfig.Elasticity = cfg.Distribution.Elasticity
	}
	engine := measurements.New(engineConfig)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Elastic() {
		err = runElastic(ctx, cancel, cfg, workload, newDB, engine)
	} else {
		err = runClassic(ctx, cancel, cfg, workload, newDB, engine)
	}

	errutil.Warn(cfg.Logger, workload.Cleanup(), "Workload cleanup failed")
	return err
}

func runElastic(ctx context.Context, cancel context.CancelFunc, cfg Config, workload workloads.Workload,
	newDB manager.Factory, engine *measurements.Engine) error {
	mode, err := cfg.Distribution.Mode()
	if err != nil {
		cfg.Logger.Warn(err)
	}

	controller, err := manager.New(manager.Config{
		Timeline:     cfg.Distribution.Timeline,
		Mode:         mode,
		Step:         cfg.InterpolationStep,
		Workload:     workload,
		Transactions: true,
		QueryDelay:   cfg.QueryDelay,
		NewDB:        newDB,
		Engine:       engine,
		Sink:         sink(cfg),
		HistoryPath:  cfg.TimelineLog,
		Logger:       cfg.Logger,
	})
	if err != nil {
		return errors.Wrap(err, "invalid timeline")
	}

	watch(ctx, cancel, cfg, workload, controller, engine)
	start := time.Now()
	err = controller.Run(ctx)
	finished(cfg.Logger, controller.OpsDone(), time.Since(start))
	return err
}

func runClassic(ctx context.Context, cancel context.CancelFunc, cfg Config, workload workloads.Workload,
	newDB manager.Factory, engine *measurements.Engine) error {
	opCount := cfg.OperationCount
	if cfg.Load {
		opCount = cfg.InsertCount
		if opCount == 0 {
			opCount = cfg.RecordCount
		}
	}
	var targetPerMs float64
	if cfg.Target > 0 {
		targetPerMs = cfg.Target / float64(cfg.Threads) / 1000
	}

	workers := make([]*client.Worker, 0, cfg.Threads)
	for id := 0; id < cfg.Threads; id++ {
		handle, err := newDB()
		if err != nil {
			release(cfg.Logger, workers)
			return err
		}
		if err := handle.Init(); err != nil {
			release(cfg.Logger, workers)
			return errors.Wrapf(err, "worker %d: cannot initialize backend handle", id)
		}
		workers = append(workers, client.New(client.Config{
			ID:             id,
			ThreadCount:    cfg.Threads,
			Mode:           client.FixedCount,
			Transactions:   !cfg.Load,
			OperationCount: opCount / int64(cfg.Threads),
			TargetPerMs:    targetPerMs,
		}, db.NewMeasured(handle, engine), workload, cfg.Logger))
	}
	group := client.NewGroup(workers...)

	cfg.Logger.Info("Starting test.")
	start := time.Now()
	engine.SetStartTime(start)
	group.Start(ctx)
	watch(ctx, cancel, cfg, workload, group, engine)

	if err := group.Wait(); err != nil {
		cfg.Logger.Errorf("Workers finished with errors: %v", err)
	}
	runtime := time.Since(start)
	finished(cfg.Logger, group.OpsDone(), runtime)

	exp, err := sink(cfg)()
	if err != nil {
		return errors.Wrap(err, "could not export measurements")
	}
	return errors.Wrap(engine.Export(exp, group.OpsDone(), runtime), "could not export measurements")
}

// release cleans up handles of workers which never ran.
func release(logger logrus.FieldLogger, workers []*client.Worker) {
	var errs errcollection.ErrorCollection
	for _, worker := range workers {
		errs.Add(worker.Release())
	}
	errutil.Warn(logger, errs.GetErrIfAny(), "Cannot release backend handles")
}

func finished(logger logrus.FieldLogger, ops int64, runtime time.Duration) {
	logger.Infof("Completed %s operations in %v", humanize.Comma(ops), runtime.Round(time.Millisecond))
}

// watch starts status reporter and terminator when configured.
func watch(ctx context.Context, cancel context.CancelFunc, cfg Config, workload workloads.Workload,
	progress status.Progress, engine *measurements.Engine) {
	if cfg.Status {
		reporter := status.NewReporter(status.Config{
			Label:    cfg.Label,
			Interval: cfg.StatusInterval,
			Standard: cfg.MeasurementType == measurements.TimeSeries,
			Stdout:   cfg.Stdout,
		}, progress, engine, cfg.Logger)
		go reporter.Run(ctx)
	}
	if cfg.MaxExecutionTime > 0 {
		go status.NewTerminator(cfg.MaxExecutionTime, workload, cancel, cfg.Logger).Run(ctx)
	}
}

// sink opens export file, or standard output when no file is set. Unknown exporter names
// fall back to text.
func sink(cfg Config) manager.Sink {
	return func() (exporter.Exporter, error) {
		var out io.Writer = nopCloser{cfg.Stdout}
		if cfg.ExportFile != "" {
			file, err := os.Create(cfg.ExportFile)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot open export file %q", cfg.ExportFile)
			}
			out = file
		}
		exp, err := exporter.New(cfg.Exporter, out)
		if err != nil {
			cfg.Logger.Warn(err)
		}
		return exp, nil
	}
}

// nopCloser keeps standard output open after export.
type nopCloser struct {
	io.Writer
}
