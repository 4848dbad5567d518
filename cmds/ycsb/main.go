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

package main

import (
	"context"
	"io/ioutil"
	"os"
	"os/signal"
	"path"
	"strconv"
	"syscall"
	"time"

	"github.com/rodrigofelix/YCSB/pkg/benchmark"
	"github.com/rodrigofelix/YCSB/pkg/conf"
	"github.com/rodrigofelix/YCSB/pkg/config"
	"github.com/rodrigofelix/YCSB/pkg/db"
	_ "github.com/rodrigofelix/YCSB/pkg/db/cassandra"
	"github.com/rodrigofelix/YCSB/pkg/experiment"
	"github.com/rodrigofelix/YCSB/pkg/manager"
	"github.com/rodrigofelix/YCSB/pkg/measurements"
	"github.com/rodrigofelix/YCSB/pkg/measurements/exporter"
	"github.com/rodrigofelix/YCSB/pkg/status"
	"github.com/rodrigofelix/YCSB/pkg/utils/errutil"
	"github.com/rodrigofelix/YCSB/pkg/workloads/core"
	"github.com/sirupsen/logrus"
)

const (
	appName = "ycsb"
	// configDumpFile holds the flags of the run in a form that can be sourced by bash.
	configDumpFile = "config.env"
)

var (
	threadsFlag  = conf.NewIntFlag("threads", "Number of client threads of a run without timeline.", 1)
	targetFlag   = conf.NewFloatFlag("target", "Target throughput of a run without timeline in operations per second, 0 means unthrottled.", 0)
	dbFlag       = conf.NewStringFlag("db", "Backend to run against: basic, memory or cassandra.", db.BasicName)
	workloadFlag = conf.NewStringFlag("workload", "Workload generating operations.", core.Name)
	loadFlag     = conf.NewBoolFlag("load", "Run the loading phase (inserts) instead of transactions.", false)
	statusFlag   = conf.NewBoolFlag("status", "Periodically report progress.", false)
	labelFlag    = conf.NewStringFlag("label", "Label prepended to status lines.", "")

	timelineFlag          = conf.NewFileFlag("timeline", "Distribution document with timeline and elasticity constants. Enables elastic run.", "")
	slaFlag               = conf.NewFileFlag("sla", "SLA document with expected time per operation in microseconds.", "")
	timelineLogFlag       = conf.NewStringFlag("timeline_log", "File the timeline history is written to. Defaults to timeline.log in the run directory.", "")
	interpolationStepFlag = conf.NewDurationFlag("interpolation_step", "Interpolation step between timeline checkpoints, also period of the load controller.", manager.DefaultStep)
	queryDelayFlag        = conf.NewDurationFlag("query_delay", "Pause between operations of a worker in an elastic run.", 0)

	measurementTypeFlag       = conf.NewStringFlag("measurement_type", "Measurement type: histogram, timeseries or individual.", string(measurements.Histogram))
	histogramBucketsFlag      = conf.NewIntFlag("histogram_buckets", "Number of one millisecond histogram buckets.", measurements.DefaultHistogramBuckets)
	timeseriesGranularityFlag = conf.NewDurationFlag("timeseries_granularity", "Window of time series measurements.", measurements.DefaultTimeSeriesGranularity)
	exporterFlag              = conf.NewStringFlag("exporter", "Measurements renderer: text or table.", exporter.TextName)
	exportFileFlag            = conf.NewStringFlag("export_file", "File measurements are exported to, standard output when empty.", "")

	maxExecutionTimeFlag = conf.NewDurationFlag("max_execution_time", "Maximum duration of a run, 0 means unlimited.", 0)
	statusIntervalFlag   = conf.NewDurationFlag("status_interval", "Period of status reports.", status.DefaultInterval)
	operationCountFlag   = conf.NewIntFlag("operation_count", "Number of transactions of a run without timeline, 0 means unlimited.", 0)
	recordCountFlag      = conf.NewIntFlag("record_count", "Number of records in the table.", 0)
	insertCountFlag      = conf.NewIntFlag("insert_count", "Number of inserts of the loading phase, 0 means record_count.", 0)

	propFlag = conf.NewSliceFlag("prop", "Workload or backend property in name=value form, can be repeated (--prop=fieldcount=10).")
)

func main() {
	conf.SetAppName(appName)
	conf.SetHelp(`Benchmark client running a workload against a data store. With a timeline the number of
clients follows its load curve and operations are scored against the SLA.`)
	errutil.Check(conf.ParseFlags())

	runID, err := experiment.NewRunID()
	errutil.Check(err)
	runDirectory := experiment.InitLogging(appName, runID)
	flags := logrus.Fields{}
	for name, value := range conf.GetFlags() {
		flags[name] = value
	}
	logrus.WithFields(flags).Debug("Configuration")
	errutil.Warn(logrus.StandardLogger(),
		ioutil.WriteFile(path.Join(runDirectory, configDumpFile), []byte(conf.DumpConfig()), 0644),
		"Cannot dump configuration")
	logrus.Info("Start time: ", time.Now().Format("2006/01/02 15:04:05"))

	props, err := conf.ParseProperties(propFlag.Value())
	errutil.CheckWithContext(err, "Invalid properties")
	props = countProperties(props)

	kind, err := measurements.ParseKind(measurementTypeFlag.Value())
	errutil.CheckWithContext(err, "Invalid measurement type")

	cfg := benchmark.Config{
		Workload:              workloadFlag.Value(),
		DB:                    dbFlag.Value(),
		Props:                 props,
		Load:                  loadFlag.Value(),
		Threads:               threadsFlag.Value(),
		Target:                targetFlag.Value(),
		OperationCount:        int64(operationCountFlag.Value()),
		RecordCount:           int64(recordCountFlag.Value()),
		InsertCount:           int64(insertCountFlag.Value()),
		InterpolationStep:     interpolationStepFlag.Value(),
		QueryDelay:            queryDelayFlag.Value(),
		TimelineLog:           timelineLogFlag.Value(),
		MeasurementType:       kind,
		HistogramBuckets:      histogramBucketsFlag.Value(),
		TimeSeriesGranularity: timeseriesGranularityFlag.Value(),
		Exporter:              exporterFlag.Value(),
		ExportFile:            exportFileFlag.Value(),
		Status:                statusFlag.Value(),
		StatusInterval:        statusIntervalFlag.Value(),
		Label:                 labelFlag.Value(),
		MaxExecutionTime:      maxExecutionTimeFlag.Value(),
	}
	if cfg.TimelineLog == "" {
		cfg.TimelineLog = path.Join(runDirectory, "timeline.log")
	}

	if timelineFlag.Value() != "" {
		cfg.Distribution, err = config.LoadDistribution(timelineFlag.Value())
		errutil.CheckWithContext(err, "Error when loading timeline file")
	}
	if slaFlag.Value() != "" {
		cfg.SLA, err = config.LoadSLA(slaFlag.Value())
		errutil.CheckWithContext(err, "Error when loading sla file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = benchmark.Run(ctx, cfg)
	errutil.CheckWithContext(err, "Benchmark failed")
	logrus.Info("Run ", runID, " finished")
}

// countProperties passes record and operation counts to the workload unless set as properties.
func countProperties(props conf.Properties) conf.Properties {
	counts := conf.Properties{}
	for name, value := range map[string]int{
		"recordcount":    recordCountFlag.Value(),
		"operationcount": operationCountFlag.Value(),
		"insertcount":    insertCountFlag.Value(),
	} {
		if value > 0 {
			counts[name] = strconv.Itoa(value)
		}
	}
	return counts.Merge(props)
}
