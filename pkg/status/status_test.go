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

package status

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeProgress struct {
	ops      atomic.Int64
	finished chan struct{}
}

func (f *fakeProgress) OpsDone() int64 { return f.ops.Load() }

func (f *fakeProgress) Finished() <-chan struct{} { return f.finished }

type fakeSummary string

func (f fakeSummary) Summary() string { return string(f) }

type fakeStopper struct {
	stopped atomic.Bool
}

func (f *fakeStopper) RequestStop() { f.stopped.Store(true) }

func TestReporter(t *testing.T) {
	summary := fakeSummary("[READ AverageLatency(us)=12.50]")

	Convey("Status line", t, func() {
		reporter := NewReporter(Config{Label: "run"}, &fakeProgress{}, summary, nil)

		Convey("Omits current throughput before first operation", func() {
			So(reporter.Line(12500*time.Millisecond, 0, 0), ShouldEqual,
				"run 12 sec: 0 operations; [READ AverageLatency(us)=12.50]")
		})

		Convey("Rounds current throughput to two decimals", func() {
			So(reporter.Line(10*time.Second, 150, 15.456), ShouldEqual,
				"run 10 sec: 150 operations; 15.46 current ops/sec; [READ AverageLatency(us)=12.50]")
		})
	})

	Convey("When workers are already finished", t, func() {
		progress := &fakeProgress{finished: make(chan struct{})}
		progress.ops.Store(42)
		close(progress.finished)
		stdout := &bytes.Buffer{}
		logger, hook := test.NewNullLogger()

		NewReporter(Config{Label: "load", Standard: true, Stdout: stdout}, progress, summary, logger).Run(context.Background())

		Convey("Initial and final reports are written to log and stdout", func() {
			So(hook.AllEntries(), ShouldHaveLength, 2)
			So(hook.LastEntry().Message, ShouldStartWith, "load 0 sec: 42 operations;")
			lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
			So(lines, ShouldHaveLength, 2)
		})
	})

	Convey("Reporter reports periodically until workers finish", t, func() {
		progress := &fakeProgress{finished: make(chan struct{})}
		logger, hook := test.NewNullLogger()
		reporter := NewReporter(Config{Interval: 5 * time.Millisecond}, progress, summary, logger)

		done := make(chan struct{})
		go func() {
			reporter.Run(context.Background())
			close(done)
		}()
		for i := 0; i < 5; i++ {
			progress.ops.Add(10)
			time.Sleep(10 * time.Millisecond)
		}
		close(progress.finished)
		<-done

		So(len(hook.AllEntries()), ShouldBeGreaterThanOrEqualTo, 3)
		So(hook.LastEntry().Message, ShouldContainSubstring, "50 operations")
	})

	Convey("Reporter exits on cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		logger, hook := test.NewNullLogger()
		NewReporter(Config{}, &fakeProgress{finished: make(chan struct{})}, summary, logger).Run(ctx)
		So(hook.AllEntries(), ShouldHaveLength, 1)
	})
}

func TestTerminator(t *testing.T) {
	Convey("Terminator stops workload and cancels run after max execution time", t, func() {
		stopper := &fakeStopper{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		logger, hook := test.NewNullLogger()

		So(NewTerminator(10*time.Millisecond, stopper, cancel, logger).Run(ctx), ShouldBeTrue)
		So(stopper.stopped.Load(), ShouldBeTrue)
		So(ctx.Err(), ShouldEqual, context.Canceled)
		So(hook.LastEntry().Message, ShouldContainSubstring, "Maximum execution time")
	})

	Convey("Terminator does nothing when run finishes first", t, func() {
		stopper := &fakeStopper{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		So(NewTerminator(time.Hour, stopper, cancel, nil).Run(ctx), ShouldBeFalse)
		So(stopper.stopped.Load(), ShouldBeFalse)
	})
}
