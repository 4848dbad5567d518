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

package workloads

import (
	"context"
	"errors"
	"testing"

	"github.com/rodrigofelix/YCSB/pkg/conf"
	"github.com/rodrigofelix/YCSB/pkg/db"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeWorkload struct {
	Stopper
	props conf.Properties
}

func (f *fakeWorkload) Init(props conf.Properties) error {
	if props.Has("fail") {
		return errors.New("init failed")
	}
	f.props = props
	return nil
}

func (f *fakeWorkload) InitThread(int, int) (ThreadState, error) { return nil, nil }

func (f *fakeWorkload) DoInsert(context.Context, db.DB, ThreadState) bool { return true }

func (f *fakeWorkload) DoTransaction(context.Context, db.DB, ThreadState) bool { return true }

func (f *fakeWorkload) Cleanup() error { return nil }

func TestRegistry(t *testing.T) {
	Register("fake", func() Workload { return &fakeWorkload{} })

	Convey("Registered workload is initialized with properties", t, func() {
		workload, err := New("fake", conf.Properties{"recordcount": "5"})
		So(err, ShouldBeNil)
		So(workload.(*fakeWorkload).props.String("recordcount", ""), ShouldEqual, "5")
	})

	Convey("Initialization errors are returned", t, func() {
		_, err := New("fake", conf.Properties{"fail": ""})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "init failed")
	})

	Convey("Unknown workload is an error", t, func() {
		_, err := New("missing", nil)
		So(err, ShouldNotBeNil)
	})

	Convey("Registering twice panics", t, func() {
		So(func() { Register("fake", func() Workload { return &fakeWorkload{} }) }, ShouldPanic)
	})
}

func TestStopper(t *testing.T) {
	Convey("Stopper remembers stop request", t, func() {
		var s Stopper
		So(s.StopRequested(), ShouldBeFalse)
		s.RequestStop()
		So(s.StopRequested(), ShouldBeTrue)
		s.RequestStop()
		So(s.StopRequested(), ShouldBeTrue)
	})
}
