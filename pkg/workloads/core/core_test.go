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

package core

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/rodrigofelix/YCSB/pkg/conf"
	"github.com/rodrigofelix/YCSB/pkg/db"
	"github.com/rodrigofelix/YCSB/pkg/workloads"
	. "github.com/smartystreets/goconvey/convey"
)

func newWorkload(props conf.Properties) *Workload {
	w := New()
	So(w.Init(props), ShouldBeNil)
	return w
}

func TestConfig(t *testing.T) {
	Convey("Defaults follow the core workload", t, func() {
		w := newWorkload(conf.Properties{})
		config := w.Config()
		So(config.Table, ShouldEqual, "usertable")
		So(config.FieldCount, ShouldEqual, 10)
		So(config.FieldLength, ShouldEqual, 100)
		So(config.ReadProportion, ShouldEqual, 0.95)
		So(config.UpdateProportion, ShouldEqual, 0.05)
		So(config.RequestDistribution, ShouldEqual, Uniform)
		So(config.OrderedInserts, ShouldBeFalse)
	})

	Convey("All malformed and invalid properties are reported", t, func() {
		err := New().Init(conf.Properties{"fieldcount": "ten", "fieldlength": "big"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "fieldcount")
		So(err.Error(), ShouldContainSubstring, "fieldlength")

		So(New().Init(conf.Properties{"requestdistribution": "hotspot"}), ShouldNotBeNil)
		So(New().Init(conf.Properties{"readproportion": "0", "updateproportion": "0"}), ShouldNotBeNil)
		So(New().Init(conf.Properties{"readproportion": "-1"}), ShouldNotBeNil)
		So(New().Init(conf.Properties{"requestdistribution": "zipfian", "zipfianconstant": "0.99"}), ShouldNotBeNil)
	})

	Convey("Core workload is registered", t, func() {
		w, err := workloads.New(Name, conf.Properties{"recordcount": "10"})
		So(err, ShouldBeNil)
		So(w, ShouldHaveSameTypeAs, &Workload{})

		_, err = workloads.New("timeseries", nil)
		So(err, ShouldNotBeNil)
	})
}

func TestKeys(t *testing.T) {
	Convey("Ordered inserts use plain record numbers", t, func() {
		w := newWorkload(conf.Properties{"insertorder": "ordered"})
		So(w.Key(42), ShouldEqual, "user42")
	})

	Convey("Hashed inserts scatter record numbers deterministically", t, func() {
		w := newWorkload(conf.Properties{})
		So(w.Key(42), ShouldNotEqual, "user42")
		So(w.Key(42), ShouldEqual, w.Key(42))
		So(w.Key(42), ShouldNotEqual, w.Key(43))
	})
}

func TestOperations(t *testing.T) {
	Convey("When loading data into memory backend", t, func() {
		ctx := context.Background()
		store := db.NewStore()
		handle := db.NewMemory(store)
		w := newWorkload(conf.Properties{"recordcount": "50", "fieldcount": "3", "fieldlength": "8", "insertorder": "ordered"})
		state, err := w.InitThread(0, 1)
		So(err, ShouldBeNil)

		for i := 0; i < 50; i++ {
			So(w.DoInsert(ctx, handle, state), ShouldBeTrue)
		}

		Convey("Every record is inserted with all fields", func() {
			So(store.Len("usertable"), ShouldEqual, 50)
			record, err := handle.Read(ctx, "usertable", "user49", nil)
			So(err, ShouldBeNil)
			So(record, ShouldHaveLength, 3)
			So(record["field2"], ShouldHaveLength, 8)
		})

		Convey("Reads with every distribution hit existing records", func() {
			for _, distribution := range []string{Uniform, Zipfian, Latest} {
				w := newWorkload(conf.Properties{"recordcount": "50", "readproportion": "1", "updateproportion": "0",
					"requestdistribution": distribution, "insertorder": "ordered"})
				state, err := w.InitThread(1, 2)
				So(err, ShouldBeNil)
				s := state.(*threadState)
				for i := 0; i < 200; i++ {
					n := w.nextKeyNumber(s)
					So(n, ShouldBeBetweenOrEqual, 0, 49)
				}
			}
		})

		Convey("Transactional inserts extend the key space", func() {
			w := newWorkload(conf.Properties{"recordcount": "50", "readproportion": "0", "updateproportion": "0",
				"insertproportion": "1", "insertorder": "ordered", "fieldcount": "1"})
			state, err := w.InitThread(0, 1)
			So(err, ShouldBeNil)
			So(w.DoTransaction(ctx, handle, state), ShouldBeTrue)
			_, err = handle.Read(ctx, "usertable", "user50", nil)
			So(err, ShouldBeNil)
		})

		Convey("Cancelled context stops the worker", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			So(w.DoTransaction(cancelled, handle, state), ShouldBeFalse)
		})
	})
}

func TestOperationMix(t *testing.T) {
	Convey("Operations are chosen according to proportions", t, func() {
		w := newWorkload(conf.Properties{"readproportion": "0.5", "updateproportion": "0.25", "scanproportion": "0.25"})
		state := &threadState{rng: rand.New(rand.NewPCG(1, 2))}

		counts := map[operation]int{}
		for i := 0; i < 10000; i++ {
			counts[w.chooseOperation(state)]++
		}
		So(counts[opRead], ShouldBeBetween, 4700, 5300)
		So(counts[opUpdate], ShouldBeBetween, 2200, 2800)
		So(counts[opScan], ShouldBeBetween, 2200, 2800)
		So(counts[opInsert], ShouldEqual, 0)
		So(counts[opReadModifyWrite], ShouldEqual, 0)
	})

	Convey("Stop request is visible to workers", t, func() {
		w := newWorkload(conf.Properties{})
		So(w.StopRequested(), ShouldBeFalse)
		w.RequestStop()
		So(w.StopRequested(), ShouldBeTrue)
	})
}
