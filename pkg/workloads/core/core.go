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

// Package core implements the classic YCSB core workload: simple CRUD operations on records
// made of fixed number of fields, with configurable operation mix and key popularity.
package core

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"strconv"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/conf"
	"github.com/rodrigofelix/YCSB/pkg/db"
	"github.com/rodrigofelix/YCSB/pkg/workloads"
)

// Name is the name workload is registered under.
const Name = "core"

func init() {
	workloads.Register(Name, func() workloads.Workload { return New() })
}

type operation int

const (
	opRead operation = iota
	opUpdate
	opInsert
	opScan
	opReadModifyWrite
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Workload is the core workload.
type Workload struct {
	workloads.Stopper

	config     Config
	fieldNames []string
	// cumulative operation proportions in opRead..opReadModifyWrite order.
	thresholds []float64

	// loadKeys is next key number of the load phase.
	loadKeys atomic.Int64
	// transactionKeys is next key number inserted during transactions, also upper bound for
	// keys chosen by reads.
	transactionKeys atomic.Int64
}

// New returns uninitialized core workload.
func New() *Workload {
	return &Workload{}
}

// Config returns parsed properties.
func (w *Workload) Config() Config {
	return w.config
}

// Init implements workloads.Workload.
func (w *Workload) Init(props conf.Properties) error {
	config, err := ConfigFromProperties(props)
	if err != nil {
		return errors.Wrap(err, "invalid core workload properties")
	}
	w.config = config

	w.fieldNames = make([]string, config.FieldCount)
	for i := range w.fieldNames {
		w.fieldNames[i] = "field" + strconv.Itoa(i)
	}

	proportions := []float64{config.ReadProportion, config.UpdateProportion, config.InsertProportion,
		config.ScanProportion, config.ReadModifyWriteProportion}
	var total float64
	for _, proportion := range proportions {
		total += proportion
	}
	w.thresholds = make([]float64, len(proportions))
	var cumulative float64
	for i, proportion := range proportions {
		cumulative += proportion / total
		w.thresholds[i] = cumulative
	}

	w.loadKeys.Store(config.InsertStart)
	w.transactionKeys.Store(config.RecordCount)
	return nil
}

type threadState struct {
	rng  *rand.Rand
	zipf *rand.Zipf
}

// InitThread implements workloads.Workload.
func (w *Workload) InitThread(threadID, threadCount int) (workloads.ThreadState, error) {
	state := &threadState{rng: rand.New(rand.NewPCG(rand.Uint64(), uint64(threadID)))}
	if w.config.RequestDistribution != Uniform && w.config.RecordCount > 0 {
		state.zipf = rand.NewZipf(state.rng, w.config.ZipfianConstant, 1, uint64(w.config.RecordCount-1))
		if state.zipf == nil {
			return nil, errors.Errorf("cannot create zipfian generator with constant %g", w.config.ZipfianConstant)
		}
	}
	return state, nil
}

// Cleanup implements workloads.Workload.
func (w *Workload) Cleanup() error { return nil }

// Key returns key of record number n.
func (w *Workload) Key(n int64) string {
	if !w.config.OrderedInserts {
		hash := fnv.New64a()
		hash.Write([]byte(strconv.FormatInt(n, 10)))
		return "user" + strconv.FormatUint(hash.Sum64(), 10)
	}
	return "user" + strconv.FormatInt(n, 10)
}

// nextKeyNumber chooses existing record according to request distribution.
func (w *Workload) nextKeyNumber(state *threadState) int64 {
	upper := w.transactionKeys.Load()
	if upper <= 0 {
		return 0
	}
	switch {
	case w.config.RequestDistribution == Zipfian && state.zipf != nil:
		// Scramble popular items across the key space.
		return int64(fnvHash(state.zipf.Uint64()) % uint64(upper))
	case w.config.RequestDistribution == Latest && state.zipf != nil:
		n := upper - 1 - int64(state.zipf.Uint64())
		if n < 0 {
			n = 0
		}
		return n
	}
	return state.rng.Int64N(upper)
}

func fnvHash(n uint64) uint64 {
	hash := fnv.New64a()
	hash.Write([]byte(strconv.FormatUint(n, 10)))
	return hash.Sum64()
}

func (w *Workload) value(state *threadState) []byte {
	value := make([]byte, w.config.FieldLength)
	for i := range value {
		value[i] = letters[state.rng.IntN(len(letters))]
	}
	return value
}

// record builds values of all fields.
func (w *Workload) record(state *threadState) db.Record {
	record := db.Record{}
	for _, name := range w.fieldNames {
		record[name] = w.value(state)
	}
	return record
}

// updateValues builds values of all fields or of a single random one.
func (w *Workload) updateValues(state *threadState) db.Record {
	if w.config.WriteAllFields {
		return w.record(state)
	}
	return db.Record{w.fieldNames[state.rng.IntN(len(w.fieldNames))]: w.value(state)}
}

func (w *Workload) readFields(state *threadState) []string {
	if w.config.ReadAllFields {
		return nil
	}
	return []string{w.fieldNames[state.rng.IntN(len(w.fieldNames))]}
}

func (w *Workload) chooseOperation(state *threadState) operation {
	r := state.rng.Float64()
	for i, threshold := range w.thresholds {
		if r < threshold {
			return operation(i)
		}
	}
	return operation(len(w.thresholds) - 1)
}

// DoInsert implements workloads.Workload. Failed inserts are measured by the backend wrapper,
// so only context cancellation stops the worker.
func (w *Workload) DoInsert(ctx context.Context, handle db.DB, state workloads.ThreadState) bool {
	s := state.(*threadState)
	n := w.loadKeys.Add(1) - 1
	handle.Insert(ctx, w.config.Table, w.Key(n), w.record(s))
	return ctx.Err() == nil
}

// DoTransaction implements workloads.Workload.
func (w *Workload) DoTransaction(ctx context.Context, handle db.DB, state workloads.ThreadState) bool {
	s := state.(*threadState)
	table := w.config.Table

	switch w.chooseOperation(s) {
	case opRead:
		handle.Read(ctx, table, w.Key(w.nextKeyNumber(s)), w.readFields(s))
	case opUpdate:
		handle.Update(ctx, table, w.Key(w.nextKeyNumber(s)), w.updateValues(s))
	case opInsert:
		n := w.transactionKeys.Add(1) - 1
		handle.Insert(ctx, table, w.Key(n), w.record(s))
	case opScan:
		length := 1 + s.rng.IntN(w.config.MaxScanLength)
		handle.Scan(ctx, table, w.Key(w.nextKeyNumber(s)), length, w.readFields(s))
	case opReadModifyWrite:
		key := w.Key(w.nextKeyNumber(s))
		handle.Read(ctx, table, key, w.readFields(s))
		handle.Update(ctx, table, key, w.updateValues(s))
	}
	return ctx.Err() == nil
}
