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

package db

import (
	"context"
	"time"
)

// Operation names reported by Measured.
const (
	OperationRead   = "READ"
	OperationScan   = "SCAN"
	OperationInsert = "INSERT"
	OperationUpdate = "UPDATE"
	OperationDelete = "DELETE"
)

// Recorder receives outcome of every operation.
type Recorder interface {
	Measure(operation string, issued time.Time, latencyMicros int64)
	ReportReturnCode(operation string, code int)
}

// Measured wraps DB and reports latency and return code of every operation, successful or not.
type Measured struct {
	DB
	recorder Recorder
	now      func() time.Time
}

// NewMeasured returns DB reporting to recorder.
func NewMeasured(db DB, recorder Recorder) *Measured {
	return &Measured{DB: db, recorder: recorder, now: time.Now}
}

func (m *Measured) report(operation string, issued time.Time, err error) {
	m.recorder.Measure(operation, issued, int64(m.now().Sub(issued)/time.Microsecond))
	m.recorder.ReportReturnCode(operation, Status(err))
}

// Read implements DB.
func (m *Measured) Read(ctx context.Context, table, key string, fields []string) (Record, error) {
	issued := m.now()
	record, err := m.DB.Read(ctx, table, key, fields)
	m.report(OperationRead, issued, err)
	return record, err
}

// Scan implements DB.
func (m *Measured) Scan(ctx context.Context, table, startKey string, count int, fields []string) ([]Record, error) {
	issued := m.now()
	records, err := m.DB.Scan(ctx, table, startKey, count, fields)
	m.report(OperationScan, issued, err)
	return records, err
}

// Insert implements DB.
func (m *Measured) Insert(ctx context.Context, table, key string, values Record) error {
	issued := m.now()
	err := m.DB.Insert(ctx, table, key, values)
	m.report(OperationInsert, issued, err)
	return err
}

// Update implements DB.
func (m *Measured) Update(ctx context.Context, table, key string, values Record) error {
	issued := m.now()
	err := m.DB.Update(ctx, table, key, values)
	m.report(OperationUpdate, issued, err)
	return err
}

// Delete implements DB.
func (m *Measured) Delete(ctx context.Context, table, key string) error {
	issued := m.now()
	err := m.DB.Delete(ctx, table, key)
	m.report(OperationDelete, issued, err)
	return err
}
