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

package mocks

import (
	"context"

	"github.com/rodrigofelix/YCSB/pkg/db"
	"github.com/stretchr/testify/mock"
)

// DB mock
type DB struct {
	mock.Mock
}

// Init provides a mock function with given fields:
func (_m *DB) Init() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Cleanup provides a mock function with given fields:
func (_m *DB) Cleanup() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Read provides a mock function with given fields: ctx, table, key, fields
func (_m *DB) Read(ctx context.Context, table string, key string, fields []string) (db.Record, error) {
	ret := _m.Called(ctx, table, key, fields)

	var r0 db.Record
	if rf, ok := ret.Get(0).(func(context.Context, string, string, []string) db.Record); ok {
		r0 = rf(ctx, table, key, fields)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(db.Record)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string, []string) error); ok {
		r1 = rf(ctx, table, key, fields)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Scan provides a mock function with given fields: ctx, table, startKey, count, fields
func (_m *DB) Scan(ctx context.Context, table string, startKey string, count int, fields []string) ([]db.Record, error) {
	ret := _m.Called(ctx, table, startKey, count, fields)

	var r0 []db.Record
	if rf, ok := ret.Get(0).(func(context.Context, string, string, int, []string) []db.Record); ok {
		r0 = rf(ctx, table, startKey, count, fields)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]db.Record)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string, int, []string) error); ok {
		r1 = rf(ctx, table, startKey, count, fields)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Insert provides a mock function with given fields: ctx, table, key, values
func (_m *DB) Insert(ctx context.Context, table string, key string, values db.Record) error {
	ret := _m.Called(ctx, table, key, values)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, db.Record) error); ok {
		r0 = rf(ctx, table, key, values)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Update provides a mock function with given fields: ctx, table, key, values
func (_m *DB) Update(ctx context.Context, table string, key string, values db.Record) error {
	ret := _m.Called(ctx, table, key, values)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, db.Record) error); ok {
		r0 = rf(ctx, table, key, values)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Delete provides a mock function with given fields: ctx, table, key
func (_m *DB) Delete(ctx context.Context, table string, key string) error {
	ret := _m.Called(ctx, table, key)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) error); ok {
		r0 = rf(ctx, table, key)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
