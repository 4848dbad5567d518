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

// Package db defines the storage contract workloads run against, and a registry of backends.
//
// Backends are created per worker: every worker gets its own handle, calls Init before the
// first operation and Cleanup exactly once when it is done.
package db

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/conf"
)

// Record is a set of fields of a single row.
type Record map[string][]byte

// DB is a storage backend. Nil fields mean all fields.
type DB interface {
	// Init connects to the backend.
	Init() error
	// Cleanup releases the backend. It is called once per handle.
	Cleanup() error

	Read(ctx context.Context, table, key string, fields []string) (Record, error)
	Scan(ctx context.Context, table, startKey string, count int, fields []string) ([]Record, error)
	Insert(ctx context.Context, table, key string, values Record) error
	Update(ctx context.Context, table, key string, values Record) error
	Delete(ctx context.Context, table, key string) error
}

// ErrNotFound is returned when requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Return codes reported to measurements for every operation.
const (
	StatusOK       = 0
	StatusError    = -1
	StatusNotFound = -2
)

// Status translates operation error to return code.
func Status(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case errors.Cause(err) == ErrNotFound:
		return StatusNotFound
	}
	return StatusError
}

// Creator returns new backend handle configured with properties.
type Creator func(props conf.Properties) (DB, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Creator{}
)

// Register makes backend available under name. Registering the same name twice panics.
func Register(name string, creator Creator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		panic("db: backend " + name + " registered twice")
	}
	registry[name] = creator
}

// New creates handle of named backend.
func New(name string, props conf.Properties) (DB, error) {
	registryMu.RLock()
	creator, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown db %q, available: %v", name, Names())
	}
	handle, err := creator(props)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create db %q", name)
	}
	return handle, nil
}

// Names returns sorted names of registered backends.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
