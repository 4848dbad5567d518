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
	"sort"
	"sync"

	"github.com/rodrigofelix/YCSB/pkg/conf"
)

// MemoryName is the name of in-process backend.
const MemoryName = "memory"

func init() {
	shared := NewStore()
	Register(MemoryName, func(conf.Properties) (DB, error) {
		return NewMemory(shared), nil
	})
}

// Store is an in-process set of tables shared by Memory handles.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]Record
}

// NewStore returns empty store.
func NewStore() *Store {
	return &Store{tables: map[string]map[string]Record{}}
}

// Len returns number of records in table.
func (s *Store) Len(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

// Memory is a backend keeping records in Store.
type Memory struct {
	store *Store
}

// NewMemory returns handle to store.
func NewMemory(store *Store) *Memory {
	return &Memory{store: store}
}

func project(record Record, fields []string) Record {
	result := Record{}
	if fields == nil {
		for name, value := range record {
			result[name] = append([]byte(nil), value...)
		}
		return result
	}
	for _, name := range fields {
		if value, ok := record[name]; ok {
			result[name] = append([]byte(nil), value...)
		}
	}
	return result
}

// Init implements DB.
func (m *Memory) Init() error { return nil }

// Cleanup implements DB.
func (m *Memory) Cleanup() error { return nil }

// Read implements DB.
func (m *Memory) Read(ctx context.Context, table, key string, fields []string) (Record, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	record, ok := m.store.tables[table][key]
	if !ok {
		return nil, ErrNotFound
	}
	return project(record, fields), nil
}

// Scan implements DB. Records are returned in key order starting at startKey.
func (m *Memory) Scan(ctx context.Context, table, startKey string, count int, fields []string) ([]Record, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	rows := m.store.tables[table]
	keys := make([]string, 0, len(rows))
	for key := range rows {
		if key >= startKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if count < 0 {
		count = 0
	}
	if len(keys) > count {
		keys = keys[:count]
	}

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		records = append(records, project(rows[key], fields))
	}
	return records, nil
}

// Insert implements DB.
func (m *Memory) Insert(ctx context.Context, table, key string, values Record) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	rows, ok := m.store.tables[table]
	if !ok {
		rows = map[string]Record{}
		m.store.tables[table] = rows
	}
	rows[key] = project(values, nil)
	return nil
}

// Update implements DB. Only given fields are overwritten.
func (m *Memory) Update(ctx context.Context, table, key string, values Record) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	record, ok := m.store.tables[table][key]
	if !ok {
		return ErrNotFound
	}
	for name, value := range values {
		record[name] = append([]byte(nil), value...)
	}
	return nil
}

// Delete implements DB.
func (m *Memory) Delete(ctx context.Context, table, key string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.tables[table][key]; !ok {
		return ErrNotFound
	}
	delete(m.store.tables[table], key)
	return nil
}
