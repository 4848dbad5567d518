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
	"strings"
	"time"

	"github.com/rodrigofelix/YCSB/pkg/conf"
	log "github.com/sirupsen/logrus"
)

// BasicName is the name of no-op backend.
const BasicName = "basic"

func init() {
	Register(BasicName, NewBasic)
}

// Basic is a backend which does nothing but optionally sleeps and logs every call.
// It is used to measure the harness itself.
type Basic struct {
	delay   time.Duration
	verbose bool
}

// NewBasic creates Basic backend. Supported properties: `basicdb.delay` (milliseconds or
// duration) and `basicdb.verbose`.
func NewBasic(props conf.Properties) (DB, error) {
	delay, err := props.Duration("basicdb.delay", 0)
	if err != nil {
		return nil, err
	}
	verbose, err := props.Bool("basicdb.verbose", true)
	if err != nil {
		return nil, err
	}
	return &Basic{delay: delay, verbose: verbose}, nil
}

func (b *Basic) wait(ctx context.Context) error {
	if b.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(b.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Basic) trace(format string, args ...interface{}) {
	if b.verbose {
		log.Debugf(format, args...)
	}
}

func fieldNames(values Record) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Init implements DB.
func (b *Basic) Init() error {
	b.trace("basic db: init")
	return nil
}

// Cleanup implements DB.
func (b *Basic) Cleanup() error {
	b.trace("basic db: cleanup")
	return nil
}

// Read implements DB.
func (b *Basic) Read(ctx context.Context, table, key string, fields []string) (Record, error) {
	b.trace("READ %s %s %v", table, key, fields)
	return Record{}, b.wait(ctx)
}

// Scan implements DB.
func (b *Basic) Scan(ctx context.Context, table, startKey string, count int, fields []string) ([]Record, error) {
	b.trace("SCAN %s %s %d %v", table, startKey, count, fields)
	return nil, b.wait(ctx)
}

// Insert implements DB.
func (b *Basic) Insert(ctx context.Context, table, key string, values Record) error {
	b.trace("INSERT %s %s [%s]", table, key, fieldNames(values))
	return b.wait(ctx)
}

// Update implements DB.
func (b *Basic) Update(ctx context.Context, table, key string, values Record) error {
	b.trace("UPDATE %s %s [%s]", table, key, fieldNames(values))
	return b.wait(ctx)
}

// Delete implements DB.
func (b *Basic) Delete(ctx context.Context, table, key string) error {
	b.trace("DELETE %s %s", table, key)
	return b.wait(ctx)
}
