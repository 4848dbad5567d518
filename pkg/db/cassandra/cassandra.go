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

// Package cassandra is a column-store backend speaking CQL.
// Rows live in `<keyspace>.<table>` with `y_id text PRIMARY KEY` and one blob column per field.
package cassandra

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/conf"
	"github.com/rodrigofelix/YCSB/pkg/db"
	log "github.com/sirupsen/logrus"
)

// Name is the name backend is registered under.
const Name = "cassandra"

const keyColumn = "y_id"

func init() {
	db.Register(Name, New)
}

// Cassandra keeps a session to the cluster for a single worker.
type Cassandra struct {
	config  Config
	session *gocql.Session
}

// New returns backend configured from properties. Connection is established in Init.
func New(props conf.Properties) (db.DB, error) {
	config, err := ConfigFromProperties(props)
	if err != nil {
		return nil, err
	}
	return &Cassandra{config: config}, nil
}

func (c *Cassandra) backoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    c.config.RetryMin,
		Max:    c.config.RetryMax,
		Factor: 2,
		Jitter: true,
	}
}

// Init connects to the cluster. Failed attempts are retried `cassandra.connectionretries` times,
// each with the hosts list rotated.
func (c *Cassandra) Init() error {
	interval := c.backoff()
	var lastErr error
	for attempt := 0; attempt <= c.config.ConnectionRetries; attempt++ {
		session, err := c.config.clusterConfig(rotate(c.config.Hosts, attempt)).CreateSession()
		if err == nil {
			c.session = session
			return nil
		}
		lastErr = err
		if attempt < c.config.ConnectionRetries {
			wait := interval.Duration()
			log.WithError(err).Warnf("cassandra: connection attempt %d failed, retrying in %s", attempt+1, wait)
			time.Sleep(wait)
		}
	}
	return errors.Wrapf(lastErr, "cannot connect to cassandra hosts %v", c.config.Hosts)
}

// Cleanup closes the session.
func (c *Cassandra) Cleanup() error {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
	return nil
}

func (c *Cassandra) query(ctx context.Context, consistency gocql.Consistency, statement string, values ...interface{}) (*gocql.Query, error) {
	if c.session == nil {
		return nil, errors.New("cassandra: session is not initialized")
	}
	return c.session.Query(statement, values...).WithContext(ctx).Consistency(consistency), nil
}

// Read implements db.DB.
func (c *Cassandra) Read(ctx context.Context, table, key string, fields []string) (db.Record, error) {
	query, err := c.query(ctx, c.config.ReadConsistency, selectStatement(table, fields), key)
	if err != nil {
		return nil, err
	}
	row := map[string]interface{}{}
	if err := query.MapScan(row); err != nil {
		if err == gocql.ErrNotFound {
			return nil, db.ErrNotFound
		}
		return nil, errors.Wrapf(err, "cannot read %q from %q", key, table)
	}
	return toRecord(row), nil
}

// Scan implements db.DB. Records are returned in token order starting at startKey.
func (c *Cassandra) Scan(ctx context.Context, table, startKey string, count int, fields []string) ([]db.Record, error) {
	query, err := c.query(ctx, c.config.ScanConsistency, scanStatement(table, fields), startKey, count)
	if err != nil {
		return nil, err
	}
	iter := query.Iter()
	records := []db.Record{}
	for {
		row := map[string]interface{}{}
		if !iter.MapScan(row) {
			break
		}
		records = append(records, toRecord(row))
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "cannot scan %q from %q", table, startKey)
	}
	return records, nil
}

// Insert implements db.DB.
func (c *Cassandra) Insert(ctx context.Context, table, key string, values db.Record) error {
	statement, args := insertStatement(table, key, values)
	query, err := c.query(ctx, c.config.WriteConsistency, statement, args...)
	if err != nil {
		return err
	}
	return errors.Wrapf(query.Exec(), "cannot insert %q into %q", key, table)
}

// Update implements db.DB.
func (c *Cassandra) Update(ctx context.Context, table, key string, values db.Record) error {
	statement, args := updateStatement(table, key, values)
	query, err := c.query(ctx, c.config.WriteConsistency, statement, args...)
	if err != nil {
		return err
	}
	return errors.Wrapf(query.Exec(), "cannot update %q in %q", key, table)
}

// Delete implements db.DB.
func (c *Cassandra) Delete(ctx context.Context, table, key string) error {
	query, err := c.query(ctx, c.config.DeleteConsistency, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, keyColumn), key)
	if err != nil {
		return err
	}
	return errors.Wrapf(query.Exec(), "cannot delete %q from %q", key, table)
}

func columns(fields []string) string {
	if fields == nil {
		return "*"
	}
	return strings.Join(fields, ", ")
}

func selectStatement(table string, fields []string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", columns(fields), table, keyColumn)
}

func scanStatement(table string, fields []string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE token(%s) >= token(?) LIMIT ?", columns(fields), table, keyColumn)
}

// sortedFields returns field names and their values in name order.
func sortedFields(values db.Record) ([]string, []interface{}) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	args := make([]interface{}, 0, len(names))
	for _, name := range names {
		args = append(args, values[name])
	}
	return names, args
}

func insertStatement(table, key string, values db.Record) (string, []interface{}) {
	names, args := sortedFields(values)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)+1), ", ")
	statement := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(append([]string{keyColumn}, names...), ", "), placeholders)
	return statement, append([]interface{}{key}, args...)
}

func updateStatement(table, key string, values db.Record) (string, []interface{}) {
	names, args := sortedFields(values)
	assignments := make([]string, len(names))
	for i, name := range names {
		assignments[i] = name + " = ?"
	}
	statement := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(assignments, ", "), keyColumn)
	return statement, append(args, key)
}

// toRecord converts scanned row into record skipping the key column.
func toRecord(row map[string]interface{}) db.Record {
	record := db.Record{}
	for column, value := range row {
		if column == keyColumn {
			continue
		}
		switch v := value.(type) {
		case []byte:
			record[column] = v
		case string:
			record[column] = []byte(v)
		case nil:
		default:
			record[column] = []byte(fmt.Sprintf("%v", v))
		}
	}
	return record
}
