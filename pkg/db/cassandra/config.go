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

package cassandra

import (
	"strings"
	"time"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/rodrigofelix/YCSB/pkg/conf"
)

// Config encodes the settings for connecting to the cluster.
type Config struct {
	Hosts             []string
	Keyspace          string
	Username          string
	Password          string
	ConnectionRetries int
	OperationRetries  int
	ReadConsistency   gocql.Consistency
	WriteConsistency  gocql.Consistency
	ScanConsistency   gocql.Consistency
	DeleteConsistency gocql.Consistency
	Timeout           time.Duration
	ConnectTimeout    time.Duration
	RetryMin          time.Duration
	RetryMax          time.Duration
	SslEnabled        bool
	SslHostValidation bool
	SslCAPath         string
	SslCertPath       string
	SslKeyPath        string
}

// ConfigFromProperties reads `hosts` and `cassandra.*` properties.
func ConfigFromProperties(props conf.Properties) (Config, error) {
	c := Config{
		Hosts:    props.List("hosts"),
		Keyspace: props.String("cassandra.keyspace", "ycsb"),
		Username: props.String("cassandra.username", ""),
		Password: props.String("cassandra.password", ""),
	}
	if len(c.Hosts) == 0 {
		return Config{}, errors.New("required property \"hosts\" missing for cassandra")
	}

	var err error
	if c.ConnectionRetries, err = props.Int("cassandra.connectionretries", 10); err != nil {
		return Config{}, err
	}
	if c.OperationRetries, err = props.Int("cassandra.operationretries", 10); err != nil {
		return Config{}, err
	}
	if c.ConnectionRetries < 0 || c.OperationRetries < 0 {
		return Config{}, errors.Errorf("cassandra retries must be non-negative, got connection %d and operation %d",
			c.ConnectionRetries, c.OperationRetries)
	}

	consistencies := []struct {
		name   string
		target *gocql.Consistency
	}{
		{"cassandra.readconsistencylevel", &c.ReadConsistency},
		{"cassandra.writeconsistencylevel", &c.WriteConsistency},
		{"cassandra.scanconsistencylevel", &c.ScanConsistency},
		{"cassandra.deleteconsistencylevel", &c.DeleteConsistency},
	}
	for _, consistency := range consistencies {
		level, err := gocql.ParseConsistencyWrapper(strings.ToUpper(props.String(consistency.name, "ONE")))
		if err != nil {
			return Config{}, errors.Wrapf(err, "invalid %s", consistency.name)
		}
		*consistency.target = level
	}

	durations := []struct {
		name         string
		defaultValue time.Duration
		target       *time.Duration
	}{
		{"cassandra.timeout", 10 * time.Second, &c.Timeout},
		{"cassandra.connecttimeout", 10 * time.Second, &c.ConnectTimeout},
		{"cassandra.retrymin", 100 * time.Millisecond, &c.RetryMin},
		{"cassandra.retrymax", 10 * time.Second, &c.RetryMax},
	}
	for _, duration := range durations {
		if *duration.target, err = props.Duration(duration.name, duration.defaultValue); err != nil {
			return Config{}, err
		}
	}

	if c.SslEnabled, err = props.Bool("cassandra.ssl", false); err != nil {
		return Config{}, err
	}
	if c.SslHostValidation, err = props.Bool("cassandra.sslhostvalidation", false); err != nil {
		return Config{}, err
	}
	c.SslCAPath = props.String("cassandra.sslcapath", "")
	c.SslCertPath = props.String("cassandra.sslcertpath", "")
	c.SslKeyPath = props.String("cassandra.sslkeypath", "")

	return c, nil
}

func (c Config) sslOptions() *gocql.SslOptions {
	return &gocql.SslOptions{
		EnableHostVerification: c.SslHostValidation,
		CaPath:                 c.SslCAPath,
		CertPath:               c.SslCertPath,
		KeyPath:                c.SslKeyPath,
	}
}

// clusterConfig prepares configuration of the cluster for given hosts order.
func (c Config) clusterConfig(hosts []string) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = c.Keyspace
	cluster.ProtoVersion = 4
	cluster.Consistency = c.ReadConsistency
	cluster.Timeout = c.Timeout
	cluster.ConnectTimeout = c.ConnectTimeout
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: c.OperationRetries}

	if c.Username != "" && c.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: c.Username,
			Password: c.Password,
		}
	}
	if c.SslEnabled {
		cluster.SslOpts = c.sslOptions()
	}
	return cluster
}

// rotate returns hosts starting from attempt-th one, so every connection attempt tries
// different coordinator first.
func rotate(hosts []string, attempt int) []string {
	if len(hosts) == 0 {
		return hosts
	}
	shift := attempt % len(hosts)
	return append(append([]string{}, hosts[shift:]...), hosts[:shift]...)
}
