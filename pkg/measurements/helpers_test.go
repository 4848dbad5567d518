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

package measurements

import (
	"fmt"

	"github.com/rodrigofelix/YCSB/pkg/measurements/exporter"
)

type triple struct {
	category, label, value string
}

// collector is an in-memory exporter.
type collector struct {
	triples []triple
	closed  bool
}

func (c *collector) Write(category, label string, value interface{}) error {
	c.triples = append(c.triples, triple{category, label, exporter.FormatValue(value)})
	return nil
}

func (c *collector) Close() error {
	c.closed = true
	return nil
}

// values returns all values written under label.
func (c *collector) values(label string) []string {
	var values []string
	for _, t := range c.triples {
		if t.label == label {
			values = append(values, t.value)
		}
	}
	return values
}

func (c *collector) value(label string) string {
	values := c.values(label)
	if len(values) != 1 {
		panic(fmt.Sprintf("expected single %q value, got %v", label, values))
	}
	return values[0]
}
