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

package conf

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Properties is a set of YCSB-style `name=value` settings consumed by workloads and
// database backends. Unlike flags they are not registered upfront, so every backend can
// define its own keys.
type Properties map[string]string

// ParseProperties builds Properties from `name=value` items.
// Later items override earlier ones. An item without `=` continues comma separated value of
// the preceding property, as slice flags split values on commas.
func ParseProperties(items []string) (Properties, error) {
	props := Properties{}
	last := ""
	for _, item := range items {
		eq := strings.Index(item, "=")
		if eq < 0 && last != "" {
			props[last] += stringListDelimiter + strings.TrimSpace(item)
			continue
		}
		if eq <= 0 {
			return nil, errors.Errorf("property %q is not in name=value form", item)
		}
		last = strings.TrimSpace(item[:eq])
		props[last] = strings.TrimSpace(item[eq+1:])
	}
	return props, nil
}

// Merge returns new Properties with values from other overriding p.
func (p Properties) Merge(other Properties) Properties {
	merged := Properties{}
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Has reports whether the property is set.
func (p Properties) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// String returns the property or defaultValue when it is not set.
func (p Properties) String(name, defaultValue string) string {
	if value, ok := p[name]; ok {
		return value
	}
	return defaultValue
}

// Int returns the property parsed as int.
func (p Properties) Int(name string, defaultValue int) (int, error) {
	value, ok := p[name]
	if !ok {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, errors.Wrapf(err, "property %q is not an integer", name)
	}
	return i, nil
}

// Int64 returns the property parsed as int64.
func (p Properties) Int64(name string, defaultValue int64) (int64, error) {
	value, ok := p[name]
	if !ok {
		return defaultValue, nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue, errors.Wrapf(err, "property %q is not an integer", name)
	}
	return i, nil
}

// Float returns the property parsed as float64.
func (p Properties) Float(name string, defaultValue float64) (float64, error) {
	value, ok := p[name]
	if !ok {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, errors.Wrapf(err, "property %q is not a number", name)
	}
	return f, nil
}

// Bool returns the property parsed as bool.
func (p Properties) Bool(name string, defaultValue bool) (bool, error) {
	value, ok := p[name]
	if !ok {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, errors.Wrapf(err, "property %q is not a boolean", name)
	}
	return b, nil
}

// Duration returns the property parsed as time.Duration.
// Bare integers are treated as milliseconds.
func (p Properties) Duration(name string, defaultValue time.Duration) (time.Duration, error) {
	value, ok := p[name]
	if !ok {
		return defaultValue, nil
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, errors.Wrapf(err, "property %q is not a duration", name)
	}
	return d, nil
}

// List returns the property split on commas with blanks removed.
func (p Properties) List(name string) []string {
	value, ok := p[name]
	if !ok {
		return nil
	}
	list := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// Names returns sorted property names.
func (p Properties) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
