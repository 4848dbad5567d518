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

// Package exporter renders measurement results. Measurements are written as ordered
// (category, label, value) triples, category being an operation name or OVERALL.
package exporter

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Exporter consumes measurement triples.
type Exporter interface {
	// Write stores single measurement value.
	Write(category, label string, value interface{}) error
	// Close flushes results and closes underlying output.
	Close() error
}

const (
	// TextName is a name of plain text renderer.
	TextName = "text"
	// TableName is a name of table renderer.
	TableName = "table"
)

// New returns exporter registered under given name writing to w.
// Unknown names are reported together with text exporter, so caller may continue.
func New(name string, w io.Writer) (Exporter, error) {
	switch strings.ToLower(name) {
	case TextName, "":
		return NewText(w), nil
	case TableName:
		return NewTable(w), nil
	}
	return NewText(w), errors.Errorf("unknown exporter %q, using %q", name, TextName)
}

// FormatValue renders value the way all exporters do. Floats are rounded to two decimal places.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
		return decimal.NewFromFloat(v).Round(2).String()
	case float32:
		return FormatValue(float64(v))
	case decimal.Decimal:
		return v.Round(2).String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func closeOutput(w io.Writer) error {
	if closer, ok := w.(io.Closer); ok {
		return errors.Wrap(closer.Close(), "cannot close exporter output")
	}
	return nil
}
