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

package exporter

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

var tableHeaders = []string{"Category", "Label", "Value"}

// Table collects measurements and renders them as a single table on Close.
type Table struct {
	output io.Writer
	rows   [][]string
}

// NewTable returns table exporter writing to w.
func NewTable(w io.Writer) *Table {
	return &Table{output: w}
}

// Write implements Exporter.
func (t *Table) Write(category, label string, value interface{}) error {
	t.rows = append(t.rows, []string{category, label, FormatValue(value)})
	return nil
}

// Close implements Exporter.
func (t *Table) Close() error {
	table := tablewriter.NewWriter(t.output)
	table.SetHeader(tableHeaders)
	table.SetAutoWrapText(false)
	for _, row := range t.rows {
		table.Append(row)
	}
	table.Render()
	return closeOutput(t.output)
}
