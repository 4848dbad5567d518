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

package timeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Entry is a single transition performed by the controller: number of active clients at the
// offset (in microseconds) from the start of the run.
type Entry struct {
	OffsetMicros int64
	Clients      int
}

func (e Entry) String() string {
	return fmt.Sprintf("%d,%d", e.OffsetMicros, e.Clients)
}

// History is an append-only log of controller transitions, ordered by tick.
type History struct {
	mu      sync.Mutex
	entries []Entry
}

// Append adds new entry at the end of the log.
func (h *History) Append(offsetMicros int64, clients int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, Entry{OffsetMicros: offsetMicros, Clients: clients})
}

// Entries returns copy of all entries.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}

// Len returns number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// WriteTo writes `time,count` line for every entry. It implements io.WriterTo.
func (h *History) WriteTo(w io.Writer) (int64, error) {
	buffered := bufio.NewWriter(w)
	var written int64
	for _, entry := range h.Entries() {
		n, err := fmt.Fprintln(buffered, entry.String())
		written += int64(n)
		if err != nil {
			return written, errors.Wrap(err, "cannot write timeline history")
		}
	}
	return written, errors.Wrap(buffered.Flush(), "cannot flush timeline history")
}

// Persist writes history to file at given path. Empty history creates no file.
func (h *History) Persist(path string) error {
	if h.Len() == 0 {
		return nil
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create timeline history file %q", path)
	}
	if _, err := h.WriteTo(file); err != nil {
		file.Close()
		return err
	}
	return errors.Wrapf(file.Close(), "cannot close timeline history file %q", path)
}
