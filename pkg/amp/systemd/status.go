// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package systemd

import (
	"fmt"
	"strings"
)

const (
	// reportHeader is the first line of every rendered report.
	reportHeader = "Services"

	// headerLines and trailerLines frame the unit table of
	// `systemctl --plain` output: one column header line on top, and below
	// the table a blank line, the LOAD/ACTIVE/SUB legend, a blank line, the
	// two summary sentences and the empty string after the final newline.
	// The offsets are fixed and only hold for that output shape.
	headerLines  = 1
	trailerLines = 8

	// minUnitFields is the smallest token count of a unit row.
	minUnitFields = 4
)

// StatusCounts tallies units per state label. Labels iterate in order of
// first occurrence.
type StatusCounts struct {
	order  []string
	counts map[string]int
}

// NewStatusCounts returns an empty tally.
func NewStatusCounts() *StatusCounts {
	return &StatusCounts{counts: make(map[string]int)}
}

// Inc adds one to label, starting from zero when label is new.
func (s *StatusCounts) Inc(label string) {
	if _, ok := s.counts[label]; !ok {
		s.order = append(s.order, label)
	}
	s.counts[label]++
}

// Get returns the count for label, zero when absent.
func (s *StatusCounts) Get(label string) int {
	return s.counts[label]
}

// Len returns the number of distinct labels.
func (s *StatusCounts) Len() int {
	return len(s.order)
}

// Labels returns the labels in order of first occurrence.
func (s *StatusCounts) Labels() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Map returns the counts as a plain map.
func (s *StatusCounts) Map() map[string]int {
	out := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy.
func (s *StatusCounts) Clone() *StatusCounts {
	return &StatusCounts{order: s.Labels(), counts: s.Map()}
}

// SplitCommand tokenizes a configured command on whitespace only. Quotes and
// shell metacharacters get no special treatment, so a quoted argument
// containing spaces is split into several arguments. Commands relying on
// quoting are not supported.
func SplitCommand(cmd string) []string {
	return strings.Fields(cmd)
}

// ParseStatus tallies the load and active columns of `systemctl --plain`
// output. The first line and the last eight lines (counting the empty
// string after a final newline) are dropped without looking at them; any
// other output shape yields wrong or empty counts. Rows with fewer than four
// whitespace separated fields are ignored.
func ParseStatus(out string) *StatusCounts {
	counts := NewStatusCounts()

	lines := strings.Split(out, "\n")
	end := len(lines) - trailerLines
	if end <= headerLines {
		return counts
	}

	for _, line := range lines[headerLines:end] {
		fields := strings.Fields(line)
		if len(fields) < minUnitFields {
			continue
		}
		// columns 1 and 2 are LOAD and ACTIVE
		counts.Inc(fields[1])
		counts.Inc(fields[2])
	}

	return counts
}

// Render formats counts as the report text: a "Services" line followed by one
// "<label>: <count>" line per label, every line newline terminated.
func Render(counts *StatusCounts) string {
	var b strings.Builder
	b.WriteString(reportHeader)
	b.WriteByte('\n')
	if counts == nil {
		return b.String()
	}
	for _, label := range counts.order {
		fmt.Fprintf(&b, "%s: %d\n", label, counts.counts[label])
	}
	return b.String()
}
