// Copyright 2025 Stencila
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
//
// SPDX-License-Identifier: Apache-2.0

// Package cord implements the fine-grained, mergeable text type used for
// prose content throughout the node tree (spec §4.3). A Cord behaves like a
// string for reading and keeps no edit history; Merge reconciles two
// concurrently edited copies by diffing each against their common base
// text, without a central lock.
//
// All positions and lengths are in Unicode scalar values (runes), never
// bytes or UTF-16 units.
package cord

import (
	"encoding/json"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Cord is a mergeable run of text.
type Cord struct {
	runes []rune
}

// New creates a Cord from s.
func New(s string) Cord {
	return Cord{runes: []rune(s)}
}

// String returns the current text.
func (c Cord) String() string {
	return string(c.runes)
}

// LenChars returns the number of Unicode scalar values in the cord.
func (c Cord) LenChars() int {
	return len(c.runes)
}

// MarshalJSON encodes the cord as a plain JSON string.
func (c Cord) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a plain JSON string into a fresh cord.
func (c *Cord) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = New(s)
	return nil
}

// PushStr appends s to the end of the cord.
func (c *Cord) PushStr(s string) {
	c.runes = append(c.runes, []rune(s)...)
}

// ReplaceRange replaces the scalar-value range [start, end) with s. Both
// bounds are clamped to the cord's length; start must not exceed end.
func (c *Cord) ReplaceRange(start, end int, s string) {
	if start < 0 {
		start = 0
	}
	if end > len(c.runes) {
		end = len(c.runes)
	}
	if start > end {
		start = end
	}
	out := make([]rune, 0, len(c.runes)-(end-start)+len([]rune(s)))
	out = append(out, c.runes[:start]...)
	out = append(out, []rune(s)...)
	out = append(out, c.runes[end:]...)
	c.runes = out
}

// insertion is a block of text to splice in at a gap position in the base
// cord's rune coordinate space. Gap 0 is before the first rune, gap
// len(base) is after the last.
type insertion struct {
	gap  int
	text string
	fork int
}

// diffOps is the per-fork decomposition of a diff against base: which base
// positions survive as-is (kept) and what text is inserted at which gaps.
type diffOps struct {
	kept       []bool
	insertions []insertion
}

func computeOps(base, other string, forkID int) diffOps {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(base, other, false)

	baseRunes := []rune(base)
	ops := diffOps{kept: make([]bool, len(baseRunes))}

	pos := 0 // position into baseRunes
	for _, d := range diffs {
		n := len([]rune(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for i := pos; i < pos+n; i++ {
				ops.kept[i] = true
			}
			pos += n
		case diffmatchpatch.DiffDelete:
			pos += n
		case diffmatchpatch.DiffInsert:
			ops.insertions = append(ops.insertions, insertion{gap: pos, text: d.Text, fork: forkID})
		}
	}
	return ops
}

// mergeInsertion resolves two insertions proposed at the same gap. When one
// text is a prefix of the other the longer (more complete) edit is kept,
// since it strictly contains the shorter one. Otherwise the later fork wins
// (last-writer-wins on a genuine overlapping edit), per spec §4.3 rule 3.
func mergeInsertion(a, b insertion) insertion {
	if a.text == b.text {
		return a
	}
	if strings.HasPrefix(b.text, a.text) {
		return b
	}
	if strings.HasPrefix(a.text, b.text) {
		return a
	}
	// Genuine conflict: the later argument to Merge wins.
	if b.fork > a.fork {
		return b
	}
	return a
}

// Merge reconciles two independently edited copies of base into a single
// result. fork1 and fork2 must each be a full snapshot of the cord's text as
// it stands on its side of the fork; Merge diffs both against base to
// recover the edits that produced them and then reconciles those edits.
//
// A base character survives in the merge unless every fork's diff treats it
// as removed (deleted by one fork but left untouched by the other keeps it:
// deletion only wins when it is unanimous). Insertions at non-conflicting
// positions are both kept; insertions proposed at the same gap are resolved
// by mergeInsertion. An insertion that lands strictly inside a deleted span
// is re-anchored to the end of that span rather than discarded.
//
// Merge(base, fork1, fork2) and Merge(base, fork2, fork1) agree whenever
// neither side's edits are a strict subset of the other's at a shared
// anchor; see the "Space invaders" scenario in the test suite.
func Merge(base, fork1, fork2 string) string {
	baseRunes := []rune(base)

	ops1 := computeOps(base, fork1, 1)
	ops2 := computeOps(base, fork2, 2)

	deleted := make([]bool, len(baseRunes))
	for i := range baseRunes {
		k1 := i < len(ops1.kept) && ops1.kept[i]
		k2 := i < len(ops2.kept) && ops2.kept[i]
		deleted[i] = !k1 && !k2
	}

	// Merge adjacent/overlapping deleted positions into ranges.
	type span struct{ start, end int }
	var spans []span
	i := 0
	for i < len(deleted) {
		if !deleted[i] {
			i++
			continue
		}
		start := i
		for i < len(deleted) && deleted[i] {
			i++
		}
		spans = append(spans, span{start, i})
	}

	spanContaining := func(gap int) (span, bool) {
		for _, sp := range spans {
			if gap > sp.start && gap < sp.end {
				return sp, true
			}
		}
		return span{}, false
	}

	// Merge insertions keyed by gap, re-anchoring any that land inside a
	// surviving deleted span.
	byGap := map[int]insertion{}
	for _, ins := range append(append([]insertion{}, ops1.insertions...), ops2.insertions...) {
		if sp, inside := spanContaining(ins.gap); inside {
			ins.gap = sp.end
		}
		if existing, ok := byGap[ins.gap]; ok {
			byGap[ins.gap] = mergeInsertion(existing, ins)
		} else {
			byGap[ins.gap] = ins
		}
	}

	isDeleted := func(pos int) bool {
		for _, sp := range spans {
			if pos >= sp.start && pos < sp.end {
				return true
			}
		}
		return false
	}

	var b strings.Builder
	for pos := 0; pos <= len(baseRunes); pos++ {
		if ins, ok := byGap[pos]; ok {
			b.WriteString(ins.text)
		}
		if pos == len(baseRunes) {
			break
		}
		if !isDeleted(pos) {
			b.WriteRune(baseRunes[pos])
		}
	}
	return b.String()
}
