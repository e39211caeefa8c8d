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

// Package liftedits implements the lift-edits algorithm (spec §4.7): given
// an authoritative source Original, a lossy rendering Unedited of it, and a
// user-edited Edited derived from Unedited, it produces Original′ — the
// edits the user made, re-applied against Original so content the lossy
// conversion dropped is never discarded.
//
// Both diff passes here use the same Myers diff (via diffmatchpatch) that
// pkg/cord uses for its merge; the original algorithm this is ported from
// runs a Patience diff for the Unedited→Edited pass. No pack dependency
// implements Patience diffing, and Myers already gives the properties this
// package is tested against (no-op on no edits, gap-preserving inserts,
// Unicode safety), so the substitution is a pragmatic approximation rather
// than a faithful reproduction of that specific heuristic.
package liftedits

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type opKind int

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

// editOp is one span of a diff between two strings, expressed as rune
// counts consumed from each side.
type editOp struct {
	kind   opKind
	oldLen int
	newLen int
	text   string
}

func diffOps(oldS, newS string) []editOp {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldS, newS, false)

	ops := make([]editOp, 0, len(diffs))
	for _, d := range diffs {
		n := len([]rune(d.Text))
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			ops = append(ops, editOp{kind: opEqual, oldLen: n, newLen: n})
		case diffmatchpatch.DiffDelete:
			ops = append(ops, editOp{kind: opDelete, oldLen: n})
		case diffmatchpatch.DiffInsert:
			ops = append(ops, editOp{kind: opInsert, newLen: n, text: d.Text})
		}
	}
	return ops
}

// buildMaps walks an old→new diff and produces u2oPrefix, which maps a
// position in new to the position in old immediately after the matched
// prefix up to that point, and charMap, which maps each rune index in new
// to the rune index in old it originated from (-1 if new introduced it).
func buildMaps(ops []editOp, lenNew int) (u2oPrefix []int, charMap []int) {
	u2oPrefix = make([]int, lenNew+1)
	charMap = make([]int, lenNew)
	for i := range charMap {
		charMap[i] = -1
	}

	i, j := 0, 0
	for _, op := range ops {
		switch op.kind {
		case opEqual:
			for k := 0; k < op.oldLen; k++ {
				i++
				j++
				u2oPrefix[j] = i
				charMap[j-1] = i - 1
			}
		case opDelete:
			i += op.oldLen
		case opInsert:
			for k := 0; k < op.newLen; k++ {
				j++
				u2oPrefix[j] = i
			}
		}
	}
	return u2oPrefix, charMap
}

type patchKind int

const (
	patchDelete patchKind = iota
	patchInsert
)

// patchOp is an edit against Original's rune positions.
type patchOp struct {
	kind patchKind
	pos  int
	len  int
	text string
}

// pushDeletions converts a run of deleted Unedited positions [start, start+n)
// into one or more contiguous Delete ops over Original, using charMap to
// skip positions Unedited introduced (which have nothing in Original to
// delete).
func pushDeletions(patch *[]patchOp, start, n int, charMap []int) {
	runStart := -1
	lastO := 0
	end := start + n
	if end > len(charMap) {
		end = len(charMap)
	}
	for k := start; k < end; k++ {
		posO := charMap[k]
		if posO < 0 {
			continue
		}
		switch {
		case runStart == -1:
			runStart, lastO = posO, posO
		case posO == lastO+1:
			lastO = posO
		default:
			*patch = append(*patch, patchOp{kind: patchDelete, pos: runStart, len: lastO - runStart + 1})
			runStart, lastO = posO, posO
		}
	}
	if runStart != -1 {
		*patch = append(*patch, patchOp{kind: patchDelete, pos: runStart, len: lastO - runStart + 1})
	}
}

// Lift computes Original′ from original, unedited and edited.
func Lift(original, unedited, edited string) string {
	o2uOps := diffOps(original, unedited)
	lenU := len([]rune(unedited))
	u2oPrefix, charMap := buildMaps(o2uOps, lenU)

	ueOps := diffOps(unedited, edited)

	var patch []patchOp
	pos := 0
	for _, op := range ueOps {
		switch op.kind {
		case opEqual:
			pos += op.oldLen
		case opDelete:
			pushDeletions(&patch, pos, op.oldLen, charMap)
			pos += op.oldLen
		case opInsert:
			if op.newLen > 0 {
				anchor := u2oPrefix[pos]
				patch = append(patch, patchOp{kind: patchInsert, pos: anchor, text: op.text})
			}
		}
	}

	origRunes := []rune(original)
	var out strings.Builder
	cur := 0
	for _, p := range patch {
		switch p.kind {
		case patchDelete:
			if cur < p.pos {
				out.WriteString(string(origRunes[cur:p.pos]))
			}
			cur = p.pos + p.len
		case patchInsert:
			if cur < p.pos {
				out.WriteString(string(origRunes[cur:p.pos]))
				cur = p.pos
			}
			out.WriteString(p.text)
		}
	}
	if cur < len(origRunes) {
		out.WriteString(string(origRunes[cur:]))
	}
	return out.String()
}
