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

package liftedits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLift(t *testing.T) {
	cases := []struct {
		name                     string
		original, unedited, edited string
		want                     string
	}{
		{
			name:     "no edits is a no-op",
			original: "unchanged", unedited: "unchanged", edited: "unchanged",
			want: "unchanged",
		},
		{
			name:     "pure insertion when original equals unedited",
			original: "hello", unedited: "hello", edited: "he--llo",
			want: "he--llo",
		},
		{
			name:     "lossy deletion survives an edit-free round trip",
			original: "abcdef", unedited: "abdef", edited: "abdef",
			want: "abcdef",
		},
		{
			name:     "edit after a lossily-deleted char lands past it",
			original: "abcdef", unedited: "abdef", edited: "abDef",
			want: "abcDef",
		},
		{
			name:     "insert into the gap left by a lossy deletion",
			original: "abcdef", unedited: "abdef", edited: "abXdef",
			want: "abXcdef",
		},
		{
			name:     "unicode positions round-trip",
			original: "a\U0001F308cd\U0001F43Ff", unedited: "abcdf", edited: "ab\U0001F369def",
			want: "a\U0001F308\U0001F369de\U0001F43Ff",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Lift(c.original, c.unedited, c.edited))
		})
	}
}
