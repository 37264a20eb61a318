// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package diagnostics

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position is a location in a source. Line and Column are 1-based; Column counts UTF-8 code
// points, not bytes.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LineIndex converts byte offsets of a source into positions.
type LineIndex struct {
	src   string
	lines []int // offset of the first byte of each line
}

func NewLineIndex(src string) *LineIndex {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &LineIndex{src: src, lines: lines}
}

// Position returns the position of offset. Offsets out of range are clamped to the source.
func (li *LineIndex) Position(offset int) Position {
	offset = max(0, min(offset, len(li.src)))
	line := sort.Search(len(li.lines), func(i int) bool { return li.lines[i] > offset }) - 1
	start := li.lines[line]
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: utf8.RuneCountInString(li.src[start:offset]) + 1,
	}
}
