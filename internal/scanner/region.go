// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import "fmt"

// Region is a contiguous, classified span of the source. Start and End are byte offsets,
// and Text is src[Start:End].
type Region struct {
	Kind  Kind   `json:"kind" yaml:"kind"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
}

func (r Region) Len() int {
	return r.End - r.Start
}

func (r Region) String() string {
	return fmt.Sprintf("%s[%d:%d] %q", r.Kind, r.Start, r.End, r.Text)
}
