// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package diagnostics reports editor warnings and errors derived from the region stream:
// unterminated comments and literals, and unbalanced brackets in code.
package diagnostics

import (
	"fmt"
	"slices"
	"strings"

	"github.com/open-edge-platform/comment-highlighter/internal/scanner"
	"github.com/open-edge-platform/comment-highlighter/internal/syntax"
)

// Severity denotes the severity level of a diagnostic. The zero value is invalid.
type Severity int

const (
	SeverityWarning Severity = iota + 1
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Kind string

const (
	UnterminatedComment Kind = "UnterminatedComment"
	UnterminatedString  Kind = "UnterminatedString"
	UnmatchedBracket    Kind = "UnmatchedBracket"
	MismatchedBracket   Kind = "MismatchedBracket"
	MissingBracket      Kind = "MissingBracket"
)

// Diagnostic is an individual diagnostic message covering the source between Start and End.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	Message  string   `json:"message"`
	Start    Position `json:"start"`
	End      Position `json:"end"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Start, d.Severity, d.Message)
}

// Diagnostics is a collection of diagnostic messages ordered by start offset.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	return slices.ContainsFunc(ds, func(d Diagnostic) bool { return d.Severity == SeverityError })
}

// Count returns the number of diagnostics with the given severity.
func (ds Diagnostics) Count(sev Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

type openBracket struct {
	ch     byte
	offset int
}

var closers = map[byte]byte{'{': '}', '(': ')', '[': ']'}

// Check scans src with the rules of lang and returns its diagnostics.
func Check(src string, lang *syntax.Language) Diagnostics {
	li := NewLineIndex(src)
	var (
		ds    Diagnostics
		stack []openBracket
	)

	add := func(sev Severity, kind Kind, msg string, start, end int) {
		ds = append(ds, Diagnostic{
			Severity: sev,
			Kind:     kind,
			Message:  msg,
			Start:    li.Position(start),
			End:      li.Position(end),
		})
	}

	for r := range lang.Scan(src) {
		switch r.Kind {
		case scanner.UnterminatedBlockComment:
			add(SeverityWarning, UnterminatedComment, "unterminated block comment", r.Start, r.End)
		case scanner.UnterminatedString:
			what := "string"
			if strings.IndexByte(lang.Rules.CharQuotes, r.Text[0]) >= 0 {
				what = "char"
			}
			add(SeverityWarning, UnterminatedString, fmt.Sprintf("unterminated %s literal", what), r.Start, r.End)
		case scanner.Code:
			for i := r.Start; i < r.End; i++ {
				ch := src[i]
				switch ch {
				case '{', '(', '[':
					stack = append(stack, openBracket{ch: ch, offset: i})
				case '}', ')', ']':
					if len(stack) == 0 {
						add(SeverityError, UnmatchedBracket, fmt.Sprintf("unexpected closing bracket '%c'", ch), i, i+1)
						continue
					}
					open := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					if closers[open.ch] != ch {
						add(SeverityError, MismatchedBracket,
							fmt.Sprintf("mismatched brackets: expected '%c' but found '%c'", closers[open.ch], ch), i, i+1)
					}
				}
			}
		}
	}

	for _, open := range stack {
		add(SeverityError, MissingBracket, fmt.Sprintf("missing closing bracket '%c'", closers[open.ch]), open.offset, open.offset+1)
	}

	slices.SortStableFunc(ds, func(a, b Diagnostic) int { return a.Start.Offset - b.Start.Offset })
	return ds
}
