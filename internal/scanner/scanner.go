// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package scanner partitions source text into code, comment and literal regions.
//
// The partition is lossless: concatenating the Text of every region, in order, gives back the
// input. Scanning never fails; comments and literals missing their closing delimiter are
// reported with the Unterminated kinds instead.
package scanner

import (
	"iter"
	"strings"
)

type mode uint8

const (
	modeCode mode = iota
	modeLineComment
	modeBlockComment
	modeString
	modeChar
)

// Scanner produces the regions of a single source one at a time. A Scanner is not safe for
// concurrent use, but independent Scanners are.
type Scanner struct {
	src   string
	pos   int
	rules Rules

	// opens marks the bytes that may start a comment or literal.
	opens [256]bool
}

// New creates a Scanner over src using the given rules.
func New(src string, rules Rules) *Scanner {
	s := &Scanner{src: src, rules: rules}
	for _, m := range rules.LineComments {
		if m != "" {
			s.opens[m[0]] = true
		}
	}
	if rules.BlockOpen != "" {
		s.opens[rules.BlockOpen[0]] = true
	}
	for i := 0; i < len(rules.StringQuotes); i++ {
		s.opens[rules.StringQuotes[i]] = true
	}
	for i := 0; i < len(rules.CharQuotes); i++ {
		s.opens[rules.CharQuotes[i]] = true
	}
	return s
}

// Reset rewinds the scanner onto a new source, keeping its rules.
func (s *Scanner) Reset(src string) {
	s.src = src
	s.pos = 0
}

// Next returns the next region. The second result is false once the source is exhausted.
func (s *Scanner) Next() (Region, bool) {
	if s.pos >= len(s.src) {
		return Region{}, false
	}

	start := s.pos
	m, n := s.openAt(start)

	var kind Kind
	switch m {
	case modeLineComment:
		kind, s.pos = s.scanLineComment(start, n)
	case modeBlockComment:
		kind, s.pos = s.scanBlockComment(start)
	case modeString:
		kind, s.pos = s.scanQuoted(start, StringLiteral)
	case modeChar:
		kind, s.pos = s.scanQuoted(start, CharLiteral)
	default:
		kind, s.pos = Code, s.scanCode(start)
	}

	return Region{Kind: kind, Start: start, End: s.pos, Text: s.src[start:s.pos]}, true
}

// openAt reports which region an opener at offset i starts, and the opener length.
func (s *Scanner) openAt(i int) (mode, int) {
	ch := s.src[i]
	if !s.opens[ch] {
		return modeCode, 0
	}

	rest := s.src[i:]
	// Block openers are checked first so that a longer block marker sharing a prefix with a
	// line marker wins.
	if s.rules.BlockOpen != "" && strings.HasPrefix(rest, s.rules.BlockOpen) {
		return modeBlockComment, len(s.rules.BlockOpen)
	}
	for _, m := range s.rules.LineComments {
		if m != "" && strings.HasPrefix(rest, m) {
			return modeLineComment, len(m)
		}
	}
	if strings.IndexByte(s.rules.StringQuotes, ch) >= 0 {
		return modeString, 1
	}
	if strings.IndexByte(s.rules.CharQuotes, ch) >= 0 {
		return modeChar, 1
	}
	return modeCode, 0
}

func (s *Scanner) scanCode(start int) int {
	i := start + 1
	for i < len(s.src) {
		if m, _ := s.openAt(i); m != modeCode {
			break
		}
		i++
	}
	return i
}

// scanLineComment stops before the line terminator, which belongs to the following code.
func (s *Scanner) scanLineComment(start, markerLen int) (Kind, int) {
	body := start + markerLen
	if idx := strings.IndexAny(s.src[body:], "\r\n"); idx >= 0 {
		return LineComment, body + idx
	}
	return LineComment, len(s.src)
}

func (s *Scanner) scanBlockComment(start int) (Kind, int) {
	open, closer := s.rules.BlockOpen, s.rules.BlockClose

	kind := BlockComment
	if s.rules.DocOpen != "" && strings.HasPrefix(s.src[start:], s.rules.DocOpen) &&
		!strings.HasPrefix(s.src[start:], open+closer) {
		kind = DocComment
	}

	depth := 1
	i := start + len(open)
	for i < len(s.src) {
		switch {
		case strings.HasPrefix(s.src[i:], closer):
			i += len(closer)
			depth--
			if depth == 0 {
				return kind, i
			}
		case s.rules.Nested && strings.HasPrefix(s.src[i:], open):
			i += len(open)
			depth++
		default:
			i++
		}
	}
	return UnterminatedBlockComment, len(s.src)
}

// scanQuoted scans a literal opened by the quote at start. A backslash escapes the byte after
// it unconditionally; an unescaped line terminator ends the literal as unterminated.
func (s *Scanner) scanQuoted(start int, kind Kind) (Kind, int) {
	quote := s.src[start]
	i := start + 1
	for i < len(s.src) {
		switch s.src[i] {
		case '\\':
			if i+1 >= len(s.src) {
				return UnterminatedString, len(s.src)
			}
			i += 2
		case quote:
			return kind, i + 1
		case '\n', '\r':
			return UnterminatedString, i
		default:
			i++
		}
	}
	return UnterminatedString, len(s.src)
}

// ScanWith returns the lazy sequence of regions of src under the given rules. Every call
// starts a fresh scan, so the sequence can be ranged over any number of times.
func ScanWith(src string, rules Rules) iter.Seq[Region] {
	return func(yield func(Region) bool) {
		s := New(src, rules)
		for {
			r, ok := s.Next()
			if !ok || !yield(r) {
				return
			}
		}
	}
}

// Scan returns the lazy sequence of regions of src under the C-family rules.
func Scan(src string) iter.Seq[Region] {
	return ScanWith(src, CFamily)
}

// All collects the regions of src under the given rules.
func All(src string, rules Rules) []Region {
	var regions []Region
	for r := range ScanWith(src, rules) {
		regions = append(regions, r)
	}
	return regions
}
