// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

// Package highlight refines scanner regions into spans carrying a highlight class. It decides
// what a piece of text is, never how it looks.
package highlight

import (
	"iter"
	"unicode"
	"unicode/utf8"

	"github.com/open-edge-platform/comment-highlighter/internal/scanner"
	"github.com/open-edge-platform/comment-highlighter/internal/syntax"
)

type Class string

const (
	Plain    Class = "plain"
	Keyword  Class = "keyword"
	Type     Class = "type"
	Modifier Class = "modifier"
	Comment  Class = "comment"
	Doc      Class = "doc"
	String   Class = "string"
	Error    Class = "error"
)

// Span is a classified piece of the source. Spans partition the source like regions do.
type Span struct {
	Class Class  `json:"class"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// ClassOf maps a non-code region kind to its class. Code maps to Plain.
func ClassOf(kind scanner.Kind) Class {
	switch kind {
	case scanner.LineComment, scanner.BlockComment:
		return Comment
	case scanner.DocComment:
		return Doc
	case scanner.StringLiteral, scanner.CharLiteral:
		return String
	case scanner.UnterminatedBlockComment, scanner.UnterminatedString:
		return Error
	}
	return Plain
}

// Spans returns the lazy span sequence of src.
func Spans(src string, lang *syntax.Language) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for r := range lang.Scan(src) {
			if r.Kind != scanner.Code {
				if !yield(Span{Class: ClassOf(r.Kind), Start: r.Start, End: r.End, Text: r.Text}) {
					return
				}
				continue
			}
			if !splitCode(src, r, lang, yield) {
				return
			}
		}
	}
}

// Highlight collects the spans of src.
func Highlight(src string, lang *syntax.Language) []Span {
	var spans []Span
	for s := range Spans(src, lang) {
		spans = append(spans, s)
	}
	return spans
}

// splitCode yields the words of a code region found in the language word lists as their own spans
// and merges everything in between into plain spans.
func splitCode(src string, r scanner.Region, lang *syntax.Language, yield func(Span) bool) bool {
	plainStart := r.Start
	i := r.Start
	for i < r.End {
		ch, size := utf8.DecodeRuneInString(src[i:r.End])
		if !isWordRune(ch) {
			i += size
			continue
		}

		start := i
		for i < r.End {
			ch, size = utf8.DecodeRuneInString(src[i:r.End])
			if !isWordRune(ch) {
				break
			}
			i += size
		}

		class := wordClass(lang.Classify(src[start:i]))
		if class == Plain {
			continue
		}
		if start > plainStart {
			if !yield(Span{Class: Plain, Start: plainStart, End: start, Text: src[plainStart:start]}) {
				return false
			}
		}
		if !yield(Span{Class: class, Start: start, End: i, Text: src[start:i]}) {
			return false
		}
		plainStart = i
	}

	if r.End > plainStart {
		return yield(Span{Class: Plain, Start: plainStart, End: r.End, Text: src[plainStart:r.End]})
	}
	return true
}

func isWordRune(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func wordClass(w syntax.WordClass) Class {
	switch w {
	case syntax.WordKeyword:
		return Keyword
	case syntax.WordType:
		return Type
	case syntax.WordModifier:
		return Modifier
	}
	return Plain
}
