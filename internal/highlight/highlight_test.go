// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/open-edge-platform/comment-highlighter/internal/scanner"
	"github.com/open-edge-platform/comment-highlighter/internal/syntax"
)

func span(class Class, start int, text string) Span {
	return Span{Class: class, Start: start, End: start + len(text), Text: text}
}

func TestHighlight(t *testing.T) {
	registry := syntax.Builtin()
	java, _ := registry.Lookup("java")
	python, _ := registry.Lookup("python")

	tests := map[string]struct {
		lang     *syntax.Language
		src      string
		expected []Span
	}{
		"Empty source": {
			lang:     java,
			src:      "",
			expected: nil,
		},
		"Keywords types and modifiers": {
			lang: java,
			src:  "public static void main(String[] args) {",
			expected: []Span{
				span(Modifier, 0, "public"),
				span(Plain, 6, " "),
				span(Modifier, 7, "static"),
				span(Plain, 13, " "),
				span(Type, 14, "void"),
				span(Plain, 18, " main("),
				span(Type, 24, "String"),
				span(Plain, 30, "[] args) {"),
			},
		},
		"Keywords inside comments and strings stay comments and strings": {
			lang: java,
			src:  `/** for */ s = "while"; // if`,
			expected: []Span{
				span(Doc, 0, "/** for */"),
				span(Plain, 10, " s = "),
				span(String, 15, `"while"`),
				span(Plain, 22, "; "),
				span(Comment, 24, "// if"),
			},
		},
		"Whole words only": {
			lang:     java,
			src:      "format iffy _for for2",
			expected: []Span{span(Plain, 0, "format iffy _for for2")},
		},
		"Unterminated regions are errors": {
			lang: java,
			src:  "x = \"oops\n/* open",
			expected: []Span{
				span(Plain, 0, "x = "),
				span(Error, 4, `"oops`),
				span(Plain, 9, "\n"),
				span(Error, 10, "/* open"),
			},
		},
		"Python comments and keywords": {
			lang: python,
			src:  "def f(): # done",
			expected: []Span{
				span(Keyword, 0, "def"),
				span(Plain, 3, " f(): "),
				span(Comment, 9, "# done"),
			},
		},
		"Unicode identifiers": {
			lang: java,
			src:  "int δx",
			expected: []Span{
				span(Type, 0, "int"),
				span(Plain, 3, " δx"),
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			spans := Highlight(test.src, test.lang)
			require.Equal(t, test.expected, spans)

			var b strings.Builder
			for _, s := range spans {
				b.WriteString(s.Text)
			}
			require.Equal(t, test.src, b.String())
		})
	}
}

func TestSpansStopEarly(t *testing.T) {
	java, _ := syntax.Builtin().Lookup("java")

	var got []Span
	for s := range Spans("public class A {}", java) {
		got = append(got, s)
		if s.Class == Keyword {
			break
		}
	}
	require.Equal(t, []Span{span(Modifier, 0, "public"), span(Plain, 6, " "), span(Keyword, 7, "class")}, got)
}

func TestClassOf(t *testing.T) {
	tests := map[scanner.Kind]Class{
		scanner.Code:                     Plain,
		scanner.LineComment:              Comment,
		scanner.BlockComment:             Comment,
		scanner.DocComment:               Doc,
		scanner.StringLiteral:            String,
		scanner.CharLiteral:              String,
		scanner.UnterminatedBlockComment: Error,
		scanner.UnterminatedString:       Error,
	}
	for kind, class := range tests {
		require.Equal(t, class, ClassOf(kind), kind.String())
	}
}
