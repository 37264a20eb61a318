// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import "fmt"

// Kind classifies a region of source text.
type Kind uint8

const (
	Code Kind = iota
	LineComment
	BlockComment
	// DocComment is a block comment opened by "/**".
	DocComment
	StringLiteral
	CharLiteral
	UnterminatedBlockComment
	// UnterminatedString covers both string and char literals cut off by a line terminator or end of input.
	UnterminatedString
)

var kindNames = [...]string{
	Code:                     "code",
	LineComment:              "line-comment",
	BlockComment:             "block-comment",
	DocComment:               "doc-comment",
	StringLiteral:            "string",
	CharLiteral:              "char",
	UnterminatedBlockComment: "unterminated-block-comment",
	UnterminatedString:       "unterminated-string",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind returns the Kind for its string form.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown region kind: %q", s)
}

// IsComment reports whether k is any kind of comment, terminated or not.
func (k Kind) IsComment() bool {
	switch k {
	case LineComment, BlockComment, DocComment, UnterminatedBlockComment:
		return true
	}
	return false
}

// IsLiteral reports whether k is a string or char literal, terminated or not.
func (k Kind) IsLiteral() bool {
	switch k {
	case StringLiteral, CharLiteral, UnterminatedString:
		return true
	}
	return false
}

// Unterminated reports whether the region was forced closed at a line end or end of input.
func (k Kind) Unterminated() bool {
	return k == UnterminatedBlockComment || k == UnterminatedString
}

func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown region kind: %d", k)
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
