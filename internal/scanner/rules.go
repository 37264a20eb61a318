// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package scanner

import (
	"errors"
	"fmt"
	"strings"
)

// Rules describes the comment and literal delimiters of a language family.
type Rules struct {
	// LineComments holds the markers opening a comment that runs to the end of the line.
	LineComments []string `yaml:"lineComments" json:"lineComments,omitempty"`
	// BlockOpen and BlockClose delimit block comments. Both empty disables block comments.
	BlockOpen  string `yaml:"blockOpen" json:"blockOpen,omitempty"`
	BlockClose string `yaml:"blockClose" json:"blockClose,omitempty"`
	// DocOpen is the opener that turns a block comment into a doc comment.
	DocOpen string `yaml:"docOpen" json:"docOpen,omitempty"`
	// Nested makes every BlockOpen inside a block comment open a new nesting level.
	Nested bool `yaml:"nested" json:"nested,omitempty"`
	// StringQuotes and CharQuotes list the quote bytes opening string and char literals.
	StringQuotes string `yaml:"stringQuotes" json:"stringQuotes,omitempty"`
	CharQuotes   string `yaml:"charQuotes" json:"charQuotes,omitempty"`
}

// CFamily are the rules of C, C++, Java and friends: no nesting, "/**" doc comments.
var CFamily = Rules{
	LineComments: []string{"//"},
	BlockOpen:    "/*",
	BlockClose:   "*/",
	DocOpen:      "/**",
	StringQuotes: `"`,
	CharQuotes:   `'`,
}

// Validate checks that the rules can drive a scanner.
func (r Rules) Validate() error {
	if (r.BlockOpen == "") != (r.BlockClose == "") {
		return errors.New("block comment delimiters must be set together")
	}
	if r.DocOpen != "" {
		if r.BlockOpen == "" {
			return errors.New("doc comment opener requires block comments")
		}
		if !strings.HasPrefix(r.DocOpen, r.BlockOpen) || len(r.DocOpen) <= len(r.BlockOpen) {
			return fmt.Errorf("doc comment opener %q must extend block opener %q", r.DocOpen, r.BlockOpen)
		}
	}
	for _, m := range r.LineComments {
		if m == "" {
			return errors.New("empty line comment marker")
		}
	}
	for i := 0; i < len(r.StringQuotes); i++ {
		if strings.IndexByte(r.CharQuotes, r.StringQuotes[i]) >= 0 {
			return fmt.Errorf("quote %q is both a string and a char quote", r.StringQuotes[i])
		}
	}
	if strings.ContainsAny(r.StringQuotes+r.CharQuotes, "\\\r\n") {
		return errors.New("quotes cannot be a backslash or a line terminator")
	}
	return nil
}
