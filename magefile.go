// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

//go:build mage

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/open-edge-platform/comment-highlighter/internal/scanner"
)

type (
	// Lint is the Mage namespace for linting targets.
	Lint mg.Namespace

	// Test is the Mage namespace for testing targets.
	Test mg.Namespace
)

var (
	headerLines = []string{
		"// SPDX-FileCopyrightText: (C) 2025 Intel Corporation",
		"// SPDX-License-Identifier: Apache-2.0",
	}

	skipHeaderDirs = []string{
		".git",
		"_examples",
		"fuzz-output",
		"testdata",
	}

	goFileRegex = regexp.MustCompile(`\.go$`)
)

// fuzzTests maps the packages holding fuzz tests to their fuzz tests.
var fuzzTests = map[string][]string{
	"./internal/scanner/": {
		"FuzzScanLossless",
	},
	"./internal/app/": {
		"FuzzPostScanRandomInput",
		"FuzzPostScanSource",
		"FuzzPostDocumentRandomInput",
	},
}

// Ensures all files have copyright and license set.
func (Lint) License() error {
	return sh.Run("reuse", "lint")
}

// Runs golangci-lint.
func (Lint) Golang() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Ensures every Go file starts with the SPDX header as line comments.
func (Lint) Headers() error {
	files, err := find(".", goFileRegex, skipHeaderDirs)
	if err != nil {
		return err
	}

	var errs []error
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("failed to read file %q: %w", f, err)
		}
		if err := checkHeader(string(data)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
		}
	}
	return errors.Join(errs...)
}

// checkHeader verifies that the leading comment regions of src are the header lines, in order.
func checkHeader(src string) error {
	var comments []string
	for r := range scanner.Scan(src) {
		if r.Kind == scanner.Code {
			if strings.TrimSpace(r.Text) != "" {
				break
			}
			continue
		}
		if r.Kind != scanner.LineComment {
			break
		}
		comments = append(comments, r.Text)
		if len(comments) == len(headerLines) {
			break
		}
	}

	if !slices.Equal(comments, headerLines) {
		return fmt.Errorf("missing SPDX header, got %q", comments)
	}
	return nil
}

func find(dir string, re *regexp.Regexp, skipDirs []string) ([]string, error) {
	if re == nil {
		return nil, errors.New("no regex was provided")
	}

	found := make([]string, 0)
	if err := filepath.WalkDir(dir, func(fpath string, d fs.DirEntry, _ error) error {
		if d.IsDir() && slices.Contains(skipDirs, d.Name()) {
			return filepath.SkipDir
		}
		if !d.IsDir() {
			if re.MatchString(fpath) {
				found = append(found, fpath)
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to walk path %q: %w", dir, err)
	}

	return found, nil
}

// Runs unit tests.
func (Test) Unit() error {
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// Runs fuzz tests.
func (Test) Fuzz(fuzzMinutes string) error {
	outputDir := "fuzz-output"

	// Create the directory if it doesn't exist
	err := os.MkdirAll(outputDir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fuzzSeconds, err := parseMinutesToSeconds(fuzzMinutes)
	if err != nil {
		return err
	}

	outputFile := filepath.Join(outputDir, "fuzz_output.txt")
	for pkg, tests := range fuzzTests {
		for _, fuzzTest := range tests {
			cmd := fmt.Sprintf("nohup go test %s -fuzz=^%s$ -run=^%s$ -fuzztime=%ds >> %s 2>&1 &", pkg, fuzzTest, fuzzTest, fuzzSeconds, outputFile)
			fmt.Println("Running command:", cmd)

			err := sh.Run("sh", "-c", cmd)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// parseMinutesToSeconds converts a duration in minutes to seconds.
func parseMinutesToSeconds(minutes string) (int, error) {
	if minutes == "" {
		return 60, nil
	}

	minValue, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes format: %w", err)
	}

	return minValue * 60, nil
}
