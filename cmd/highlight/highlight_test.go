// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const helloWorld = `/** Greets. */
class HelloWorld {
    // entry point
    String s = "hi";
}
`

var _ = Describe("Highlight", func() {
	var (
		dir            string
		stdout, stderr *bytes.Buffer
	)

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	highlight := func(args ...string) int {
		return run(context.Background(), args, stdout, stderr)
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
	})

	Context("With invalid arguments", func() {
		It("Fails without input files", func() {
			Expect(highlight()).To(Equal(exitFailure))
			Expect(stderr.String()).To(ContainSubstring("no input files"))
		})

		It("Fails with an unknown format", func() {
			Expect(highlight("-format", "html", "a.c")).To(Equal(exitFailure))
			Expect(stderr.String()).To(ContainSubstring(`invalid format "html"`))
		})

		It("Fails with an unknown language", func() {
			path := writeFile("a.c", "int x;")
			Expect(highlight("-lang", "cobol", path)).To(Equal(exitFailure))
			Expect(stderr.String()).To(ContainSubstring("unknown language"))
		})

		It("Fails with a missing file", func() {
			Expect(highlight(filepath.Join(dir, "missing.c"))).To(Equal(exitFailure))
			Expect(stderr.String()).To(ContainSubstring("failed to read file"))
		})

		It("Prints the usage on -h", func() {
			Expect(highlight("-h")).To(Equal(exitOK))
			Expect(stderr.String()).To(ContainSubstring("Usage: highlight"))
		})
	})

	Context("With text output", func() {
		It("Prints the regions of each file in argument order", func() {
			java := writeFile("HelloWorld.java", helloWorld)
			python := writeFile("script.py", "x = 1  # one\n")

			Expect(highlight(python, java)).To(Equal(exitOK))

			out := stdout.String()
			Expect(out).To(HavePrefix("==> " + python + " (python) <==\n"))
			Expect(strings.Index(out, python)).To(BeNumerically("<", strings.Index(out, java)))
			Expect(out).To(ContainSubstring("==> " + java + " (java) <=="))
			Expect(out).To(MatchRegexp(`line-comment +"# one"`))
			Expect(out).To(MatchRegexp(`doc-comment +"/\*\* Greets\. \*/"`))
			Expect(out).To(MatchRegexp(`string +"\\"hi\\""`))
		})

		It("Uses the language given on the command line", func() {
			path := writeFile("notes.txt", "# not a comment in c")

			Expect(highlight("-lang", "c", path)).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring("(c) <=="))
			Expect(stdout.String()).ToNot(ContainSubstring("line-comment"))
		})

		It("Overrides the builtin languages", func() {
			languages := writeFile("languages.yaml",
				"languages:\n  - name: shell\n    extensions: [\".sh\"]\n    rules:\n      lineComments: [\"#\"]\n")
			path := writeFile("run.sh", "echo hi # greet")

			Expect(highlight("-languages", languages, path)).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring("(shell) <=="))
			Expect(stdout.String()).To(ContainSubstring(`"# greet"`))
		})
	})

	Context("With JSON output", func() {
		It("Writes one region per line", func() {
			path := writeFile("a.c", "x; // y")

			Expect(highlight("-format", "json", path)).To(Equal(exitOK))

			lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
			Expect(lines).To(HaveLen(2))

			var region map[string]any
			Expect(json.Unmarshal([]byte(lines[1]), &region)).To(Succeed())
			Expect(region).To(Equal(map[string]any{
				"file":     path,
				"language": "c",
				"kind":     "line-comment",
				"start":    float64(3),
				"end":      float64(7),
				"text":     "// y",
			}))
		})
	})

	Context("With color output", func() {
		It("Colors the highlight spans and keeps plain text as is", func() {
			path := writeFile("a.c", "int x; // y")

			Expect(highlight("-format", "color", path)).To(Equal(exitOK))

			Expect(stdout.String()).To(Equal("\x1b[36mint\x1b[0m x; \x1b[32m// y\x1b[0m"))
		})

		It("Resets the color after every span when output is not a terminal", func() {
			path := writeFile("Main.java", "/** d */ public class A {}")

			Expect(highlight("-format", "color", path)).To(Equal(exitOK))

			out := stdout.String()
			Expect(strings.Count(out, "\x1b[0m")).To(Equal(3))
			Expect(out).To(HaveSuffix("\x1b[0m A {}"))
		})
	})

	Context("With diagnostics", func() {
		It("Exits with an error status when a file has errors", func() {
			clean := writeFile("clean.c", "int main() { return 0; }")
			broken := writeFile("broken.c", "f(\"x")

			Expect(highlight("-diagnostics", clean, broken)).To(Equal(exitDiagnostics))
			Expect(stdout.String()).To(ContainSubstring(broken + ":1:2: error: missing closing bracket ')'"))
			Expect(stdout.String()).To(ContainSubstring(broken + ":1:3: warning: unterminated string literal"))
		})

		It("Exits successfully with warnings only", func() {
			path := writeFile("a.c", "/* never closed")

			Expect(highlight("-diagnostics", path)).To(Equal(exitOK))
			Expect(stdout.String()).To(ContainSubstring(path + ":1:1: warning: unterminated block comment"))
		})

		It("Writes diagnostics as JSON lines", func() {
			path := writeFile("a.c", "}")

			Expect(highlight("-diagnostics", "-format", "json", path)).To(Equal(exitDiagnostics))

			lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
			Expect(lines).To(HaveLen(2))

			var diag map[string]any
			Expect(json.Unmarshal([]byte(lines[1]), &diag)).To(Succeed())
			Expect(diag).To(HaveKeyWithValue("file", path))
			Expect(diag).To(HaveKeyWithValue("severity", "error"))
			Expect(diag).To(HaveKeyWithValue("kind", "UnmatchedBracket"))
		})

		It("Ignores errors when diagnostics are not requested", func() {
			path := writeFile("a.c", "}")
			Expect(highlight(path)).To(Equal(exitOK))
		})
	})
})
