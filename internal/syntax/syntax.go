// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package syntax

import (
	_ "embed"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-edge-platform/comment-highlighter/internal/scanner"
)

//go:embed languages.yaml
var builtinLanguages []byte

var ErrUnknownLanguage = errors.New("unknown language")

// Language holds the scanning rules and the word lists of a programming language.
type Language struct {
	Name       string        `yaml:"name" json:"name"`
	Extensions []string      `yaml:"extensions" json:"extensions"`
	Rules      scanner.Rules `yaml:"rules" json:"rules"`
	Keywords   []string      `yaml:"keywords" json:"keywords,omitempty"`
	Types      []string      `yaml:"types" json:"types,omitempty"`
	Modifiers  []string      `yaml:"modifiers" json:"modifiers,omitempty"`

	words map[string]WordClass
}

// WordClass tells which word list a word belongs to.
type WordClass uint8

const (
	WordNone WordClass = iota
	WordKeyword
	WordType
	WordModifier
)

// Scan returns the lazy region sequence of src under the language rules.
func (l *Language) Scan(src string) iter.Seq[scanner.Region] {
	return scanner.ScanWith(src, l.Rules)
}

// Classify returns the word list containing word. Matching is case sensitive.
func (l *Language) Classify(word string) WordClass {
	return l.words[word]
}

func (l *Language) index() {
	l.words = make(map[string]WordClass, len(l.Keywords)+len(l.Types)+len(l.Modifiers))
	// Later lists win on duplicates, e.g. "auto" is a type in C++.
	for _, w := range l.Keywords {
		l.words[w] = WordKeyword
	}
	for _, w := range l.Types {
		l.words[w] = WordType
	}
	for _, w := range l.Modifiers {
		l.words[w] = WordModifier
	}
}

func (l *Language) validate() error {
	if l.Name == "" {
		return errors.New("language without a name")
	}
	if err := l.Rules.Validate(); err != nil {
		return fmt.Errorf("invalid rules for language %q: %w", l.Name, err)
	}
	for _, ext := range l.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q of language %q must start with a dot", ext, l.Name)
		}
	}
	return nil
}

type languagesFile struct {
	Default   string     `yaml:"default"`
	Languages []Language `yaml:"languages"`
}

// Registry resolves languages by name or file extension. It is read-only once built and safe for
// concurrent use.
type Registry struct {
	defaultName string
	byName      map[string]*Language
	byExt       map[string]*Language
}

// Builtin returns the registry of the languages shipped with the binary.
func Builtin() *Registry {
	r, err := Parse(builtinLanguages)
	if err != nil {
		panic(fmt.Sprintf("invalid builtin languages: %v", err))
	}
	return r
}

// Load reads a languages file from path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a registry from the YAML content of a languages file.
func Parse(data []byte) (*Registry, error) {
	var f languagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal: %w", err)
	}

	r := &Registry{
		defaultName: f.Default,
		byName:      make(map[string]*Language, len(f.Languages)),
		byExt:       make(map[string]*Language),
	}
	for i := range f.Languages {
		lang := &f.Languages[i]
		if err := lang.validate(); err != nil {
			return nil, err
		}
		if _, ok := r.byName[lang.Name]; ok {
			return nil, fmt.Errorf("duplicated language %q", lang.Name)
		}
		r.add(lang)
	}

	if r.defaultName != "" {
		if _, ok := r.byName[r.defaultName]; !ok {
			return nil, fmt.Errorf("default language %q is not defined", r.defaultName)
		}
	}
	return r, nil
}

func (r *Registry) add(lang *Language) {
	if lang.words == nil {
		lang.index()
	}
	r.byName[lang.Name] = lang
	for _, ext := range lang.Extensions {
		r.byExt[strings.ToLower(ext)] = lang
	}
}

// Merge returns a new registry holding the languages of r overlaid by those of other. A language
// of other replaces the one of r with the same name, and takes over its extensions.
func (r *Registry) Merge(other *Registry) *Registry {
	merged := &Registry{
		defaultName: r.defaultName,
		byName:      make(map[string]*Language, len(r.byName)+len(other.byName)),
		byExt:       make(map[string]*Language, len(r.byExt)+len(other.byExt)),
	}
	for _, name := range r.names() {
		if _, ok := other.byName[name]; !ok {
			merged.add(r.byName[name])
		}
	}
	for _, name := range other.names() {
		merged.add(other.byName[name])
	}
	if other.defaultName != "" {
		merged.defaultName = other.defaultName
	}
	return merged
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Languages returns every language sorted by name.
func (r *Registry) Languages() []*Language {
	langs := make([]*Language, 0, len(r.byName))
	for _, name := range r.names() {
		langs = append(langs, r.byName[name])
	}
	return langs
}

// Lookup returns the language with the given name.
func (r *Registry) Lookup(name string) (*Language, bool) {
	lang, ok := r.byName[name]
	return lang, ok
}

// Default returns the fallback language, or nil if the registry has none.
func (r *Registry) Default() *Language {
	return r.byName[r.defaultName]
}

// ForFile returns the language matching the extension of filename, falling back to the default
// language.
func (r *Registry) ForFile(filename string) *Language {
	if lang, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return lang
	}
	return r.Default()
}

// Resolve picks a language by name when one is given, otherwise by filename.
func (r *Registry) Resolve(name, filename string) (*Language, error) {
	if name != "" {
		lang, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
		}
		return lang, nil
	}
	if lang := r.ForFile(filename); lang != nil {
		return lang, nil
	}
	return nil, fmt.Errorf("%w: no default language for %q", ErrUnknownLanguage, filename)
}
