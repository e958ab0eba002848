// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/semscan/core"
)

// defaultMinLength filters out fragments too short to carry a claim.
const defaultMinLength = 50

// Parser extracts statements from documentation files.
type Parser struct {
	minLength  int
	extensions map[string]bool
}

// ParserOption is a functional option for configuring a Parser.
type ParserOption func(*Parser)

// WithMinLength sets the minimum statement length in characters.
func WithMinLength(minLength int) ParserOption {
	return func(p *Parser) {
		p.minLength = minLength
	}
}

// WithExtensions sets the file extensions to process, e.g. ".md", ".txt".
func WithExtensions(extensions ...string) ParserOption {
	return func(p *Parser) {
		p.extensions = make(map[string]bool, len(extensions))
		for _, ext := range extensions {
			p.extensions[ext] = true
		}
	}
}

// NewParser creates a parser for markdown, plain text and JSON files.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		minLength:  defaultMinLength,
		extensions: map[string]bool{".md": true, ".txt": true, ".json": true},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseDocuments extracts statements from a file or directory tree.
// Files are processed in sorted path order so statement indices are
// stable across runs.
func (p *Parser) ParseDocuments(path string) ([]core.Statement, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var files []string
	if !info.IsDir() {
		files = []string{path}
	} else {
		err := filepath.WalkDir(path, func(file string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && p.extensions[filepath.Ext(file)] {
				files = append(files, file)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
	}

	var statements []core.Statement
	for _, file := range files {
		parsed, err := p.parseFile(file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		statements = append(statements, parsed...)
	}
	return statements, nil
}

func (p *Parser) parseFile(path string) ([]core.Statement, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(path) {
	case ".md":
		return p.parseMarkdown(path, string(content)), nil
	case ".txt":
		return p.parseText(path, string(content)), nil
	case ".json":
		return p.parseJSON(path, content), nil
	}
	return nil, nil
}

// parseText splits plain text into blank-line separated paragraphs.
func (p *Parser) parseText(path, content string) []core.Statement {
	var statements []core.Statement
	for _, para := range groupParagraphs(strings.Split(content, "\n")) {
		clean := strings.Join(strings.Fields(para.text), " ")
		if len(clean) < p.minLength {
			continue
		}
		statements = append(statements, core.Statement{
			Text:       clean,
			SourceFile: path,
			LineNumber: para.startLine,
			Context:    truncate(para.text, 200),
		})
	}
	return statements
}

// parseMarkdown splits markdown into paragraphs, stripping code blocks,
// formatting, headers and table or list structure.
func (p *Parser) parseMarkdown(path, content string) []core.Statement {
	content = removeCodeBlocks(content)

	var statements []core.Statement
	for _, para := range groupParagraphs(strings.Split(content, "\n")) {
		clean := cleanParagraph(para.text)
		if len(clean) < p.minLength {
			continue
		}
		if isHeaderOnly(clean) || isTableOrListStructure(para.text) {
			continue
		}
		statements = append(statements, core.Statement{
			Text:       clean,
			SourceFile: path,
			LineNumber: para.startLine,
			Context:    truncate(para.text, 200),
		})
	}
	return statements
}

// parseJSON extracts every string value reachable from the document root.
// Unparseable JSON yields no statements rather than an error; mixed
// documentation trees routinely contain config fragments.
func (p *Parser) parseJSON(path string, content []byte) []core.Statement {
	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil
	}

	var statements []core.Statement
	for _, sv := range extractJSONStrings(data, nil) {
		if len(sv.text) < p.minLength {
			continue
		}
		statements = append(statements, core.Statement{
			Text:       sv.text,
			SourceFile: path,
			LineNumber: 1, // JSON has no meaningful line numbers
			Context:    strings.Join(sv.path, "."),
		})
	}
	return statements
}

type paragraph struct {
	text      string
	startLine int
}

// groupParagraphs joins consecutive non-blank lines into paragraphs,
// remembering the 1-based line each paragraph starts on.
func groupParagraphs(lines []string) []paragraph {
	var paragraphs []paragraph
	var current []string
	startLine := 1

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, paragraph{
					text:      strings.Join(current, "\n"),
					startLine: startLine,
				})
				current = nil
			}
			continue
		}
		if len(current) == 0 {
			startLine = i + 1
		}
		current = append(current, stripped)
	}

	if len(current) > 0 {
		paragraphs = append(paragraphs, paragraph{
			text:      strings.Join(current, "\n"),
			startLine: startLine,
		})
	}
	return paragraphs
}

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*]+)\*`)
	boldAltRe    = regexp.MustCompile(`__([^_]+)__`)
	italicAltRe  = regexp.MustCompile(`_([^_]+)_`)
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	headerRe     = regexp.MustCompile(`^#{1,6}\s+.+$`)
	listItemRe   = regexp.MustCompile(`^\s*[-*+]\s+`)
)

func removeCodeBlocks(content string) string {
	content = fencedCodeRe.ReplaceAllString(content, "")
	return inlineCodeRe.ReplaceAllString(content, "")
}

func cleanParagraph(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = boldAltRe.ReplaceAllString(text, "$1")
	text = italicAltRe.ReplaceAllString(text, "$1")
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = htmlTagRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

func isHeaderOnly(text string) bool {
	return headerRe.MatchString(text)
}

// isTableOrListStructure reports whether a paragraph is mostly table rows
// or list items rather than prose.
func isTableOrListStructure(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return false
	}

	var tableLines, listLines int
	for _, line := range lines {
		if strings.Contains(line, "|") {
			tableLines++
		}
		if listItemRe.MatchString(line) {
			listLines++
		}
	}
	if float64(tableLines)/float64(len(lines)) > 0.5 {
		return true
	}
	return float64(listLines)/float64(len(lines)) > 0.8
}

type jsonString struct {
	text string
	path []string
}

// extractJSONStrings walks a decoded JSON value collecting string leaves
// with their paths. Object keys are visited in sorted order so extraction
// is deterministic.
func extractJSONStrings(value any, path []string) []jsonString {
	var results []jsonString
	switch v := value.(type) {
	case string:
		if clean := strings.TrimSpace(v); clean != "" {
			results = append(results, jsonString{text: clean, path: append([]string(nil), path...)})
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			results = append(results, extractJSONStrings(v[k], append(path, k))...)
		}
	case []any:
		for i, item := range v {
			results = append(results, extractJSONStrings(item, append(path, strconv.Itoa(i)))...)
		}
	}
	return results
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
