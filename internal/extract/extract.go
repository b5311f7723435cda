// Package extract finds entry identifiers in focus-tree scripts.
//
// An entry is a block of the form
//
//	focus = {
//		id = SOME_ID
//		...
//	}
//
// Only the first assignment inside the block is inspected, and it must be the id.
// The keyword is matched as a suffix, so "focus" also picks up shared_focus blocks.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
)

// DefaultKeyword is the block keyword used when none is configured.
const DefaultKeyword = "focus"

// ErrNoEntries is returned when the source contains no matching blocks.
var ErrNoEntries = errors.New("no entries found in source")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor matches `<keyword> = { id = <token>` blocks.
type Extractor struct {
	keyword string
	pattern *regexp.Regexp
}

// New builds an extractor for the given block keyword. An empty keyword means "focus".
func New(keyword string) *Extractor {
	if keyword == "" {
		keyword = DefaultKeyword
	}
	return &Extractor{
		keyword: keyword,
		pattern: regexp.MustCompile(regexp.QuoteMeta(keyword) + `\s*=\s*\{\s*id\s*=\s*(\w+)`),
	}
}

// Keyword returns the block keyword this extractor matches.
func (e *Extractor) Keyword() string {
	return e.keyword
}

// Extract returns every matched identifier in order of appearance, duplicates included.
func (e *Extractor) Extract(content string) ([]string, error) {
	matches := e.pattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil, ErrNoEntries
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids, nil
}

// ReadSource reads the source file once. The bytes are returned as stored, byte-order
// mark included, so hashes match the file on disk.
func ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", path, err)
	}
	return data, nil
}

// StripBOM drops a leading UTF-8 byte-order mark, if present.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}
