// Package diff compares a freshly rendered output file with the one already on disk.
// Line matching is done by sergi/go-diff; this package groups the result into unified
// diff hunks for the --diff preview.
package diff

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines kept around each change.
const DefaultContext = 3

// LineType represents the type of diff line
type LineType int

const (
	LineContext LineType = iota // Unchanged context line
	LineAdded                   // Added line
	LineRemoved                 // Removed line
)

// Line is a single line in a hunk. LineNum is the old line number for context and
// removed lines and the new line number for added lines.
type Line struct {
	LineNum int
	Content string
	Type    LineType
}

// Hunk is a group of nearby changes with surrounding context.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// FileDiff holds the changes between two versions of one file.
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
	IsNew   bool
}

// Engine computes line diffs.
type Engine struct {
	dmp     *diffmatchpatch.DiffMatchPatch
	context int
}

// NewEngine creates an engine keeping contextLines of context; negative means DefaultContext.
func NewEngine(contextLines int) *Engine {
	if contextLines < 0 {
		contextLines = DefaultContext
	}
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return &Engine{dmp: dmp, context: contextLines}
}

// Compute diffs oldContent against newContent.
func (e *Engine) Compute(oldPath, newPath, oldContent, newContent string) *FileDiff {
	fd := &FileDiff{
		OldPath: oldPath,
		NewPath: newPath,
		IsNew:   oldContent == "",
	}

	// Diff whole lines: every distinct line becomes one rune.
	enc := newLineEncoder()
	a, b := enc.encode(oldContent), enc.encode(newContent)
	diffs := e.dmp.DiffMainRunes(a, b, false)

	fd.Hunks = e.group(toOperations(diffs, enc.lines))
	return fd
}

// lineEncoder maps every distinct line to a single rune, so DiffMainRunes compares whole
// lines. A final line without a newline is distinct from the same line with one.
type lineEncoder struct {
	index map[string]rune
	lines []string
}

func newLineEncoder() *lineEncoder {
	return &lineEncoder{index: make(map[string]rune)}
}

// lineRune returns the rune for the i-th distinct line, skipping the surrogate range.
func lineRune(i int) rune {
	if i >= 0xD800 {
		i += 0x800
	}
	return rune(i)
}

func runeLine(r rune) int {
	i := int(r)
	if i >= 0xE000 {
		i -= 0x800
	}
	return i
}

func (l *lineEncoder) encode(content string) []rune {
	if content == "" {
		return nil
	}
	parts := strings.SplitAfter(content, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	out := make([]rune, 0, len(parts))
	for _, raw := range parts {
		r, ok := l.index[raw]
		if !ok {
			r = lineRune(len(l.lines))
			l.index[raw] = r
			l.lines = append(l.lines, strings.TrimSuffix(raw, "\n"))
		}
		out = append(out, r)
	}
	return out
}

// Preview diffs the file currently at path against generated. A missing file diffs as empty.
func (e *Engine) Preview(path, generated string) (*FileDiff, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read existing output: %w", err)
	}
	return e.Compute(path, path, string(existing), generated), nil
}

// operation is one line of the flattened diff. oldIdx and newIdx count the old and new
// lines consumed before it.
type operation struct {
	typ     LineType
	content string
	oldIdx  int
	newIdx  int
}

func toOperations(diffs []diffmatchpatch.Diff, lines []string) []operation {
	var ops []operation
	oldIdx, newIdx := 0, 0

	for _, d := range diffs {
		for _, r := range d.Text {
			op := operation{content: lines[runeLine(r)], oldIdx: oldIdx, newIdx: newIdx}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				op.typ = LineContext
				oldIdx++
				newIdx++
			case diffmatchpatch.DiffDelete:
				op.typ = LineRemoved
				oldIdx++
			case diffmatchpatch.DiffInsert:
				op.typ = LineAdded
				newIdx++
			}
			ops = append(ops, op)
		}
	}
	return ops
}

// group splits ops into hunks. Changes separated by at most twice the context share a hunk.
func (e *Engine) group(ops []operation) []Hunk {
	var hunks []Hunk
	i := 0
	for i < len(ops) {
		if ops[i].typ == LineContext {
			i++
			continue
		}

		start := max(i-e.context, 0)
		last := i
		for j := i + 1; j < len(ops); j++ {
			if ops[j].typ != LineContext {
				last = j
				continue
			}
			if j-last > 2*e.context {
				break
			}
		}
		stop := min(last+e.context+1, len(ops))

		hunks = append(hunks, makeHunk(ops[start:stop]))
		i = stop
	}
	return hunks
}

func makeHunk(ops []operation) Hunk {
	h := Hunk{
		OldStart: ops[0].oldIdx + 1,
		NewStart: ops[0].newIdx + 1,
		Lines:    make([]Line, 0, len(ops)),
	}
	for _, op := range ops {
		line := Line{Content: op.content, Type: op.typ, LineNum: op.oldIdx + 1}
		switch op.typ {
		case LineContext:
			h.OldCount++
			h.NewCount++
		case LineRemoved:
			h.OldCount++
		case LineAdded:
			h.NewCount++
			line.LineNum = op.newIdx + 1
		}
		h.Lines = append(h.Lines, line)
	}
	// An empty side points at the line before the hunk.
	if h.OldCount == 0 {
		h.OldStart--
	}
	if h.NewCount == 0 {
		h.NewStart--
	}
	return h
}

// Empty reports whether the two versions are identical.
func (fd *FileDiff) Empty() bool {
	return len(fd.Hunks) == 0
}

// Stats counts added and removed lines.
func (fd *FileDiff) Stats() (added, removed int) {
	for _, h := range fd.Hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				added++
			case LineRemoved:
				removed++
			}
		}
	}
	return added, removed
}

// Unified renders the diff in unified format. An empty diff renders as "".
func (fd *FileDiff) Unified() string {
	if fd.Empty() {
		return ""
	}
	var sb strings.Builder
	oldPath := fd.OldPath
	if fd.IsNew {
		oldPath = "/dev/null"
	}
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", oldPath, fd.NewPath)
	for _, h := range fd.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdded:
				sb.WriteString("+")
			case LineRemoved:
				sb.WriteString("-")
			default:
				sb.WriteString(" ")
			}
			sb.WriteString(l.Content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
