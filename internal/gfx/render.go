// Package gfx renders the spriteTypes interface file.
//
// Each entry becomes two sprites: GFX_<id> pointing at the icon, and GFX_<id>_shine which
// layers two mirrored scrolling animations of the shine overlay over the same icon.
// The document is built as a small block tree first and then printed by one of three
// style printers, so every style carries identical data.
package gfx

import (
	"strconv"
	"strings"
)

// ShineOverlay is the texture scrolled across the icon in the shine sprite.
const ShineOverlay = "gfx/interface/goals/shine_overlay.dds"

// Entry pairs an identifier with its resolved texture path.
type Entry struct {
	ID   string
	Path string
}

// RenderOptions controls layout. Indent is the width of one indentation level.
type RenderOptions struct {
	Style  Style
	Indent int
	// Header, when set, is written as a comment block before the container.
	Header *HeaderInfo
}

// node is either a leaf assignment (Value set) or a block (Children set).
// Inline blocks are always printed on one line.
type node struct {
	Key      string
	Value    string
	Children []node
	Inline   bool
}

func leaf(key, value string) node { return node{Key: key, Value: value} }

func block(key string, children ...node) node { return node{Key: key, Children: children} }

func vector(key, x, y string) node {
	return node{Key: key, Inline: true, Children: []node{leaf("x", x), leaf("y", y)}}
}

func animation(path string, rotation float64) node {
	return block("animation",
		leaf("animationmaskfile", path),
		leaf("animationtexturefile", ShineOverlay),
		leaf("animationrotation", strconv.FormatFloat(rotation, 'f', 1, 64)),
		leaf("animationlooping", "no"),
		leaf("animationtime", "0.75"),
		leaf("animationdelay", "0"),
		leaf("animationblendmode", `"add"`),
		leaf("animationtype", `"scrolling"`),
		vector("animationrotationoffset", "0.0", "0.0"),
		vector("animationtexturescale", "1.0", "1.0"),
	)
}

// sprites returns the primary and shine sprite blocks for one entry.
func sprites(e Entry) []node {
	name := "GFX_" + e.ID
	return []node{
		block("spriteType",
			leaf("name", name),
			leaf("texturefile", e.Path),
		),
		block("spriteType",
			leaf("name", name+"_shine"),
			leaf("texturefile", e.Path),
			animation(e.Path, -90),
			animation(e.Path, 90),
			leaf("legacy_lazy_load", "no"),
		),
	}
}

// Render returns the full document for entries.
func Render(entries []Entry, opts RenderOptions) string {
	if !ValidIndent(opts.Indent) {
		opts.Indent = 4
	}
	unit := strings.Repeat(" ", opts.Indent)

	var sb strings.Builder
	if opts.Header != nil {
		sb.WriteString(Header(*opts.Header))
	}

	sb.WriteString("spriteTypes = {\n")
	for i, e := range entries {
		pair := sprites(e)
		switch opts.Style {
		case StyleCompact:
			writeCompact(&sb, pair, unit)
		case StylePretty:
			if i > 0 {
				sb.WriteString("\n")
			}
			writePretty(&sb, pair, unit)
		default:
			writeStandard(&sb, pair, unit)
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// writeStandard puts opening braces at the end of the key line.
func writeStandard(sb *strings.Builder, nodes []node, unit string) {
	for _, n := range nodes {
		standardNode(sb, n, unit, 1)
	}
}

func standardNode(sb *strings.Builder, n node, unit string, depth int) {
	indent := strings.Repeat(unit, depth)
	switch {
	case n.Children == nil:
		sb.WriteString(indent + n.Key + " = " + n.Value + "\n")
	case n.Inline:
		sb.WriteString(indent + inline(n) + "\n")
	default:
		sb.WriteString(indent + n.Key + " = {\n")
		for _, c := range n.Children {
			standardNode(sb, c, unit, depth+1)
		}
		sb.WriteString(indent + "}\n")
	}
}

// writePretty puts braces on their own lines and aligns the "=" of sibling assignments.
func writePretty(sb *strings.Builder, nodes []node, unit string) {
	for _, n := range nodes {
		prettyNode(sb, n, unit, 1, len(n.Key))
	}
}

func prettyNode(sb *strings.Builder, n node, unit string, depth, keyWidth int) {
	indent := strings.Repeat(unit, depth)
	key := n.Key + strings.Repeat(" ", keyWidth-len(n.Key))
	switch {
	case n.Children == nil:
		sb.WriteString(indent + key + " = " + n.Value + "\n")
	case n.Inline:
		sb.WriteString(indent + key + " = " + inline(n)[len(n.Key)+3:] + "\n")
	default:
		sb.WriteString(indent + n.Key + " =\n")
		sb.WriteString(indent + "{\n")
		width := 0
		for _, c := range n.Children {
			if c.Children == nil || c.Inline {
				if len(c.Key) > width {
					width = len(c.Key)
				}
			}
		}
		for _, c := range n.Children {
			w := width
			if c.Children != nil && !c.Inline {
				w = len(c.Key)
			}
			prettyNode(sb, c, unit, depth+1, w)
		}
		sb.WriteString(indent + "}\n")
	}
}

// writeCompact prints every sprite block on a single line.
func writeCompact(sb *strings.Builder, nodes []node, unit string) {
	for _, n := range nodes {
		sb.WriteString(unit + inline(n) + "\n")
	}
}

func inline(n node) string {
	if n.Children == nil {
		return n.Key + " = " + n.Value
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, inline(c))
	}
	return n.Key + " = { " + strings.Join(parts, " ") + " }"
}
