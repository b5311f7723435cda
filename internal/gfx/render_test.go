package gfx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEntries = []Entry{
	{ID: "MOD_test_one", Path: "gfx/interface/goals/goal_unknown.dds"},
	{ID: "MOD_test_two", Path: "gfx/interface/goals/GFX_MOD_test_two.tga"},
}

const wantStandard = `spriteTypes = {
  spriteType = {
    name = GFX_A
    texturefile = a.dds
  }
  spriteType = {
    name = GFX_A_shine
    texturefile = a.dds
    animation = {
      animationmaskfile = a.dds
      animationtexturefile = gfx/interface/goals/shine_overlay.dds
      animationrotation = -90.0
      animationlooping = no
      animationtime = 0.75
      animationdelay = 0
      animationblendmode = "add"
      animationtype = "scrolling"
      animationrotationoffset = { x = 0.0 y = 0.0 }
      animationtexturescale = { x = 1.0 y = 1.0 }
    }
    animation = {
      animationmaskfile = a.dds
      animationtexturefile = gfx/interface/goals/shine_overlay.dds
      animationrotation = 90.0
      animationlooping = no
      animationtime = 0.75
      animationdelay = 0
      animationblendmode = "add"
      animationtype = "scrolling"
      animationrotationoffset = { x = 0.0 y = 0.0 }
      animationtexturescale = { x = 1.0 y = 1.0 }
    }
    legacy_lazy_load = no
  }
}
`

func TestRender_StandardGolden(t *testing.T) {
	got := Render([]Entry{{ID: "A", Path: "a.dds"}}, RenderOptions{Style: StyleStandard, Indent: 2})
	assert.Equal(t, wantStandard, got)
}

func TestRender_CompactIsOneLinePerSprite(t *testing.T) {
	got := Render(testEntries, RenderOptions{Style: StyleCompact, Indent: 4})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Len(t, lines, 2+2*len(testEntries))
	assert.Equal(t, "spriteTypes = {", lines[0])
	assert.Equal(t, "    spriteType = { name = GFX_MOD_test_one texturefile = gfx/interface/goals/goal_unknown.dds }", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "    spriteType = { name = GFX_MOD_test_one_shine "))
	assert.Equal(t, "}", lines[len(lines)-1])
}

func TestRender_PrettyBracesOnOwnLine(t *testing.T) {
	got := Render(testEntries[:1], RenderOptions{Style: StylePretty, Indent: 4})
	assert.Contains(t, got, "    spriteType =\n    {\n        name        = GFX_MOD_test_one\n        texturefile = gfx/interface/goals/goal_unknown.dds\n    }\n")
	assert.Contains(t, got, "            animationrotationoffset = { x = 0.0 y = 0.0 }\n")
}

func TestRender_StylesCarrySameData(t *testing.T) {
	for _, indent := range ValidIndents {
		standard := strings.Fields(Render(testEntries, RenderOptions{Style: StyleStandard, Indent: indent}))
		compact := strings.Fields(Render(testEntries, RenderOptions{Style: StyleCompact, Indent: indent}))
		pretty := strings.Fields(Render(testEntries, RenderOptions{Style: StylePretty, Indent: indent}))

		assert.Equal(t, standard, compact, "indent %d", indent)
		assert.Equal(t, standard, pretty, "indent %d", indent)
	}
}

func TestRender_BracesBalanced(t *testing.T) {
	for _, style := range []Style{StyleStandard, StyleCompact, StylePretty} {
		out := Render(testEntries, RenderOptions{Style: style, Indent: 4})
		assert.Equal(t, strings.Count(out, "{"), strings.Count(out, "}"), style.String())
		assert.Equal(t, 4*len(testEntries), strings.Count(out, "spriteType =")+strings.Count(out, "animation ="), style.String())
	}
}

func TestRender_Deterministic(t *testing.T) {
	opts := RenderOptions{Style: StyleStandard, Indent: 4}
	assert.Equal(t, Render(testEntries, opts), Render(testEntries, opts))
}

func TestRender_InvalidIndentFallsBack(t *testing.T) {
	got := Render(testEntries[:1], RenderOptions{Indent: 3})
	assert.Contains(t, got, "\n    spriteType = {\n")
}

func TestRender_EmptyEntries(t *testing.T) {
	assert.Equal(t, "spriteTypes = {\n}\n", Render(nil, RenderOptions{}))
}

func TestRender_WithHeader(t *testing.T) {
	h := &HeaderInfo{
		Time:       time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
		SourceHash: SourceHash([]byte("focus = { id = A }")),
		SourcePath: "/mods/x/common/national_focus/tree.txt",
	}
	got := Render(nil, RenderOptions{Header: h})
	want := "# Generated by focusgfx\n" +
		"# Timestamp: 2025-03-04 05:06:07\n" +
		"# Source hash: " + h.SourceHash + "\n" +
		"# Source file: tree.txt\n" +
		"#\n" +
		"spriteTypes = {\n}\n"
	assert.Equal(t, want, got)
}

func TestSourceHash(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", SourceHash(nil))
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("Pretty")
	require.NoError(t, err)
	assert.Equal(t, StylePretty, s)

	s, err = ParseStyle("")
	require.NoError(t, err)
	assert.Equal(t, StyleStandard, s)

	_, err = ParseStyle("fancy")
	assert.Error(t, err)
}
