package gfx

import (
	"fmt"
	"strings"
)

// Style selects one of the output layouts. All styles carry the same data.
type Style int

const (
	StyleStandard Style = iota
	StyleCompact
	StylePretty
)

var styleNames = map[Style]string{
	StyleStandard: "standard",
	StyleCompact:  "compact",
	StylePretty:   "pretty",
}

// StyleNames lists the accepted style names.
var StyleNames = []string{"standard", "compact", "pretty"}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle maps a style name to a Style. Matching is case-insensitive.
func ParseStyle(name string) (Style, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return StyleStandard, nil
	}
	for s, sn := range styleNames {
		if sn == n {
			return s, nil
		}
	}
	return StyleStandard, fmt.Errorf("unknown output style %q (valid: %s)", name, strings.Join(StyleNames, ", "))
}

// ValidIndents lists the accepted indentation widths.
var ValidIndents = []int{2, 4, 8}

// ValidIndent reports whether n is an accepted indentation width.
func ValidIndent(n int) bool {
	for _, v := range ValidIndents {
		if v == n {
			return true
		}
	}
	return false
}
