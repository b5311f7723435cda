package filter

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	raw := []string{"MOD_b_end", "MOD_a", "other_a", "MOD_a", "MOD_c_end", "mod_lower"}

	tests := []struct {
		name  string
		rules Rules
		want  []string
	}{
		{
			name: "no rules dedups and sorts",
			want: []string{"MOD_a", "MOD_b_end", "MOD_c_end", "mod_lower", "other_a"},
		},
		{
			name:  "prefix is case sensitive",
			rules: Rules{Prefix: "MOD_"},
			want:  []string{"MOD_a", "MOD_b_end", "MOD_c_end"},
		},
		{
			name:  "suffix",
			rules: Rules{Suffix: "_end"},
			want:  []string{"MOD_b_end", "MOD_c_end"},
		},
		{
			name:  "prefix then include",
			rules: Rules{Prefix: "MOD_", Include: []string{"MOD_a", "other_a", "missing"}},
			want:  []string{"MOD_a"},
		},
		{
			name:  "exclude wins over include",
			rules: Rules{Include: []string{"MOD_a", "MOD_c_end"}, Exclude: []string{"MOD_a"}},
			want:  []string{"MOD_c_end"},
		},
		{
			name:  "everything filtered out",
			rules: Rules{Prefix: "NOPE_"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(raw, tt.rules)
			if diff := cmp.Diff(tt.want, got.IDs); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, []string{"MOD_a"}, got.Duplicates)
		})
	}
}

func TestApply_NeverGrows(t *testing.T) {
	inputs := [][]string{
		nil,
		{"A"},
		{"A", "A", "A"},
		{"C", "B", "A", "B"},
	}
	for _, in := range inputs {
		got := Apply(in, Rules{})
		assert.LessOrEqual(t, len(got.IDs), len(in))
		assert.Equal(t, len(in), len(got.IDs)+len(got.Duplicates))
		assert.True(t, sort.StringsAreSorted(got.IDs))
	}
}

func TestApply_NarrowingOrderDoesNotMatter(t *testing.T) {
	raw := []string{"MOD_x_end", "MOD_y", "z_end", "MOD_z_end"}
	sets := Rules{Include: []string{"MOD_x_end", "z_end", "MOD_z_end"}, Exclude: []string{"MOD_z_end"}}

	combined := Apply(raw, Rules{Prefix: "MOD_", Suffix: "_end", Include: sets.Include, Exclude: sets.Exclude})
	narrowedFirst := Apply(Apply(raw, Rules{Prefix: "MOD_", Suffix: "_end"}).IDs, sets)
	setsFirst := Apply(Apply(raw, sets).IDs, Rules{Prefix: "MOD_", Suffix: "_end"})

	assert.Equal(t, []string{"MOD_x_end"}, combined.IDs)
	assert.Equal(t, combined.IDs, narrowedFirst.IDs)
	assert.Equal(t, combined.IDs, setsFirst.IDs)
}

func TestRules_IsZero(t *testing.T) {
	assert.True(t, Rules{}.IsZero())
	assert.False(t, Rules{Exclude: []string{"x"}}.IsZero())
}
