// Package filter narrows the extracted identifiers down to the set that gets rendered.
package filter

import (
	"sort"
	"strings"
)

// Rules are the optional narrowing rules. Zero values disable a rule.
type Rules struct {
	Prefix  string
	Suffix  string
	Include []string
	Exclude []string
}

// IsZero reports whether no rule is set.
func (r Rules) IsZero() bool {
	return r.Prefix == "" && r.Suffix == "" && len(r.Include) == 0 && len(r.Exclude) == 0
}

// Result holds the surviving identifiers, sorted and unique, plus any duplicates seen.
type Result struct {
	IDs        []string
	Duplicates []string
}

// Apply deduplicates ids and then applies prefix, suffix, include and exclude, in that order.
func Apply(ids []string, rules Rules) Result {
	var res Result
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; ok {
			res.Duplicates = append(res.Duplicates, id)
			continue
		}
		set[id] = struct{}{}
	}

	if rules.Prefix != "" {
		for id := range set {
			if !strings.HasPrefix(id, rules.Prefix) {
				delete(set, id)
			}
		}
	}
	if rules.Suffix != "" {
		for id := range set {
			if !strings.HasSuffix(id, rules.Suffix) {
				delete(set, id)
			}
		}
	}
	if len(rules.Include) > 0 {
		include := toSet(rules.Include)
		for id := range set {
			if _, ok := include[id]; !ok {
				delete(set, id)
			}
		}
	}
	for _, id := range rules.Exclude {
		delete(set, id)
	}

	res.IDs = make([]string, 0, len(set))
	for id := range set {
		res.IDs = append(res.IDs, id)
	}
	sort.Strings(res.IDs)
	return res
}

func toSet(values []string) map[string]struct{} {
	s := make(map[string]struct{}, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}
