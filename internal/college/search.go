package college

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultSearchLimit is the result cap applied when the caller passes a
// non-positive limit.
const DefaultSearchLimit = 50

// searchCandidate is one deduplicated institution considered for the
// autocomplete result set, with its match indicators precomputed.
type searchCandidate struct {
	variant  CanonicalVariant
	isPrefix bool // base name or record name starts with the query
	contains bool // base name or record name contains the query
}

// search finds canonical groups matching the query and returns ranked,
// deduplicated, disambiguated display labels. Output is deterministic:
// running the same query against the same index twice yields byte-identical
// results.
func (ix *indexes) search(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	// Accumulate matching groups' distinct institutions, deduplicated
	// globally by record ID. Groups are visited in dataset order so the
	// surviving variant for a record reachable via several groups is stable.
	var candidates []searchCandidate
	seen := make(map[int64]bool)

	for _, key := range ix.canonical.groupKeys {
		group := ix.canonical.groups[key]
		if !groupMatches(group, q) {
			continue
		}
		for _, v := range distinctInstitutions(group) {
			if seen[v.Record.ID] {
				continue
			}
			seen[v.Record.ID] = true

			baseLower := strings.ToLower(v.BaseName)
			nameLower := strings.ToLower(v.Record.Name)
			candidates = append(candidates, searchCandidate{
				variant:  v,
				isPrefix: strings.HasPrefix(baseLower, q) || strings.HasPrefix(nameLower, q),
				contains: strings.Contains(baseLower, q) || strings.Contains(nameLower, q),
			})
		}
	}

	sortCandidates(candidates)

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return disambiguateLabels(candidates)
}

// groupMatches reports whether a canonical group matches the query: the base
// name contains it, a word of the base name starts with it, or (failing
// both) some member record's name satisfies the same test.
func groupMatches(group []CanonicalVariant, q string) bool {
	if len(group) == 0 {
		return false
	}
	if nameMatches(group[0].BaseName, q) {
		return true
	}
	for _, v := range group {
		if nameMatches(v.Record.Name, q) {
			return true
		}
	}
	return false
}

// nameMatches reports whether a name contains the query or has a word
// starting with it. Comparison is case-insensitive.
func nameMatches(name, q string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, q) {
		return true
	}
	for _, w := range strings.Fields(lower) {
		if strings.HasPrefix(w, q) {
			return true
		}
	}
	return false
}

// sortCandidates orders candidates by prefix match, contains match, variant
// score, base name, then "state|city" as the final deterministic tiebreak.
// The alphabetical keys compare case-folded so casing in the dataset does not
// shuffle the ordering; candidates whose folded keys all tie keep dataset
// order.
func sortCandidates(candidates []searchCandidate) {
	sort.SliceStable(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.isPrefix != cb.isPrefix {
			return ca.isPrefix
		}
		if ca.contains != cb.contains {
			return ca.contains
		}
		if ca.variant.Score != cb.variant.Score {
			return ca.variant.Score > cb.variant.Score
		}
		ba := strings.ToLower(ca.variant.BaseName)
		bb := strings.ToLower(cb.variant.BaseName)
		if ba != bb {
			return ba < bb
		}
		la := strings.ToLower(ca.variant.Record.State + "|" + ca.variant.Record.City)
		lb := strings.ToLower(cb.variant.Record.State + "|" + cb.variant.Record.City)
		return la < lb
	})
}

// disambiguateLabels renders display labels for the truncated result set,
// guaranteeing no two labels are identical. Duplicate base-name labels are
// upgraded to full record names; labels that still collide get the record ID
// appended as a final, guaranteed-unique suffix.
func disambiguateLabels(candidates []searchCandidate) []string {
	if len(candidates) == 0 {
		return nil
	}

	labels := make([]string, len(candidates))
	counts := make(map[string]int, len(candidates))
	for i, c := range candidates {
		labels[i] = label(c.variant.BaseName, c.variant.Record)
		counts[labels[i]]++
	}

	upgraded := make(map[string]int, len(candidates))
	for i, c := range candidates {
		if counts[labels[i]] > 1 {
			labels[i] = label(c.variant.Record.Name, c.variant.Record)
		}
		upgraded[labels[i]]++
	}

	for i, c := range candidates {
		if upgraded[labels[i]] > 1 {
			labels[i] = fmt.Sprintf("%s — %d", labels[i], c.variant.Record.ID)
		}
	}

	return labels
}

// label renders a display label: "Name — City, ST" when the record has a
// real location, bare name otherwise.
func label(name string, rec *InstitutionRecord) string {
	if rec.HasLocation() {
		return fmt.Sprintf("%s — %s, %s", name, rec.City, rec.State)
	}
	return name
}
