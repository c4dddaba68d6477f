package college

import (
	"regexp"
	"sort"
	"strings"
)

// Variant ranking weights. These are tuned heuristics carried over from the
// production dataset; the absolute values matter only relative to each other.
const (
	scoreExactBaseName = 50  // record name equals the base name
	scoreMainCampus    = 15  // record is the main campus (or equals the base)
	scoreDisqualifier  = -40 // per disqualifying term present
	scoreConciseName   = 10  // concise names are better canonical forms
	conciseLengthSlack = 20  // name may exceed base name length by this much
)

// campusQualifiers are administrative suffixes stripped when computing a
// base name. Longer qualifiers come first so "Main Campus" wins over "Campus".
var campusQualifiers = []string{
	"System Office",
	"Main Campus",
	"Graduate School",
	"Medical Center",
	"Extension",
	"Hospital",
	"Campus",
	"Online",
	"Center",
}

// disqualifyingTerms mark variants that should never represent their group.
// Each term present (in the record name or campus descriptor) applies the
// penalty once, regardless of how often it occurs.
var disqualifyingTerms = []string{
	"system office",
	"online",
	"extension",
	"center",
	"hospital",
	"medical center",
	"graduate school only",
	"administrative",
}

// parentheticalRegex captures "X (Y)" institution names, where Y is a
// campus descriptor such as "Main Campus" or "Fort Wayne".
var parentheticalRegex = regexp.MustCompile(`^(.*?)\s*\(([^)]*)\)\s*$`)

// CanonicalVariant is one record's membership in a canonical group.
type CanonicalVariant struct {
	BaseName         string
	CampusDescriptor string
	Record           *InstitutionRecord
	Score            int
}

// Canonicalize splits an institution name into its base name and campus
// descriptor. "Indiana University (Fort Wayne)" yields base "Indiana
// University" and descriptor "Fort Wayne"; a trailing administrative
// qualifier like "Main Campus" or "System Office" is stripped from the base.
func Canonicalize(name string) (baseName, campusDescriptor string) {
	rest := strings.TrimSpace(name)

	if m := parentheticalRegex.FindStringSubmatch(rest); m != nil {
		rest = strings.TrimSpace(m[1])
		campusDescriptor = strings.TrimSpace(m[2])
	}

	lower := strings.ToLower(rest)
	for _, q := range campusQualifiers {
		suffix := strings.ToLower(q)
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		cut := len(lower) - len(suffix)
		if cut == 0 {
			continue
		}
		// The qualifier must be a trailing token, not the tail of a longer
		// word: "Example Multicenter" keeps its name.
		switch lower[cut-1] {
		case ' ', '\t', '-', ',':
		default:
			continue
		}
		rest = strings.TrimSpace(rest[:cut])
		rest = strings.TrimRight(rest, "-,")
		rest = strings.TrimSpace(rest)
		break
	}

	return rest, campusDescriptor
}

// scoreVariant ranks how well a record represents its canonical group.
// Higher is better; negative scores are legal and simply rank last.
func scoreVariant(rec *InstitutionRecord, baseName, campusDescriptor string) int {
	nameLower := strings.ToLower(rec.Name)
	baseLower := strings.ToLower(baseName)

	score := 0
	if nameLower == baseLower {
		score += scoreExactBaseName
	}
	if strings.Contains(nameLower, "main campus") || nameLower == baseLower {
		score += scoreMainCampus
	}

	descriptorLower := strings.ToLower(campusDescriptor)
	for _, term := range disqualifyingTerms {
		if strings.Contains(nameLower, term) || strings.Contains(descriptorLower, term) {
			score += scoreDisqualifier
		}
	}

	if len(rec.Name) < len(baseName)+conciseLengthSlack {
		score += scoreConciseName
	}

	return score
}

// canonicalIndex groups institution records by lowercased base name.
// groupKeys preserves first-appearance (dataset) order so that every
// traversal of the index is deterministic.
type canonicalIndex struct {
	groups    map[string][]CanonicalVariant
	groupKeys []string
}

// buildCanonicalIndex groups all records by base name and ranks each group's
// variants descending by score, stable on ties (dataset order preserved).
func buildCanonicalIndex(records []InstitutionRecord) *canonicalIndex {
	idx := &canonicalIndex{
		groups: make(map[string][]CanonicalVariant),
	}

	for i := range records {
		rec := &records[i]
		base, descriptor := Canonicalize(rec.Name)
		if base == "" {
			base = rec.Name
		}
		key := strings.ToLower(base)
		if _, ok := idx.groups[key]; !ok {
			idx.groupKeys = append(idx.groupKeys, key)
		}
		idx.groups[key] = append(idx.groups[key], CanonicalVariant{
			BaseName:         base,
			CampusDescriptor: descriptor,
			Record:           rec,
			Score:            scoreVariant(rec, base, descriptor),
		})
	}

	for _, key := range idx.groupKeys {
		group := idx.groups[key]
		sort.SliceStable(group, func(a, b int) bool {
			return group[a].Score > group[b].Score
		})
	}

	return idx
}

// distinctInstitutions collapses a group to one variant per record ID.
// The group is sorted descending by score, so the first variant seen for an
// ID is its highest-scoring representation.
func distinctInstitutions(group []CanonicalVariant) []CanonicalVariant {
	seen := make(map[int64]bool, len(group))
	out := make([]CanonicalVariant, 0, len(group))
	for _, v := range group {
		if seen[v.Record.ID] {
			continue
		}
		seen[v.Record.ID] = true
		out = append(out, v)
	}
	return out
}
