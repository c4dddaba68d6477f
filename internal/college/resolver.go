package college

import (
	"sort"
	"strings"
)

// Confidence assigned by each pipeline stage. The values are part of the
// external contract: bulk-import callers bucket resolutions by confidence
// when deciding what needs manual review.
const (
	ConfidenceSpecialCase = 1.0
	ConfidenceExact       = 1.0
	ConfidenceAggressive  = 0.9
	ConfidenceSubstring   = 0.8
	ConfidencePrefix      = 0.9
)

// Pipeline stage names, used for logging and metrics labels.
const (
	StageBlank       = "blank"
	StageSpecialCase = "special_case"
	StageExact       = "exact"
	StageAggressive  = "aggressive"
	StageSubstring   = "substring"
	StagePrefix      = "prefix"
	StageUnmatched   = "unmatched"
)

// minPrefixQueryLength is the minimum normalized input length for the
// scored-prefix stage; shorter fragments match far too broadly.
const minPrefixQueryLength = 3

// specialCases maps normalized forms of known non-dataset names to their
// display form. These are names that appear frequently in imported
// spreadsheets but have no usable dataset row of their own.
var specialCases = map[string]string{
	"army":                "Army",
	"navy":                "Navy",
	"air force":           "Air Force",
	"marine corps":        "Marine Corps",
	"coast guard":         "Coast Guard",
	"space force":         "Space Force",
	"national guard":      "National Guard",
	"army national guard": "Army National Guard",
	"air national guard":  "Air National Guard",
}

// Prefix-candidate ranking weights (see rankPrefixCandidates).
const (
	prefixMatchBonus     = 10 // candidate starts with the input
	prefixLengthBonus    = 5  // decays as the length difference grows
	prefixLengthDivisor  = 10
	prefixWordCountBonus = 3 // decays per word-count difference
	prefixWholeWordBonus = 5 // a whole word of the candidate equals the input
)

// indexes bundles the immutable structures the resolver and searcher read.
type indexes struct {
	reference *referenceIndex
	canonical *canonicalIndex
	records   []InstitutionRecord
}

// resolveOne runs a single name through the staged match pipeline and
// returns its resolution plus the stage that produced it. First match wins.
func (ix *indexes) resolveOne(name string) (Resolution, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return unmatched(name), StageBlank
	}

	exactKey := ExactKey(trimmed)

	// Special-case table: known non-dataset names resolve to themselves,
	// borrowing coordinates from the reference index when available.
	if standard, ok := specialCases[exactKey]; ok {
		res := Resolution{
			OriginalName: name,
			StandardName: &standard,
			Confidence:   ConfidenceSpecialCase,
			Source:       SourceReference,
		}
		if rec, ok := ix.reference.lookup(ExactKey(standard)); ok {
			res.Latitude = rec.Latitude
			res.Longitude = rec.Longitude
			res.StandardName = &rec.Name
		}
		return res, StageSpecialCase
	}

	if rec, ok := ix.reference.lookup(exactKey); ok {
		return matched(name, rec, ConfidenceExact), StageExact
	}

	aggressiveKey := AggressiveKey(trimmed)
	if rec, ok := ix.reference.lookup(aggressiveKey); ok {
		return matched(name, rec, ConfidenceAggressive), StageAggressive
	}

	// Substring stage: the lightly-normalized input is a fragment of some
	// longer canonical form. Keys are scanned in insertion order and the
	// first hit wins; this is deliberately first-found rather than
	// best-found. The aggressive form is reserved for the prefix stage,
	// which would otherwise be shadowed entirely by this one.
	for _, key := range ix.reference.orderedKeys {
		if strings.Contains(key, exactKey) {
			if rec, ok := ix.reference.lookup(key); ok {
				return matched(name, rec, ConfidenceSubstring), StageSubstring
			}
		}
	}

	if len(aggressiveKey) >= minPrefixQueryLength {
		if rec, ok := ix.prefixMatch(aggressiveKey); ok {
			return matched(name, rec, ConfidencePrefix), StagePrefix
		}
	}

	return unmatched(name), StageUnmatched
}

// prefixMatch collects every search term whose normalized form starts with
// the normalized input. A single candidate is accepted outright; multiple
// candidates are ranked and the best one wins.
func (ix *indexes) prefixMatch(normalizedInput string) (*InstitutionRecord, bool) {
	var candidates []searchTerm
	for _, t := range ix.reference.terms {
		if strings.HasPrefix(t.normal, normalizedInput) {
			candidates = append(candidates, t)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, false
	case 1:
		return candidates[0].record, true
	}

	best := rankPrefixCandidates(normalizedInput, candidates)
	return best.record, true
}

// rankPrefixCandidates scores prefix candidates and returns the best one.
// Ties keep the earlier candidate: the sort is stable and candidates are
// enumerated in dataset order, so the outcome is deterministic.
func rankPrefixCandidates(normalizedInput string, candidates []searchTerm) searchTerm {
	inputWords := len(strings.Fields(normalizedInput))

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		score := float64(prefixMatchBonus)

		lenDiff := len(c.normal) - len(normalizedInput)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if v := float64(prefixLengthBonus) - float64(lenDiff)/prefixLengthDivisor; v > 0 {
			score += v
		}

		wordDiff := len(strings.Fields(c.normal)) - inputWords
		if wordDiff < 0 {
			wordDiff = -wordDiff
		}
		if v := float64(prefixWordCountBonus - wordDiff); v > 0 {
			score += v
		}

		for _, w := range strings.Fields(c.normal) {
			if w == normalizedInput {
				score += prefixWholeWordBonus
				break
			}
		}

		scores[i] = score
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	return candidates[order[0]]
}
