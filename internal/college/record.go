// Package college implements the college name resolution service: an
// in-memory reference index over a postsecondary-institution dataset, a
// staged fuzzy resolver that maps free-text institution names to canonical
// records, and a deduplicated autocomplete search.
package college

// Resolution sources.
const (
	// SourceReference indicates the name was matched against the reference dataset.
	SourceReference = "reference"

	// SourceMapping indicates the name was pre-resolved by the known-mappings
	// store. The resolver itself never produces this value; it is set by the
	// HTTP layer which consults the mapping store before calling Resolve.
	SourceMapping = "mapping"

	// SourceUnmatched indicates no match was found.
	SourceUnmatched = "unmatched"
)

// InstitutionRecord is one row of the reference dataset.
// ID is stable per physical institution and never reused.
type InstitutionRecord struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Alias     string   `json:"alias,omitempty"` // raw alias field, delimited by , ; or |
	City      string   `json:"city"`
	State     string   `json:"state"` // "XX" is a sentinel for non-geographic entries
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasLocation reports whether the record carries a real city/state pair.
// Non-geographic entries (military branches etc.) use the "XX" state sentinel.
func (r *InstitutionRecord) HasLocation() bool {
	return r.City != "" && r.State != "" && r.State != StateSentinel
}

// StateSentinel marks records without a real location.
const StateSentinel = "XX"

// Resolution is the output of resolving a single free-text name.
// StandardName is nil when the name could not be matched.
type Resolution struct {
	OriginalName string   `json:"originalName"`
	StandardName *string  `json:"standardName"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Confidence   float64  `json:"confidence"`
	Source       string   `json:"source"`
}

// unmatched builds the universal fallback resolution for a name.
// Per-item failures do not exist: every input yields a Resolution.
func unmatched(name string) Resolution {
	return Resolution{
		OriginalName: name,
		Confidence:   0,
		Source:       SourceUnmatched,
	}
}

// matched builds a successful resolution from a reference record.
func matched(name string, rec *InstitutionRecord, confidence float64) Resolution {
	standard := rec.Name
	return Resolution{
		OriginalName: name,
		StandardName: &standard,
		Latitude:     rec.Latitude,
		Longitude:    rec.Longitude,
		Confidence:   confidence,
		Source:       SourceReference,
	}
}
