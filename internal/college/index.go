package college

// searchTerm is one original (non-normalized) name or alias string retained
// for the scored-prefix matching stage, together with the record it names.
type searchTerm struct {
	term   string
	normal string // AggressiveKey(term), precomputed once at build time
	record *InstitutionRecord
}

// referenceIndex maps normalized lookup keys to institution records.
// It is built once and never mutated afterwards; all lookups are lock-free.
type referenceIndex struct {
	// keys maps both exact and aggressively-normalized forms of every name
	// and alias to its record. Last write wins on collisions: two distinct
	// institutions whose names normalize identically is accepted behavior.
	keys map[string]*InstitutionRecord

	// orderedKeys holds every key in insertion (dataset) order. The
	// substring stage scans keys first-match-wins; iterating in insertion
	// order keeps that stage deterministic across processes.
	orderedKeys []string

	// terms is the flat list of original name/alias strings, dataset order.
	terms []searchTerm
}

// buildReferenceIndex constructs the lookup index over the merged dataset
// (reference records plus custom entries). records must outlive the index;
// the index stores pointers into the slice.
func buildReferenceIndex(records []InstitutionRecord) *referenceIndex {
	idx := &referenceIndex{
		keys: make(map[string]*InstitutionRecord, len(records)*2),
	}

	for i := range records {
		rec := &records[i]
		idx.insertForms(rec.Name, rec)
		idx.terms = append(idx.terms, searchTerm{
			term:   rec.Name,
			normal: AggressiveKey(rec.Name),
			record: rec,
		})

		for _, alias := range SplitAliases(rec.Alias) {
			idx.insertForms(alias, rec)
			idx.terms = append(idx.terms, searchTerm{
				term:   alias,
				normal: AggressiveKey(alias),
				record: rec,
			})
		}
	}

	return idx
}

// insertForms inserts the exact and aggressive keys for a name. The
// aggressive form is skipped when it equals the exact form to avoid a
// redundant overwrite of the same slot.
func (idx *referenceIndex) insertForms(name string, rec *InstitutionRecord) {
	exact := ExactKey(name)
	if exact == "" {
		return
	}
	idx.insert(exact, rec)

	if aggressive := AggressiveKey(name); aggressive != "" && aggressive != exact {
		idx.insert(aggressive, rec)
	}
}

func (idx *referenceIndex) insert(key string, rec *InstitutionRecord) {
	if _, exists := idx.keys[key]; !exists {
		idx.orderedKeys = append(idx.orderedKeys, key)
	}
	idx.keys[key] = rec
}

// lookup returns the record for a normalized key, if any.
func (idx *referenceIndex) lookup(key string) (*InstitutionRecord, bool) {
	rec, ok := idx.keys[key]
	return rec, ok
}

// size returns the number of distinct keys in the index.
func (idx *referenceIndex) size() int {
	return len(idx.keys)
}
