package college

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchFixture(t *testing.T) *indexes {
	t.Helper()
	return testIndexes(t, []InstitutionRecord{
		{ID: 1, Name: "SUNY Maritime College", City: "Bronx", State: "NY"},
		{ID: 2, Name: "Harvard University", City: "Cambridge", State: "MA"},
		{ID: 3, Name: "Harvey Mudd College", City: "Claremont", State: "CA"},
		{ID: 4, Name: "Bryn Mawr College", City: "Bryn Mawr", State: "PA"},
		{ID: 5, Name: "Example University (Main Campus)", City: "Springfield", State: "IL"},
		{ID: 6, Name: "Example University Graduate School", City: "Springfield", State: "IL"},
		{ID: 7, Name: "Marine Corps", State: StateSentinel},
	})
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()
	ix := searchFixture(t)

	assert.Empty(t, ix.search("", 50))
	assert.Empty(t, ix.search("   ", 50))
}

func TestSearchScenario(t *testing.T) {
	t.Parallel()
	ix := searchFixture(t)

	got := ix.search("suny mar", 50)
	assert.Equal(t, []string{"SUNY Maritime College — Bronx, NY"}, got)
}

func TestSearchPrefixPriority(t *testing.T) {
	t.Parallel()
	ix := testIndexes(t, []InstitutionRecord{
		{ID: 1, Name: "East Harvard Institute", City: "Boston", State: "MA"},
		{ID: 2, Name: "Harvard University", City: "Cambridge", State: "MA"},
	})

	got := ix.search("harv", 50)
	require.Len(t, got, 2)
	// Prefix matches rank above contains-only matches.
	assert.Equal(t, "Harvard University — Cambridge, MA", got[0])
	assert.Equal(t, "East Harvard Institute — Boston, MA", got[1])
}

func TestSearchWordPrefixMatches(t *testing.T) {
	t.Parallel()
	ix := searchFixture(t)

	// "mudd" is a word-prefix of "Harvey Mudd College".
	got := ix.search("mudd", 50)
	assert.Contains(t, got, "Harvey Mudd College — Claremont, CA")
}

func TestSearchDedupByRecordID(t *testing.T) {
	t.Parallel()
	ix := searchFixture(t)

	// Both Example University variants group under one base name; the group
	// contributes each distinct record once and labels stay unique.
	got := ix.search("example", 50)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0], got[1])
}

func TestSearchLabelDisambiguation(t *testing.T) {
	t.Parallel()
	ix := testIndexes(t, []InstitutionRecord{
		{ID: 1, Name: "Wesleyan College (North)", City: "Macon", State: "GA"},
		{ID: 2, Name: "Wesleyan College (South)", City: "Macon", State: "GA"},
	})

	got := ix.search("wesleyan", 50)
	require.Len(t, got, 2)

	// Base-name labels collide, so both entries are upgraded to full record
	// names, which are distinct.
	assert.Equal(t, "Wesleyan College (North) — Macon, GA", got[0])
	assert.Equal(t, "Wesleyan College (South) — Macon, GA", got[1])
}

func TestSearchLabelIDFallback(t *testing.T) {
	t.Parallel()
	// Same name, same city: even the upgraded labels collide, so the record
	// ID is appended as the guaranteed-unique suffix.
	ix := testIndexes(t, []InstitutionRecord{
		{ID: 11, Name: "Trinity College", City: "Hartford", State: "CT"},
		{ID: 12, Name: "Trinity College", City: "Hartford", State: "CT"},
	})

	got := ix.search("trinity", 50)
	require.Len(t, got, 2)
	assert.Equal(t, "Trinity College — Hartford, CT — 11", got[0])
	assert.Equal(t, "Trinity College — Hartford, CT — 12", got[1])
}

func TestSearchLabelUniqueness(t *testing.T) {
	t.Parallel()
	ix := searchFixture(t)

	for _, q := range []string{"college", "university", "e", "mar"} {
		got := ix.search(q, 50)
		seen := make(map[string]bool)
		for _, label := range got {
			assert.False(t, seen[label], "duplicate label %q for query %q", label, q)
			seen[label] = true
		}
	}
}

func TestSearchNonGeographicLabel(t *testing.T) {
	t.Parallel()
	ix := searchFixture(t)

	got := ix.search("marine", 50)
	require.Len(t, got, 1)
	// "XX" state sentinel suppresses the location suffix.
	assert.Equal(t, "Marine Corps", got[0])
}

func TestSearchLimit(t *testing.T) {
	t.Parallel()
	ix := searchFixture(t)

	got := ix.search("college", 2)
	assert.Len(t, got, 2)
}

func TestSearchCaseFoldedOrdering(t *testing.T) {
	t.Parallel()
	ix := testIndexes(t, []InstitutionRecord{
		{ID: 1, Name: "Zeta College", City: "Boston", State: "MA"},
		{ID: 2, Name: "alpha college", City: "Austin", State: "TX"},
	})

	// Alphabetical tiebreaks ignore case: a lowercased dataset name must not
	// sort after every uppercased one.
	got := ix.search("college", 50)
	assert.Equal(t, []string{
		"alpha college — Austin, TX",
		"Zeta College — Boston, MA",
	}, got)
}

func TestSearchDeterminism(t *testing.T) {
	t.Parallel()
	ix := searchFixture(t)

	for _, q := range []string{"college", "university", "mar"} {
		first := ix.search(q, 50)
		second := ix.search(q, 50)
		assert.Equal(t, first, second, "query %q", q)
	}
}
