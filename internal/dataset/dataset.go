// Package dataset loads the institution reference dataset consumed by the
// college resolution service. The dataset is a JSON array of institution
// records, optionally zstd-compressed, read exactly once at index build
// time and merged with a static table of custom non-geographic entries.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alumnibase/college-resolver-go/internal/college"
	domerrors "github.com/alumnibase/college-resolver-go/internal/errors"
	"github.com/alumnibase/college-resolver-go/internal/logger"
	"github.com/klauspost/compress/zstd"
)

// Loader reads the reference dataset from a local file.
// It implements college.DatasetLoader.
type Loader struct {
	path string
	log  *logger.Logger
}

// NewLoader creates a loader for the dataset file at path.
func NewLoader(path string, log *logger.Logger) *Loader {
	return &Loader{
		path: path,
		log:  log.WithModule("dataset"),
	}
}

// Load reads, decodes and validates the dataset file, then appends the
// custom entries. Any failure is fatal for initialization: the caller must
// not serve requests from a partially loaded dataset.
func (l *Loader) Load(ctx context.Context) ([]college.InstitutionRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domerrors.ErrDatasetNotFound, l.path)
		}
		return nil, fmt.Errorf("dataset: open %q: %w", l.path, err)
	}
	defer func() { _ = f.Close() }()

	var reader io.Reader = f
	if strings.HasSuffix(l.path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("dataset: zstd reader for %q: %w", l.path, err)
		}
		defer dec.Close()
		reader = dec
	}

	var records []college.InstitutionRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, fmt.Errorf("dataset: decode %q: %w", l.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", domerrors.ErrDatasetEmpty, l.path)
	}

	records = append(records, CustomEntries()...)

	l.log.WithField("path", l.path).
		WithField("records", len(records)).
		Info("Reference dataset loaded")

	return records, nil
}

// customEntryIDBase keeps custom-entry IDs clear of the dataset's ID space.
const customEntryIDBase = 9000000

// CustomEntries returns the static non-dataset institution records merged
// into the index at load time. These are names that show up constantly in
// imported alumni spreadsheets but have no row in the reference dataset:
// branches of the military, with no campus and no coordinates.
func CustomEntries() []college.InstitutionRecord {
	names := []struct {
		name  string
		alias string
	}{
		{name: "Army", alias: "US Army, United States Army"},
		{name: "Navy", alias: "US Navy, United States Navy"},
		{name: "Air Force", alias: "US Air Force, USAF"},
		{name: "Marine Corps", alias: "Marines, USMC"},
		{name: "Coast Guard", alias: "US Coast Guard, USCG"},
		{name: "Space Force", alias: "USSF"},
		{name: "National Guard", alias: ""},
		{name: "Army National Guard", alias: ""},
		{name: "Air National Guard", alias: ""},
	}

	out := make([]college.InstitutionRecord, 0, len(names))
	for i, n := range names {
		out = append(out, college.InstitutionRecord{
			ID:    customEntryIDBase + int64(i) + 1,
			Name:  n.name,
			Alias: n.alias,
			State: college.StateSentinel,
		})
	}
	return out
}
