package college

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/alumnibase/college-resolver-go/internal/logger"
	"golang.org/x/sync/singleflight"
)

const moduleName = "college"

// DatasetLoader supplies the merged reference dataset (reference records
// plus the static custom entries) exactly once, at index build time.
type DatasetLoader interface {
	Load(ctx context.Context) ([]InstitutionRecord, error)
}

// MetricsRecorder receives resolution and search metrics. A nil recorder
// disables instrumentation.
type MetricsRecorder interface {
	RecordResolution(stage string)
	RecordSearchResults(count int)
	RecordInitDedup()
	SetIndexSizes(records, keys, groups int)
}

// Service is the college name resolution service. It owns the immutable
// reference and canonical indices and exposes the two public operations,
// Resolve and Search.
//
// The indices are built lazily on first use, guarded by singleflight so
// concurrent first callers share one build and never observe a partially
// built index. After a successful build the service is read-only and safe
// for unbounded concurrent reads.
type Service struct {
	loader  DatasetLoader
	log     *logger.Logger
	metrics MetricsRecorder

	group singleflight.Group
	idx   atomic.Pointer[indexes]
}

// NewService creates a resolution service. The dataset is not read until
// Init (or the first Resolve/Search call).
func NewService(loader DatasetLoader, log *logger.Logger, metrics MetricsRecorder) *Service {
	return &Service{
		loader:  loader,
		log:     log.WithModule(moduleName),
		metrics: metrics,
	}
}

// Init builds the indices if they have not been built yet. Concurrent
// callers share a single build; once a build has succeeded Init is a no-op.
// A failed build leaves the service uninitialized and returns the error:
// callers should treat that as unrecoverable for this process instance.
func (s *Service) Init(ctx context.Context) error {
	if s.idx.Load() != nil {
		return nil
	}

	_, err, shared := s.group.Do("init", func() (any, error) {
		// Re-check under the flight: a previous flight may have published
		// the index between our fast-path check and Do.
		if cur := s.idx.Load(); cur != nil {
			return cur, nil
		}

		built, err := s.build(ctx)
		if err != nil {
			return nil, err
		}
		s.idx.Store(built)
		return built, nil
	})

	if shared && s.metrics != nil {
		s.metrics.RecordInitDedup()
	}
	return err
}

// build loads the dataset and constructs both indices into a local
// structure. Nothing is published unless every step succeeds.
func (s *Service) build(ctx context.Context) (*indexes, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("college: load dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("college: dataset is empty")
	}

	ix := &indexes{
		records:   records,
		reference: buildReferenceIndex(records),
	}
	ix.canonical = buildCanonicalIndex(records)

	s.log.WithField("records", len(records)).
		WithField("index_keys", ix.reference.size()).
		WithField("canonical_groups", len(ix.canonical.groupKeys)).
		Info("Reference index built")

	if s.metrics != nil {
		s.metrics.SetIndexSizes(len(records), ix.reference.size(), len(ix.canonical.groupKeys))
	}

	return ix, nil
}

// Resolve maps each free-text institution name to a canonical record.
// The result has the same length and order as the input. Individual names
// never fail: unmatched names yield the unmatched fallback resolution.
func (s *Service) Resolve(ctx context.Context, names []string) ([]Resolution, error) {
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	ix := s.idx.Load()

	out := make([]Resolution, len(names))
	for i, name := range names {
		res, stage := ix.resolveOne(name)
		out[i] = res

		if s.metrics != nil {
			s.metrics.RecordResolution(stage)
		}
		entry := s.log.WithField("name", name).WithField("stage", stage)
		if res.StandardName != nil {
			entry.WithField("standard_name", *res.StandardName).
				WithField("confidence", res.Confidence).
				Debug("Name resolved")
		} else {
			entry.Debug("Name unmatched")
		}
	}
	return out, nil
}

// Search returns ranked, deduplicated autocomplete labels for the query.
// A non-positive limit applies DefaultSearchLimit.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	ix := s.idx.Load()

	results := ix.search(query, limit)
	if s.metrics != nil {
		s.metrics.RecordSearchResults(len(results))
	}
	s.log.WithField("query", query).WithField("results", len(results)).Debug("Search completed")
	return results, nil
}

// Ready reports whether the indices have been built.
func (s *Service) Ready() bool {
	return s.idx.Load() != nil
}

// Stats returns index sizes for the readiness probe. Zeroes before Init.
func (s *Service) Stats() (records, keys, groups int) {
	ix := s.idx.Load()
	if ix == nil {
		return 0, 0, 0
	}
	return len(ix.records), ix.reference.size(), len(ix.canonical.groupKeys)
}
