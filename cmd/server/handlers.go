// Package main provides the college resolver server entry point.
package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alumnibase/college-resolver-go/internal/college"
	domerrors "github.com/alumnibase/college-resolver-go/internal/errors"
	"github.com/alumnibase/college-resolver-go/internal/logger"
	"github.com/alumnibase/college-resolver-go/internal/metrics"
	"github.com/alumnibase/college-resolver-go/internal/sentry"
	"github.com/alumnibase/college-resolver-go/internal/storage"
)

// api holds the handler dependencies for the resolver endpoints
type api struct {
	svc     *college.Service
	db      *storage.DB
	metrics *metrics.Metrics
	log     *logger.Logger

	maxNames       int
	searchMaxLimit int
}

func newAPI(svc *college.Service, db *storage.DB, m *metrics.Metrics, log *logger.Logger, maxNames, searchMaxLimit int) *api {
	return &api{
		svc:            svc,
		db:             db,
		metrics:        m,
		log:            log.WithModule("api"),
		maxNames:       maxNames,
		searchMaxLimit: searchMaxLimit,
	}
}

type resolveRequest struct {
	Names []string `json:"names"`
}

type resolveResponse struct {
	Resolutions []college.Resolution `json:"resolutions"`
}

// handleResolve resolves a batch of raw institution names. Curated mappings
// take precedence over the resolution pipeline.
func (a *api) handleResolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.metrics.RecordHTTPError("bad_request", "resolve")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Names) == 0 {
		a.metrics.RecordHTTPError("bad_request", "resolve")
		c.JSON(http.StatusBadRequest, gin.H{"error": "names must not be empty"})
		return
	}
	if len(req.Names) > a.maxNames {
		a.metrics.RecordHTTPError("bad_request", "resolve")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "too many names, limit is " + strconv.Itoa(a.maxNames),
		})
		return
	}

	start := time.Now()
	out := make([]college.Resolution, len(req.Names))

	// Names with a curated mapping are answered from the store; the rest go
	// through the resolution pipeline in one batch.
	var pendingIdx []int
	var pendingNames []string
	for i, name := range req.Names {
		key := college.ExactKey(name)
		if key != "" {
			m, err := a.db.GetMapping(c.Request.Context(), key)
			if err == nil {
				std := m.StandardName
				out[i] = college.Resolution{
					OriginalName: name,
					StandardName: &std,
					Confidence:   1.0,
					Source:       college.SourceMapping,
				}
				a.metrics.RecordMappingHit("hit")
				continue
			}
			if !errors.Is(err, domerrors.ErrNotFound) {
				a.log.WithError(err).WithField("name", name).Warn("Mapping lookup failed, falling back to pipeline")
			}
			a.metrics.RecordMappingHit("miss")
		}
		pendingIdx = append(pendingIdx, i)
		pendingNames = append(pendingNames, name)
	}

	if len(pendingNames) > 0 {
		resolved, err := a.svc.Resolve(c.Request.Context(), pendingNames)
		if err != nil {
			wrapped := domerrors.NewWrapper("college", "resolve").Wrap(err, "resolution unavailable")
			a.metrics.RecordHTTPError("internal", "resolve")
			sentry.CaptureExceptionWithContext(c.Request.Context(), wrapped)
			a.log.WithError(wrapped).Error("Resolve failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": domerrors.GetUserMessage(wrapped)})
			return
		}
		for j, idx := range pendingIdx {
			out[idx] = resolved[j]
		}
	}

	a.metrics.RecordResolveDuration(time.Since(start).Seconds())
	c.JSON(http.StatusOK, resolveResponse{Resolutions: out})
}

// handleSearch serves autocomplete labels for a free-text query
func (a *api) handleSearch(c *gin.Context) {
	query := c.Query("q")

	limit := college.DefaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			a.metrics.RecordHTTPError("bad_request", "search")
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > a.searchMaxLimit {
		limit = a.searchMaxLimit
	}

	start := time.Now()
	results, err := a.svc.Search(c.Request.Context(), query, limit)
	if err != nil {
		wrapped := domerrors.NewWrapper("college", "search").Wrap(err, "search unavailable")
		a.metrics.RecordHTTPError("internal", "search")
		sentry.CaptureExceptionWithContext(c.Request.Context(), wrapped)
		a.log.WithError(wrapped).Error("Search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": domerrors.GetUserMessage(wrapped)})
		return
	}
	a.metrics.RecordSearchDuration(time.Since(start).Seconds())

	if results == nil {
		results = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
	})
}

type mappingRequest struct {
	RawName      string `json:"raw_name"`
	StandardName string `json:"standard_name"`
}

// handleListMappings lists curated mappings
func (a *api) handleListMappings(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			a.metrics.RecordHTTPError("bad_request", "mappings")
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	mappings, err := a.db.ListMappings(c.Request.Context(), limit)
	if err != nil {
		a.metrics.RecordHTTPError("internal", "mappings")
		a.log.WithError(err).Error("List mappings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mappings unavailable"})
		return
	}
	if mappings == nil {
		mappings = []storage.Mapping{}
	}
	c.JSON(http.StatusOK, gin.H{
		"mappings": mappings,
		"count":    len(mappings),
	})
}

// handleSaveMapping creates or replaces a curated mapping
func (a *api) handleSaveMapping(c *gin.Context) {
	var req mappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.metrics.RecordHTTPError("bad_request", "mappings")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rawName := strings.TrimSpace(req.RawName)
	standardName := strings.TrimSpace(req.StandardName)
	key := college.ExactKey(rawName)
	if key == "" || standardName == "" {
		a.metrics.RecordHTTPError("bad_request", "mappings")
		c.JSON(http.StatusBadRequest, gin.H{"error": "raw_name and standard_name must not be blank"})
		return
	}

	m := &storage.Mapping{
		RawKey:       key,
		RawName:      rawName,
		StandardName: standardName,
	}
	if err := a.db.SaveMapping(c.Request.Context(), m); err != nil {
		a.metrics.RecordHTTPError("internal", "mappings")
		a.log.WithError(err).Error("Save mapping failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save mapping"})
		return
	}

	a.log.WithField("raw_key", key).WithField("standard_name", standardName).Info("Mapping saved")
	c.JSON(http.StatusOK, gin.H{
		"raw_key":       key,
		"raw_name":      rawName,
		"standard_name": standardName,
	})
}

// handleDeleteMapping removes a curated mapping by raw name
func (a *api) handleDeleteMapping(c *gin.Context) {
	key := college.ExactKey(c.Query("name"))
	if key == "" {
		a.metrics.RecordHTTPError("bad_request", "mappings")
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	if err := a.db.DeleteMapping(c.Request.Context(), key); err != nil {
		if errors.Is(err, domerrors.ErrNotFound) {
			a.metrics.RecordHTTPError("not_found", "mappings")
			c.JSON(http.StatusNotFound, gin.H{"error": "mapping not found"})
			return
		}
		a.metrics.RecordHTTPError("internal", "mappings")
		a.log.WithError(err).Error("Delete mapping failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete mapping"})
		return
	}

	c.Status(http.StatusNoContent)
}
