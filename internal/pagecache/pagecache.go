package pagecache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rohmanhakim/redis-tracker/internal/fetcher"
	"github.com/rohmanhakim/redis-tracker/internal/kv"
	"github.com/rohmanhakim/redis-tracker/internal/metadata"
	"github.com/rohmanhakim/redis-tracker/internal/tally"
	"github.com/rohmanhakim/redis-tracker/pkg/failure"
	"github.com/rohmanhakim/redis-tracker/pkg/hashutil"
)

/*
Responsibilities

- Serve page content from the store while a fresh copy exists
- Fetch and cache page content on a miss
- Count how often each URL actually went over the network

Caching Semantics

- Cached content lives under "cached:<url>" and ages out through the
  store's native expiry
- The per-URL counter lives under "count:<url>" and moves only on a
  successful network fetch
- A cache hit performs no network activity and does not move the counter
- A failed fetch caches nothing and does not move the counter

Expiry is enforced by the store; the cache never inspects deadlines itself.
*/

type PageCache struct {
	store        kv.Store
	fetcher      fetcher.Fetcher
	tally        tally.Tally
	metadataSink metadata.MetadataSink
	cacheTTL     time.Duration
}

func NewPageCache(
	store kv.Store,
	pageFetcher fetcher.Fetcher,
	metadataSink metadata.MetadataSink,
	cacheTTL time.Duration,
) PageCache {
	return PageCache{
		store:        store,
		fetcher:      pageFetcher,
		tally:        tally.NewTally(store),
		metadataSink: metadataSink,
		cacheTTL:     cacheTTL,
	}
}

// Fetch returns the content of pageURL, from the cache when a fresh
// copy exists and from the network otherwise. Fetch failures surface
// as the fetcher's classified error; store failures as a CacheError.
func (c *PageCache) Fetch(ctx context.Context, pageURL string) (PageResult, error) {
	callerMethod := "PageCache.Fetch"
	startTime := time.Now()

	cached, found, err := c.store.Get(ctx, cachedKey(pageURL))
	if err != nil {
		wrapped := wrapStoreFailure("GET "+cachedKey(pageURL), err)
		c.recordError(callerMethod, wrapped, pageURL)
		return PageResult{}, wrapped
	}
	if found {
		// Served from cache; no HTTP status to report.
		c.metadataSink.RecordFetch(
			pageURL,
			0,
			time.Since(startTime),
			hashutil.ShortHash(cached),
			true,
		)
		return PageResult{content: cached, fromCache: true}, nil
	}

	parsed, parseErr := url.Parse(pageURL)
	if parseErr != nil {
		wrapped := &CacheError{
			Message:   fmt.Sprintf("%s: %v", pageURL, parseErr),
			Retryable: false,
			Cause:     ErrCauseBadURL,
		}
		c.recordError(callerMethod, wrapped, pageURL)
		return PageResult{}, wrapped
	}

	result, fetchErr := c.fetcher.Fetch(ctx, *parsed)
	if fetchErr != nil {
		// The fetcher already recorded the failure.
		return PageResult{}, fetchErr
	}

	// The counter moves before the content lands, mirroring the write
	// order of the record store.
	if _, err := c.tally.Incr(ctx, countKey(pageURL)); err != nil {
		wrapped := wrapStoreFailure("INCR "+countKey(pageURL), err)
		c.recordError(callerMethod, wrapped, pageURL)
		return PageResult{}, wrapped
	}

	body := result.Body()
	if err := c.store.Set(ctx, cachedKey(pageURL), body, c.cacheTTL); err != nil {
		wrapped := wrapStoreFailure("SET "+cachedKey(pageURL), err)
		c.recordError(callerMethod, wrapped, pageURL)
		return PageResult{}, wrapped
	}

	c.metadataSink.RecordWrite(cachedKey(pageURL), "page", len(body))

	return PageResult{content: body, fromCache: false}, nil
}

// GetPage returns the content of pageURL as text. A failed fetch is
// not an error here: its description is returned as the page text,
// the way a caller reading only strings would see it. Store failures
// still surface as errors.
func (c *PageCache) GetPage(ctx context.Context, pageURL string) (string, error) {
	result, err := c.Fetch(ctx, pageURL)
	if err != nil {
		if isFetchFailure(err) {
			return fmt.Sprintf("Error fetching page: %v", err), nil
		}
		return "", err
	}
	return result.Text(), nil
}

// AccessCount reads how many times pageURL was fetched over the
// network. A URL that was never fetched reads as zero.
func (c *PageCache) AccessCount(ctx context.Context, pageURL string) (int64, error) {
	count, err := c.tally.Count(ctx, countKey(pageURL))
	if err != nil {
		wrapped := wrapStoreFailure("GET "+countKey(pageURL), err)
		c.recordError("PageCache.AccessCount", wrapped, pageURL)
		return 0, wrapped
	}
	return count, nil
}

// isFetchFailure reports whether err describes a failure to obtain the
// page rather than a failure of the store underneath.
func isFetchFailure(err error) bool {
	var fetchErr *fetcher.FetchError
	if errors.As(err, &fetchErr) {
		return true
	}
	var cacheErr *CacheError
	return errors.As(err, &cacheErr) && cacheErr.Cause == ErrCauseBadURL
}

func (c *PageCache) recordError(callerMethod string, err *CacheError, pageURL string) {
	c.metadataSink.RecordError(
		time.Now(),
		"pagecache",
		callerMethod,
		mapCacheErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, pageURL),
		},
	)
}

func wrapStoreFailure(op string, err error) *CacheError {
	return &CacheError{
		Message:   fmt.Sprintf("%s: %v", op, err),
		Retryable: retryable(err),
		Cause:     ErrCauseStoreFailure,
	}
}

func retryable(err error) bool {
	var classified failure.ClassifiedError
	if errors.As(err, &classified) {
		return classified.Severity() == failure.SeverityRecoverable
	}
	return false
}
