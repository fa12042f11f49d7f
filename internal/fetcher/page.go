package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rohmanhakim/redis-tracker/internal/metadata"
	"github.com/rohmanhakim/redis-tracker/pkg/failure"
	"github.com/rohmanhakim/redis-tracker/pkg/hashutil"
)

/*
Responsibilities

- Perform HTTP requests
- Apply headers and the configured timeout
- Classify responses

Fetch Semantics

- Any 2xx response body is returned as-is
- Content is opaque bytes; no type filtering happens here
- A page is requested exactly once per call; there are no retries
- All fetches are logged with metadata

The fetcher never interprets content; it only returns bytes and metadata.
*/

type PageFetcher struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
	userAgent    string
}

func NewPageFetcher(
	metadataSink metadata.MetadataSink,
	timeout time.Duration,
	userAgent string,
) PageFetcher {
	return PageFetcher{
		metadataSink: metadataSink,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

func (p *PageFetcher) Fetch(
	ctx context.Context,
	pageURL url.URL,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "PageFetcher.Fetch"
	startTime := time.Now()

	result, err := p.performFetch(ctx, pageURL)

	duration := time.Since(startTime)

	// Record the fetch event with actual data
	var statusCode int
	var contentHash string

	if err == nil {
		statusCode = result.Code()
		contentHash = hashutil.ShortHash(result.Body())
		result.meta.duration = duration
	}

	p.metadataSink.RecordFetch(
		pageURL.String(),
		statusCode,
		duration,
		contentHash,
		false,
	)

	if err != nil {
		p.recordFetchError(callerMethod, pageURL, err)
		return FetchResult{}, err
	}

	return result, nil
}

func (p *PageFetcher) recordFetchError(callerMethod string, pageURL url.URL, err failure.ClassifiedError) {
	var fetchError *FetchError
	if errors.As(err, &fetchError) {
		// record fetch error event
		p.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			callerMethod,
			mapFetchErrorToMetadataCause(fetchError),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, pageURL.String()),
			},
		)
	}
}

func (p *PageFetcher) performFetch(ctx context.Context, pageURL url.URL) (FetchResult, failure.ClassifiedError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseNetworkFailure,
		}
	}

	// Apply browser-like headers
	headers := requestHeaders(p.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return FetchResult{}, &FetchError{
				Message:   fmt.Sprintf("request timed out: %v", err),
				Retryable: true,
				Cause:     ErrCauseTimeout,
			}
		}

		// Network/transport errors are retryable
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	// Handle HTTP status codes
	switch {
	case resp.StatusCode >= 500:
		// Server errors (5xx) are retryable
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("server error: %d", resp.StatusCode),
			Retryable: true,
			Cause:     ErrCauseRequest5xx,
		}

	case resp.StatusCode == 429:
		// Too Many Requests is retryable
		return FetchResult{}, &FetchError{
			Message:   "rate limited (429)",
			Retryable: true,
			Cause:     ErrCauseRequestTooMany,
		}

	case resp.StatusCode == 403:
		// Forbidden is not retryable
		return FetchResult{}, &FetchError{
			Message:   "access forbidden (403)",
			Retryable: false,
			Cause:     ErrCauseRequestPageForbidden,
		}

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Other client errors are not retryable
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("client error: %d", resp.StatusCode),
			Retryable: false,
			Cause:     ErrCauseRequestPageForbidden,
		}

	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		// Redirects should be handled by http.Client, but if we get here,
		// it means redirect limit exceeded
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("redirect error: %d", resp.StatusCode),
			Retryable: false,
			Cause:     ErrCauseRedirectLimitExceeded,
		}
	}

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", err),
			Retryable: true,
			Cause:     ErrCauseReadResponseBodyError,
		}
	}

	// Build response headers map
	responseHeaders := make(map[string]string)
	for key, values := range resp.Header {
		if len(values) > 0 {
			responseHeaders[key] = values[0]
		}
	}

	// Create FetchResult
	result := FetchResult{
		url:  pageURL,
		body: body,
		meta: ResponseMeta{
			statusCode:          resp.StatusCode,
			transferredSizeByte: uint64(len(body)),
			responseHeaders:     responseHeaders,
		},
	}

	return result, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func requestHeaders(userAgent string) map[string]string {
	// Accept-Encoding is left to the transport so bodies arrive decoded.
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"DNT":             "1",
		"Connection":      "keep-alive",
	}
}
