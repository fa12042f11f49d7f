package fetcher

import (
	"context"
	"net/url"

	"github.com/rohmanhakim/redis-tracker/pkg/failure"
)

type Fetcher interface {
	Fetch(
		ctx context.Context,
		pageURL url.URL,
	) (FetchResult, failure.ClassifiedError)
}
