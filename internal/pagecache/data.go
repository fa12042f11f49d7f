package pagecache

type PageResult struct {
	content   []byte
	fromCache bool
}

func (p *PageResult) Content() []byte {
	return p.content
}

func (p *PageResult) Text() string {
	return string(p.content)
}

func (p *PageResult) FromCache() bool {
	return p.fromCache
}

// NewPageResultForTest creates a PageResult for testing purposes.
// This allows test packages to construct PageResult values without
// accessing unexported fields directly.
func NewPageResultForTest(content []byte, fromCache bool) PageResult {
	return PageResult{
		content:   content,
		fromCache: fromCache,
	}
}

// Key layout. Both families live in the same keyspace as every other
// record, distinguished only by their prefix.
const (
	cachedKeyPrefix = "cached:"
	countKeyPrefix  = "count:"
)

func cachedKey(pageURL string) string {
	return cachedKeyPrefix + pageURL
}

func countKey(pageURL string) string {
	return countKeyPrefix + pageURL
}
