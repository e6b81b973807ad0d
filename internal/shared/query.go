package shared

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Query parameter parsers for listing filters. A malformed value is an
// error, not an ignored filter: a typo must never widen the result set.

// QueryInt64 parses an optional integer parameter such as client_id.
func QueryInt64(values url.Values, key string) (*int64, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, raw)
	}
	return &id, nil
}

// QueryInt parses an optional integer parameter such as limit, returning
// zero when absent.
func QueryInt(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

// QueryDate parses an optional YYYY-MM-DD parameter.
func QueryDate(values url.Values, key string) (*time.Time, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q, want YYYY-MM-DD", key, raw)
	}
	return &t, nil
}
