package shared

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryInt64(t *testing.T) {
	id, err := QueryInt64(url.Values{"client_id": {"42"}}, "client_id")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(42), *id)

	id, err = QueryInt64(url.Values{}, "client_id")
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = QueryInt64(url.Values{"client_id": {"abc"}}, "client_id")
	assert.ErrorContains(t, err, "client_id")
}

func TestQueryInt(t *testing.T) {
	n, err := QueryInt(url.Values{"limit": {"25"}}, "limit")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	n, err = QueryInt(url.Values{}, "limit")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = QueryInt(url.Values{"limit": {"ten"}}, "limit")
	assert.ErrorContains(t, err, "limit")
}

func TestQueryDate(t *testing.T) {
	d, err := QueryDate(url.Values{"date_from": {"2025-06-15"}}, "date_from")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), *d)

	d, err = QueryDate(url.Values{}, "date_from")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = QueryDate(url.Values{"date_from": {"15/06/2025"}}, "date_from")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}
