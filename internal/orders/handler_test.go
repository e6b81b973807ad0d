package orders

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	repo := newMockRepo()
	svc, _, _ := newTestService(repo)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, svc)
}

func TestListRejectsMalformedFilters(t *testing.T) {
	handler := newTestHandler()

	// A typo in a filter must not fall back to an unfiltered listing.
	for _, query := range []string{
		"client_id=abc",
		"date_from=notadate",
		"date_to=15-06-2025",
		"limit=ten",
		"offset=1.5",
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders?"+query, nil)
		handler.List(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestListAcceptsValidFilters(t *testing.T) {
	handler := newTestHandler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders?client_id=7&date_from=2025-06-01&date_to=2025-06-30&limit=20&offset=0", nil)
	handler.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
