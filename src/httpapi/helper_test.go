package httpapi

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/coltonspears/McpServer/src/models"
	"github.com/coltonspears/McpServer/src/monitor"
	"github.com/coltonspears/McpServer/src/telemetry"
)

// fakeMonitor answers every diagnostic from canned data, or fails all of them with err
type fakeMonitor struct {
	missing  []models.MissingIndex
	blocked  []models.BlockedQuery
	deadlock string
	usage    []models.IndexUsage
	top      []models.TopQuery
	waits    []models.WaitStat
	err      error

	// topErr ends the top queries sequence after topErrAfter rows
	topErr      error
	topErrAfter int

	gotTopN int
}

var _ monitor.Monitor = (*fakeMonitor)(nil)

func (f *fakeMonitor) GetMissingIndexes(context.Context) ([]models.MissingIndex, error) {
	return f.missing, f.err
}

func (f *fakeMonitor) GetBlockedQueries(context.Context) ([]models.BlockedQuery, error) {
	return f.blocked, f.err
}

func (f *fakeMonitor) GetDeadlockGraph(context.Context) (string, error) {
	return f.deadlock, f.err
}

func (f *fakeMonitor) GetIndexUsageStats(context.Context) ([]models.IndexUsage, error) {
	return f.usage, f.err
}

func (f *fakeMonitor) GetTopQueries(_ context.Context, topN int) iter.Seq2[models.TopQuery, error] {
	f.gotTopN = topN
	return func(yield func(models.TopQuery, error) bool) {
		if f.err != nil {
			yield(models.TopQuery{}, f.err)
			return
		}
		for i, q := range f.top {
			if f.topErr != nil && i == f.topErrAfter {
				yield(models.TopQuery{}, f.topErr)
				return
			}
			if !yield(q, nil) {
				return
			}
		}
		if f.topErr != nil && f.topErrAfter >= len(f.top) {
			yield(models.TopQuery{}, f.topErr)
		}
	}
}

func (f *fakeMonitor) GetWaitStats(context.Context) ([]models.WaitStat, error) {
	return f.waits, f.err
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

func newTestServer(m monitor.Monitor, metrics *telemetry.Metrics) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, m, metrics)
	return Wrap(mux)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	return request(h, http.MethodGet, target)
}

func request(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func validateJSONSchema(t *testing.T, fileName string, input string) {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("testdata", fileName))
	require.NoError(t, err)

	schemaLoader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(schemaPath))
	documentLoader := gojsonschema.NewStringLoader(input)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	require.NoError(t, err, "Error loading JSON schema")

	if result.Valid() {
		return
	}
	for _, desc := range result.Errors() {
		t.Errorf("Errors for JSON schema '%s': %s", fileName, fmt.Sprint(desc))
	}
}
