package ioserver_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ncpp/dscat/internal/ioquery"
	"github.com/ncpp/dscat/internal/ioserver"
	"github.com/ncpp/dscat/pkg/config"
	"github.com/ncpp/dscat/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubEngine resolves "Near-Surface Air Temperature" and reports options
// otherwise.
type stubEngine struct {
	mu     sync.Mutex
	calls  int
	fields []query.FieldFilter
}

func (e *stubEngine) ResolvePackage(
	_ context.Context,
	f query.PackageFilter,
) (*query.PackageResult, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if f.PackageName == "nope" {
		return nil, ioquery.NoResultError("package", f)
	}
	return &query.PackageResult{
		Status: query.Ambiguous,
		Options: &query.PackageOptions{
			DatasetCategory: []string{"GCMs", "Packages"},
			PackageName:     []string{"A", "B"},
		},
	}, nil
}

func (e *stubEngine) ResolveVariableOrIndex(
	_ context.Context,
	f query.FieldFilter,
) (*query.FieldResult, error) {
	e.mu.Lock()
	e.calls++
	e.fields = append(e.fields, f)
	e.mu.Unlock()
	if err := f.Validate(); err != nil {
		return nil, ioquery.ArgumentError(err)
	}
	if f.LongName == "Near-Surface Air Temperature" {
		return &query.FieldResult{
			Status: query.Resolved,
			Dataset: &query.RequestDataset{
				URI:       []string{"/data/maurer/tas.nc"},
				Variable:  "tas",
				Alias:     "tas",
				TUnits:    "days since 1940-01-01 00:00:00",
				TCalendar: "standard",
			},
		}, nil
	}
	return &query.FieldResult{
		Status:  query.Ambiguous,
		Options: &query.FieldOptions{Dataset: []string{"CanCM4", "Maurer 2010"}},
	}, nil
}

func newServer(t *testing.T) (*httptest.Server, *stubEngine) {
	t.Helper()
	e := &stubEngine{}
	cfg := config.New().Server
	s, err := ioserver.New(e, cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, e
}

func get(t *testing.T, url string, hdr ...string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var res map[string]any
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &res))
	}
	return resp, res
}

func TestHealth(t *testing.T) {
	ts, _ := newServer(t)
	resp, body := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestVariables(t *testing.T) {
	ts, e := newServer(t)

	t.Run("ambiguous", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/api/variables")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ambiguous", body["status"])
		opts := body["options"].(map[string]any)
		assert.Equal(t, []any{"CanCM4", "Maurer 2010"}, opts["dataset"])
		assert.Equal(t, query.KindVariable, e.fields[0].Kind, "default kind")
	})

	t.Run("resolved", func(t *testing.T) {
		resp, body := get(t, ts.URL+
			"/api/variables?long_name=Near-Surface+Air+Temperature"+
			"&start=1980-01-01&stop=1990-12-31")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "resolved", body["status"])
		ds := body["dataset"].(map[string]any)
		assert.Equal(t, "tas", ds["variable"])
		assert.Equal(t, "standard", ds["t_calendar"])

		last := e.fields[len(e.fields)-1]
		require.NotNil(t, last.TimeRange)
		assert.Equal(t, 1980, last.TimeRange.Start.Year())
	})

	t.Run("bad arguments", func(t *testing.T) {
		for _, q := range []string{
			"kind=bogus",
			"time_frequency=week",
			"start=1980-01-01",
			"start=yesterday&stop=today",
		} {
			resp, body := get(t, ts.URL+"/api/variables?"+q)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
			assert.NotEmpty(t, body["error"], q)
		}
	})
}

func TestPackages(t *testing.T) {
	ts, _ := newServer(t)

	resp, body := get(t, ts.URL+"/api/packages?category=GCMs")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ambiguous", body["status"])

	resp, body = get(t, ts.URL+"/api/packages?name=nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "no package")
}

func TestCache(t *testing.T) {
	ts, e := newServer(t)
	url := ts.URL + "/api/variables?dataset=CanCM4&kind=variable"

	resp, _ := get(t, url)
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, 1, e.calls)

	t.Run("same query in another order", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/api/variables?kind=variable&dataset=CanCM4")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, etag, resp.Header.Get("ETag"))
		assert.Equal(t, "ambiguous", body["status"])
		assert.Equal(t, 1, e.calls)
	})

	t.Run("not modified", func(t *testing.T) {
		resp, _ := get(t, url, "If-None-Match", etag)
		assert.Equal(t, http.StatusNotModified, resp.StatusCode)
		assert.Equal(t, 1, e.calls)
	})

	t.Run("bad requests are not cached", func(t *testing.T) {
		get(t, ts.URL+"/api/variables?kind=bogus")
		get(t, ts.URL+"/api/variables?kind=bogus")
		assert.Equal(t, 3, e.calls)
	})
}

func TestMetrics(t *testing.T) {
	ts, _ := newServer(t)
	get(t, ts.URL+"/api/variables")
	get(t, ts.URL+"/api/packages?name=nope")

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text,
		`dscat_queries_total{endpoint="variables",outcome="ambiguous"} 1`))
	assert.True(t, strings.Contains(text,
		`dscat_queries_total{endpoint="packages",outcome="no_result"} 1`))
}

func TestServe(t *testing.T) {
	s, err := ioserver.New(&stubEngine{}, config.New().Server)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	http.DefaultClient.CloseIdleConnections()
}
