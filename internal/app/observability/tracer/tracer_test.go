package tracer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func collector(t *testing.T) (*httptest.Server, <-chan string) {
	t.Helper()
	paths := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, paths
}

func exportOneSpan(t *testing.T, endpoint string) {
	t.Helper()
	ctx := context.Background()
	exp, err := newTraceExporter(ctx, endpoint)
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(ctx, "request")
	span.End()
}

func TestNewTraceExporter(t *testing.T) {
	t.Run("base URL posts to the traces path", func(t *testing.T) {
		srv, paths := collector(t)
		exportOneSpan(t, srv.URL)
		assert.Equal(t, "/v1/traces", <-paths)
	})

	t.Run("explicit path is kept", func(t *testing.T) {
		srv, paths := collector(t)
		exportOneSpan(t, srv.URL+"/custom/traces")
		assert.Equal(t, "/custom/traces", <-paths)
	})

	t.Run("bare host and port still works", func(t *testing.T) {
		srv, paths := collector(t)
		exportOneSpan(t, strings.TrimPrefix(srv.URL, "http://"))
		assert.Equal(t, "/v1/traces", <-paths)
	})

	t.Run("URL without host is rejected", func(t *testing.T) {
		_, err := newTraceExporter(context.Background(), "http:///v1/traces")
		assert.Error(t, err)
	})
}
