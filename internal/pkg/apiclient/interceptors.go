package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/estate-templui/internal/app/observability/metrics"
)

type requestIDKey struct{}

// ContextWithRequestID carries an inbound request id to outgoing backend calls.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// BearerToken sets the Authorization header from ts when it yields a token.
func BearerToken(ts TokenSource) RequestInterceptor {
	return func(req *http.Request) error {
		token, err := ts(req.Context())
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// RequestID propagates the inbound request id, or mints one.
func RequestID() RequestInterceptor {
	return func(req *http.Request) error {
		id, _ := req.Context().Value(requestIDKey{}).(string)
		if id == "" {
			id = uuid.NewString()
		}
		req.Header.Set("X-Request-Id", id)
		return nil
	}
}

// LogErrors logs transport failures and non-2xx answers. It never alters the
// outcome; user-facing messages are the caller's job.
func LogErrors(logger *zap.Logger) ResponseInterceptor {
	return func(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("elapsed", elapsed),
		}
		switch {
		case err != nil:
			logger.Error("Backend request failed", append(fields, zap.Error(err))...)
		case resp.StatusCode >= http.StatusInternalServerError:
			logger.Error("Backend returned server error", append(fields, zap.Int("status", resp.StatusCode))...)
		case resp.StatusCode >= http.StatusBadRequest:
			logger.Warn("Backend rejected request", append(fields, zap.Int("status", resp.StatusCode))...)
		default:
			logger.Debug("Backend request", append(fields, zap.Int("status", resp.StatusCode))...)
		}
	}
}

// RecordMetrics reports duration and failures to the application meters.
func RecordMetrics() ResponseInterceptor {
	return func(req *http.Request, resp *http.Response, err error, elapsed time.Duration) {
		m := metrics.Get()
		status := "error"
		if resp != nil {
			status = strconv.Itoa(resp.StatusCode)
		}
		attrs := metric.WithAttributes(
			attribute.String("method", req.Method),
			attribute.String("path", req.URL.Path),
			attribute.String("status", status),
		)
		m.BackendRequestDuration.Record(req.Context(), elapsed.Seconds(), attrs)
		if err != nil || resp.StatusCode >= http.StatusInternalServerError {
			m.BackendErrorsTotal.Add(req.Context(), 1, attrs)
		}
	}
}
