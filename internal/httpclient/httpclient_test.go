// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew(t *testing.T) {
	t.Run("will retry server errors", func(t *testing.T) {
		var attempts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := New(RetryWait(time.Millisecond, 5*time.Millisecond))

		resp, err := c.Get(srv.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, int32(3), attempts.Load())
	})

	t.Run("will return the last response", func(t *testing.T) {
		t.Run("if every attempt failed with a server error", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer srv.Close()

			c := New(MaxRetries(1), RetryWait(time.Millisecond, time.Millisecond))

			resp, err := c.Get(srv.URL)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusBadGateway, resp.StatusCode)
		})
	})

	t.Run("will stop sending requests", func(t *testing.T) {
		t.Run("if the circuit is open", func(t *testing.T) {
			var attempts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer srv.Close()

			c := New(MaxRetries(0), TripAfter(1), OpenStateTimeout(time.Minute))

			resp, err := c.Get(srv.URL)
			require.NoError(t, err)
			resp.Body.Close()

			_, err = c.Get(srv.URL)
			require.ErrorIs(t, err, gobreaker.ErrOpenState)
			require.Equal(t, int32(1), attempts.Load())
		})
	})

	t.Run("will trace every attempt", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		recorder := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
		defer tp.Shutdown(context.Background())

		c := New(TracerProvider(tp))

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Len(t, recorder.Ended(), 1)
	})
}
