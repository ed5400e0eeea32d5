// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpclient builds the instrumented http.Client used to probe
// services while emitting test telemetry.
package httpclient

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type options struct {
	log            *zap.Logger
	timeout        time.Duration
	transport      http.RoundTripper
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	maxRetries int
	waitMin    time.Duration
	waitMax    time.Duration

	tripAfter   uint32
	openTimeout time.Duration
}

// Option configures the client returned by [New].
type Option func(*options)

func Logger(log *zap.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func Timeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Transport sets the underlying round tripper. Default: [http.DefaultTransport].
func Transport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

func TracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

func MeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// MaxRetries is the number of retries after the first attempt. Default: 2
func MaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// RetryWait bounds the backoff between two attempts.
func RetryWait(min, max time.Duration) Option {
	return func(o *options) {
		o.waitMin = min
		o.waitMax = max
	}
}

// TripAfter opens the circuit after n consecutive failures. Default: 5
func TripAfter(n uint32) Option {
	return func(o *options) {
		o.tripAfter = n
	}
}

// OpenStateTimeout is how long the circuit stays open before letting
// a request through again. Default: 60s
func OpenStateTimeout(d time.Duration) Option {
	return func(o *options) {
		o.openTimeout = d
	}
}

// New returns a client which traces every attempt, retries failed
// requests and stops sending once too many consecutive attempts failed.
func New(opts ...Option) *http.Client {
	o := &options{
		log:         zap.NewNop(),
		transport:   http.DefaultTransport,
		maxRetries:  2,
		waitMin:     100 * time.Millisecond,
		waitMax:     5 * time.Second,
		tripAfter:   5,
		openTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	var otelOpts []otelhttp.Option
	if o.tracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(o.tracerProvider))
	}
	if o.meterProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithMeterProvider(o.meterProvider))
	}

	log := o.log
	rt := &circuitRoundTripper{
		rt: otelhttp.NewTransport(o.transport, otelOpts...),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "httpclient",
			MaxRequests: 1,
			Timeout:     o.openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= o.tripAfter
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				switch to {
				case gobreaker.StateOpen:
					log.Error("circuit has been opened")
				case gobreaker.StateHalfOpen:
					log.Warn("circuit is half open")
				case gobreaker.StateClosed:
					log.Info("circuit has been closed")
				}
			},
		}),
	}

	rc := retryablehttp.Client{
		HTTPClient: &http.Client{
			Timeout:   o.timeout,
			Transport: rt,
		},
		RetryWaitMin: o.waitMin,
		RetryWaitMax: o.waitMax,
		RetryMax:     o.maxRetries,
		RequestLogHook: func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			log.Debug("sending http request", zap.String("url", req.URL.String()), zap.Int("attempt", attempt))
		},
		ResponseLogHook: func(_ retryablehttp.Logger, resp *http.Response) {
			log.Debug("received http response", zap.String("url", resp.Request.URL.String()), zap.Int("status_code", resp.StatusCode))
		},
		CheckRetry:   checkRetry,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}
	return rc.StandardClient()
}

// ErrServerError is counted by the circuit breaker for 5xx responses.
var ErrServerError = errors.New("httpclient: server error")

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false, err
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

type circuitRoundTripper struct {
	rt http.RoundTripper
	cb *gobreaker.CircuitBreaker
}

func (c *circuitRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	_, err := c.cb.Execute(func() (any, error) {
		var err error
		resp, err = c.rt.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, ErrServerError
		}
		return nil, nil
	})
	if errors.Is(err, ErrServerError) {
		// hand the response to the retry policy
		return resp, nil
	}
	return resp, err
}
