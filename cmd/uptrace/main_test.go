// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/z5labs/uptrace"
	"github.com/z5labs/uptrace/dsn"
	"github.com/z5labs/uptrace/noop"

	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, names ...string) {
	t.Helper()

	for _, name := range names {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand(&out, func(ro *rootOptions) {
		ro.transport = noop.Transport{}
	})
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestInspect(t *testing.T) {
	t.Run("will print the derived endpoints", func(t *testing.T) {
		t.Run("for a dsn given as an argument", func(t *testing.T) {
			out, err := execute(t, "inspect", "https://secret@api.uptrace.dev/1")
			require.NoError(t, err)

			require.Contains(t, out, "uptrace.dev")
			require.Contains(t, out, "https://otlp.uptrace.dev:4317")
			require.Contains(t, out, "https://app.uptrace.dev")
			require.NotContains(t, out, "secret")
		})

		t.Run("for a dsn given with the flag", func(t *testing.T) {
			out, err := execute(t, "inspect", "--dsn", "http://token@localhost:14317/2")
			require.NoError(t, err)

			require.Contains(t, out, "http://localhost:14317")
			require.Contains(t, out, "http://localhost:14318")
		})

		t.Run("for a dsn from the UPTRACE_DSN env var", func(t *testing.T) {
			t.Setenv("UPTRACE_DSN", "http://token@localhost:14317/3")

			out, err := execute(t, "inspect")
			require.NoError(t, err)
			require.Contains(t, out, "http://localhost:14317")
		})

		t.Run("for a dsn from a config file", func(t *testing.T) {
			unsetEnv(t, "UPTRACE_DSN")

			path := filepath.Join(t.TempDir(), "config.yaml")
			err := os.WriteFile(path, []byte("dsn: http://token@localhost:14317/4\n"), 0o600)
			require.NoError(t, err)

			out, err := execute(t, "--config", path, "inspect")
			require.NoError(t, err)
			require.Contains(t, out, "http://localhost:14317")
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if there is no dsn", func(t *testing.T) {
			unsetEnv(t, "UPTRACE_DSN")

			_, err := execute(t, "inspect")
			require.ErrorIs(t, err, uptrace.ErrMissingDSN)
		})

		t.Run("if the dsn is invalid", func(t *testing.T) {
			_, err := execute(t, "inspect", "project1_secret_token@localhost:14317/1")

			var ierr dsn.InvalidError
			require.ErrorAs(t, err, &ierr)
		})
	})
}

func TestEmit(t *testing.T) {
	t.Run("will print the trace url", func(t *testing.T) {
		unsetEnv(t, "UPTRACE_DISABLED")

		out, err := execute(t, "emit", "--dsn", "https://secret@uptrace.dev/1", "--logs")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(out, "https://app.uptrace.dev/traces/"), out)
	})

	t.Run("will send an instrumented request", func(t *testing.T) {
		unsetEnv(t, "UPTRACE_DISABLED")

		var traceparent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceparent = r.Header.Get("traceparent")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		out, err := execute(t, "emit", "--dsn", "https://secret@uptrace.dev/1", "--url", srv.URL)
		require.NoError(t, err)
		require.NotEmpty(t, traceparent)

		traceID := strings.TrimPrefix(strings.TrimSpace(out), "https://app.uptrace.dev/traces/")
		require.Contains(t, traceparent, traceID)
	})

	t.Run("will send nothing", func(t *testing.T) {
		t.Run("if UPTRACE_DISABLED is present", func(t *testing.T) {
			t.Setenv("UPTRACE_DISABLED", "true")

			out, err := execute(t, "emit", "--dsn", "https://secret@uptrace.dev/1")
			require.NoError(t, err)
			require.Contains(t, out, "telemetry is disabled")
		})

		t.Run("if the dsn is a placeholder", func(t *testing.T) {
			unsetEnv(t, "UPTRACE_DISABLED")

			out, err := execute(t, "emit", "--dsn", "https://<token>@uptrace.dev/<project_id>")
			require.NoError(t, err)
			require.Contains(t, out, "telemetry is disabled")
		})
	})
}
