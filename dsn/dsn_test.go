// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package dsn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("will return a DSN", func(t *testing.T) {
		t.Run("if the connection string is a self-hosted address", func(t *testing.T) {
			raw := "http://project1_secret_token@localhost:14317/1"

			d, err := Parse(raw)
			require.NoError(t, err)
			require.Equal(t, raw, d.String())
			require.Equal(t, "http", d.Scheme())
			require.Equal(t, "localhost", d.Host())
			require.Equal(t, "project1_secret_token", d.Token())
			require.Equal(t, "1", d.ProjectID())

			port, ok := d.Port()
			require.True(t, ok)
			require.Equal(t, uint16(14317), port)
		})

		t.Run("if the connection string has no port", func(t *testing.T) {
			d, err := Parse("https://key@uptrace.dev/1")
			require.NoError(t, err)

			_, ok := d.Port()
			require.False(t, ok)
		})

		t.Run("if the host is an ipv6 literal", func(t *testing.T) {
			d, err := Parse("http://token@[::1]:14317/1")
			require.NoError(t, err)
			require.Equal(t, "[::1]", d.Host())

			port, ok := d.Port()
			require.True(t, ok)
			require.Equal(t, uint16(14317), port)
		})

		t.Run("with the token kept percent encoded", func(t *testing.T) {
			d, err := Parse("http://tok%40en@localhost:14317/1")
			require.NoError(t, err)
			require.Equal(t, "tok%40en", d.Token())
		})

		t.Run("with the token placeholder decoded", func(t *testing.T) {
			d, err := Parse("https://<token>@uptrace.dev/1")
			require.NoError(t, err)
			require.Equal(t, PlaceholderToken, d.Token())
		})

		t.Run("if the project id is preceded by empty path segments", func(t *testing.T) {
			d, err := Parse("https://key@localhost//42/extra")
			require.NoError(t, err)
			require.Equal(t, "42", d.ProjectID())
		})
	})

	t.Run("will normalize the public api host", func(t *testing.T) {
		api, err := Parse("https://key@api.uptrace.dev/1")
		require.NoError(t, err)

		root, err := Parse("https://key@uptrace.dev/1")
		require.NoError(t, err)

		require.Equal(t, root.Host(), api.Host())
		require.Equal(t, CloudHost, api.Host())
	})

	t.Run("will return ErrEmpty", func(t *testing.T) {
		t.Run("if the connection string is empty", func(t *testing.T) {
			_, err := Parse("")
			require.ErrorIs(t, err, ErrEmpty)
		})
	})

	t.Run("will return an InvalidError", func(t *testing.T) {
		testCases := []struct {
			name   string
			raw    string
			reason string
		}{
			{
				name:   "if the project id is missing",
				raw:    "http://project1_secret_token@localhost:14317",
				reason: "project id is missing",
			},
			{
				name:   "if the project id is only slashes",
				raw:    "http://project1_secret_token@localhost:14317///",
				reason: "project id is missing",
			},
			{
				name:   "if the host is missing",
				raw:    "http://project1_secret_token@:14317/1",
				reason: "host is missing",
			},
			{
				name:   "if the token is missing",
				raw:    "http://localhost:14317/1",
				reason: "token is missing",
			},
			{
				name: "if the scheme is missing",
				raw:  "project1_secret_token@localhost:14317/1",
			},
			{
				name:   "if the scheme is missing but the rest looks like a path",
				raw:    "//token@localhost/1",
				reason: "scheme is missing",
			},
			{
				name: "if the port is out of range",
				raw:  "http://token@localhost:70000/1",
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				_, err := Parse(testCase.raw)

				var ierr InvalidError
				require.True(t, errors.As(err, &ierr), "expected InvalidError but got: %v", err)
				require.Equal(t, testCase.raw, ierr.DSN)
				require.NotEmpty(t, ierr.Error())
				if testCase.reason != "" {
					require.Equal(t, testCase.reason, ierr.Reason)
				}
			})
		}
	})
}

func TestDSN_OTLPHost(t *testing.T) {
	testCases := []struct {
		dsn      string
		expected string
	}{
		{dsn: "https://key@uptrace.dev/1", expected: "otlp.uptrace.dev:4317"},
		{dsn: "https://key@api.uptrace.dev/1", expected: "otlp.uptrace.dev:4317"},
		{dsn: "http://key@uptrace.dev:1234/1", expected: "otlp.uptrace.dev:4317"},
		{dsn: "https://key@localhost:1234/1", expected: "localhost:1234"},
		{dsn: "https://AQDan_E_EPe3QAF9fMP0PiVr5UWOu4q5@demo-api.uptrace.dev:4317/1", expected: "demo-api.uptrace.dev:4317"},
		{dsn: "http://token@localhost:14317/project_id", expected: "localhost:14317"},
		{dsn: "http://token@localhost/project_id", expected: "localhost"},
		{dsn: "http://token@[::1]:14317/1", expected: "[::1]:14317"},
		{dsn: "http://token@[::1]/1", expected: "[::1]"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.dsn, func(t *testing.T) {
			d, err := Parse(testCase.dsn)
			require.NoError(t, err)
			require.Equal(t, testCase.expected, d.OTLPHost())
		})
	}
}

func TestDSN_OTLPGrpcAddr(t *testing.T) {
	testCases := []struct {
		dsn      string
		expected string
	}{
		{dsn: "https://key@uptrace.dev/1", expected: "https://otlp.uptrace.dev:4317"},
		{dsn: "http://key@api.uptrace.dev:80/1", expected: "https://otlp.uptrace.dev:4317"},
		{dsn: "http://token@localhost:14317/2", expected: "http://localhost:14317"},
		{dsn: "https://token@collector.internal/2", expected: "https://collector.internal"},
		{dsn: "http://token@[::1]:14317/1", expected: "http://[::1]:14317"},
		{dsn: "https://token@[2001:db8::1]:4317/1", expected: "https://[2001:db8::1]:4317"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.dsn, func(t *testing.T) {
			d, err := Parse(testCase.dsn)
			require.NoError(t, err)
			require.Equal(t, testCase.expected, d.OTLPGrpcAddr())
		})
	}
}

func TestDSN_AppAddr(t *testing.T) {
	testCases := []struct {
		dsn      string
		expected string
	}{
		{dsn: "http://token@localhost:14317/project_id", expected: "http://localhost:14318"},
		{dsn: "https://token@localhost/project_id", expected: "https://localhost:14318"},
		{dsn: "https://key@uptrace.dev/project_id", expected: "https://app.uptrace.dev"},
		{dsn: "http://token@[::1]:14317/1", expected: "http://[::1]:14318"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.dsn, func(t *testing.T) {
			d, err := Parse(testCase.dsn)
			require.NoError(t, err)
			require.Equal(t, testCase.expected, d.AppAddr())
		})
	}
}

func TestDSN_TraceURL(t *testing.T) {
	d, err := Parse("https://key@uptrace.dev/1")
	require.NoError(t, err)
	require.Equal(t, "https://app.uptrace.dev/traces/abc", d.TraceURL("abc"))
}

func TestDSN_IsDisabled(t *testing.T) {
	testCases := []struct {
		dsn      string
		disabled bool
	}{
		{dsn: "https://<token>@uptrace.dev/<project_id>", disabled: true},
		{dsn: "https://<token>@uptrace.dev/1", disabled: true},
		{dsn: "https://key@uptrace.dev/<project_id>", disabled: true},
		{dsn: "https://key@uptrace.dev/1", disabled: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.dsn, func(t *testing.T) {
			d, err := Parse(testCase.dsn)
			require.NoError(t, err)
			require.Equal(t, testCase.disabled, d.IsDisabled())
		})
	}
}
