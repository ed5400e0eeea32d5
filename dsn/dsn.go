// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package dsn parses and validates Uptrace connection strings.
//
// A DSN has the form:
//
//	scheme://token@host[:port]/project_id
//
// for example:
//
//	http://project2_secret_token@localhost:14317/2
//
// Every [DSN] returned by [Parse] is known to carry a scheme, host, token and
// project id, so code consuming it never needs to re-validate.
package dsn

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// CloudHost is the host of the hosted Uptrace offering.
	CloudHost = "uptrace.dev"

	apiHost = "api.uptrace.dev"

	cloudOTLPHost = "otlp.uptrace.dev:4317"
	cloudOTLPAddr = "https://otlp.uptrace.dev:4317"
	cloudAppAddr  = "https://app.uptrace.dev"

	// self-hosted Uptrace serves its UI on this port
	appPort = 14318

	// PlaceholderProjectID and PlaceholderToken are the values found in
	// example configuration. A DSN using either is considered disabled.
	PlaceholderProjectID = "<project_id>"
	PlaceholderToken     = "<token>"
)

// ErrEmpty is returned by [Parse] when given an empty string.
var ErrEmpty = errors.New("dsn: connection string is empty (use WithDSN or UPTRACE_DSN env var)")

// InvalidError is returned by [Parse] when the connection string is malformed.
type InvalidError struct {
	DSN    string
	Reason string
}

// Error implements the [builtin.error] interface.
func (e InvalidError) Error() string {
	return fmt.Sprintf("dsn: invalid connection string %q: %s", e.DSN, e.Reason)
}

// DSN is a validated Uptrace connection string.
type DSN struct {
	original  string
	scheme    string
	host      string
	port      uint16
	hasPort   bool
	projectID string
	token     string
}

// Parse validates raw and returns its [DSN] representation.
func Parse(raw string) (DSN, error) {
	if raw == "" {
		return DSN{}, ErrEmpty
	}

	// Placeholders like "<token>" aren't valid in userinfo so they're
	// escaped before parsing and come back decoded from the url.URL.
	u, err := url.Parse(placeholderEscaper.Replace(raw))
	if err != nil {
		return DSN{}, InvalidError{DSN: raw, Reason: err.Error()}
	}
	if u.Scheme == "" {
		return DSN{}, InvalidError{DSN: raw, Reason: "scheme is missing"}
	}

	host := u.Hostname()
	if host == "" {
		return DSN{}, InvalidError{DSN: raw, Reason: "host is missing"}
	}
	if host == apiHost {
		host = CloudHost
	}
	if strings.Contains(host, ":") {
		// IPv6 literals keep their brackets so a port can be appended.
		host = "[" + host + "]"
	}

	projectID, ok := firstSegment(u.Path)
	if !ok {
		return DSN{}, InvalidError{DSN: raw, Reason: "project id is missing"}
	}

	token := escapedUsername(u.User)
	if token == "" {
		return DSN{}, InvalidError{DSN: raw, Reason: "token is missing"}
	}

	d := DSN{
		original:  raw,
		scheme:    u.Scheme,
		host:      host,
		projectID: projectID,
		token:     token,
	}

	if p := u.Port(); p != "" {
		port, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return DSN{}, InvalidError{DSN: raw, Reason: fmt.Sprintf("invalid port %q", p)}
		}
		d.port = uint16(port)
		d.hasPort = true
	}
	return d, nil
}

var (
	placeholderEscaper   = strings.NewReplacer("<", "%3C", ">", "%3E")
	placeholderUnescaper = strings.NewReplacer("%3C", "<", "%3E", ">")
)

// escapedUsername returns the username as written in the connection
// string, without percent decoding.
func escapedUsername(ui *url.Userinfo) string {
	if ui == nil {
		return ""
	}
	name, _, _ := strings.Cut(ui.String(), ":")
	return placeholderUnescaper.Replace(name)
}

func firstSegment(path string) (string, bool) {
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return seg, true
		}
	}
	return "", false
}

// String returns the connection string exactly as it was given to [Parse].
func (d DSN) String() string {
	return d.original
}

// Scheme returns the URI scheme, e.g. "https".
func (d DSN) Scheme() string {
	return d.scheme
}

// Host returns the normalized host.
func (d DSN) Host() string {
	return d.host
}

// Port returns the port, if one was given.
func (d DSN) Port() (uint16, bool) {
	return d.port, d.hasPort
}

// ProjectID returns the first path segment of the connection string.
func (d DSN) ProjectID() string {
	return d.projectID
}

// Token returns the secret token.
func (d DSN) Token() string {
	return d.token
}

func (d DSN) isCloud() bool {
	return d.host == CloudHost
}

// OTLPHost returns the host:port of the OTLP ingestion endpoint.
func (d DSN) OTLPHost() string {
	if d.isCloud() {
		return cloudOTLPHost
	}
	if d.hasPort {
		return d.host + ":" + strconv.FormatUint(uint64(d.port), 10)
	}
	return d.host
}

// OTLPGrpcAddr returns the URL of the OTLP/gRPC ingestion endpoint.
func (d DSN) OTLPGrpcAddr() string {
	if d.isCloud() {
		return cloudOTLPAddr
	}
	return d.scheme + "://" + d.OTLPHost()
}

// AppAddr returns the URL of the Uptrace UI.
func (d DSN) AppAddr() string {
	if d.isCloud() {
		return cloudAppAddr
	}
	return fmt.Sprintf("%s://%s:%d", d.scheme, d.host, appPort)
}

// TraceURL returns a link to the given trace in the Uptrace UI.
func (d DSN) TraceURL(traceID string) string {
	return d.AppAddr() + "/traces/" + traceID
}

// IsDisabled reports whether the DSN still carries the placeholder
// project id or token from example configuration.
func (d DSN) IsDisabled() bool {
	return d.projectID == PlaceholderProjectID || d.token == PlaceholderToken
}
