// Package client talks to the gophauth HTTP API on behalf of the CLI.
//
// Client is the transport-agnostic contract; HTTPClient implements it over
// net/http with JSON bodies. Error responses are decoded into *APIError, and
// the common statuses also match ErrUnauthorized or ErrUnavailable through
// errors.Is.
package client
