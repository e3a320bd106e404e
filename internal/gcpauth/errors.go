// Copyright (c) 2026 Alan Beebe [www.alanbeebe.com]
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// Created: August 27, 2026

package gcpauth

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredentials is returned when every credential source has been
	// tried and none yielded a usable token.
	ErrNoCredentials = errors.New("no usable Google Cloud credentials were found")

	// ErrNoProject is returned when every project source has been tried and
	// none yielded a non-empty project ID.
	ErrNoProject = errors.New("no Google Cloud project is configured")

	// ErrInvalidPrivateKey is returned when a service account private key
	// cannot be decoded or imported as an RSA key.
	ErrInvalidPrivateKey = errors.New("invalid service account private key")

	// ErrMalformedTokenResponse is returned when the token endpoint responds
	// with success but the body carries no access token.
	ErrMalformedTokenResponse = errors.New("token response is missing the access_token field")

	// errNotConfigured marks a credential or project source that is simply
	// absent, as opposed to present but broken. Both cases fall through to
	// the next source; only the log level differs.
	errNotConfigured = errors.New("not configured")
)

// TokenExchangeError is returned when the OAuth2 token endpoint responds with
// a non-success HTTP status. It carries the status code and response body so
// callers can surface the endpoint's explanation.
type TokenExchangeError struct {
	StatusCode int    // HTTP status returned by the token endpoint
	Body       string // Raw response body
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.Body)
}

// SubprocessError is returned when an external CLI invocation fails to run or
// exits with a non-zero status.
type SubprocessError struct {
	Command string // The command line that was invoked
	Stderr  string // Captured standard error output
	Err     error  // The underlying execution error
}

func (e *SubprocessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command '%s' failed: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("command '%s' failed: %v", e.Command, e.Err)
}

func (e *SubprocessError) Unwrap() error {
	return e.Err
}
