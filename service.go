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

// Package bucketlist is a small HTTP service that lists the Cloud Storage
// buckets of the caller's project. Credentials and project configuration are
// resolved per request through an ordered fallback chain; see internal/gcpauth
// for the resolution rules.
package bucketlist

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/albeebe/bucketlist/internal/environment"
	"github.com/albeebe/bucketlist/internal/router"
	"log/slog"
)

// Initialize loads the environment variables specified in the provided spec struct.
// In a local development environment, if any variables are missing, the user is
// prompted to enter the missing values. In a production environment, if required
// variables are not set, the function returns an error, indicating that the
// configuration is incomplete and the service should not start until the issue
// is resolved.
func Initialize(spec interface{}) error {
	return environment.Initialize(spec, runningInProduction())
}

// New initializes a new service instance with a service name, and configuration.
// It validates the configuration, sets up the logger, the credential resolver,
// the storage client, and the router, and prepares the service for use.
// Returns a configured Service or an error on failure.
func New(serviceName string, config Config) (*Service, error) {

	// Validate the configuration
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config is invalid: %w", err)
	}

	// Configure service
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		Context: ctx,
		Name:    serviceName,
		internal: &internal{
			cancel: cancel,
			config: &config,
		},
	}

	// Initialize the logger
	if err := s.initializeLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Set up the services components
	if err := s.setup(); err != nil {
		return nil, fmt.Errorf("failed to set up the service: %w", err)
	}

	return s, nil
}

// Run starts the service and blocks, waiting for an OS signal, context cancellation, or an error.
// Lifecycle callbacks from the State struct are invoked at each stage:
// - `Starting`: Called when the service starts.
// - `Running`: Called when the service is running.
// - `Terminating`: Called during shutdown, with an error if one triggered the termination.
//
// The function returns only after the service has gracefully shut down.
func (s *Service) Run(state State) {

	if state.Starting != nil {
		state.Starting()
	}

	// Set up a channel to listen for the terminate signals from the OS
	terminate := make(chan os.Signal, 1)
	signal.Notify(terminate, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(terminate)

	// Block until we get a terminate signal, or the context is canceled
	if state.Running != nil {
		state.Running()
	}
	select {
	case <-terminate:
		if state.Terminating != nil {
			state.Terminating(nil)
		}
	case <-s.Context.Done():
		if state.Terminating != nil {
			state.Terminating(nil)
		}
	case err := <-s.internal.router.ListenAndServe():
		if state.Terminating != nil {
			state.Terminating(err)
		}
	}

	// Cancel the context to initiate the graceful shutdown
	s.internal.cancel()

	// Create a channel to signal when teardown is complete
	teardownComplete := make(chan error)

	// Begin teardown in a separate goroutine allowing up to 5 seconds to gracefully teardown
	go func() {
		defer close(teardownComplete)
		teardownComplete <- s.teardown(5 * time.Second)
	}()

	// Wait for teardown to complete, or return immediately if a second signal is received
	select {
	case <-terminate:
		return
	case err := <-teardownComplete:
		if err != nil {
			s.Log.Error("teardown completed with an error", slog.Any("error", err))
		}
	}
}

// Shutdown initiates an immediate graceful shutdown by canceling the service's context,
// signaling all components to stop their operations. This method triggers the shutdown
// process but does not block or wait for the service to fully stop.
func (s *Service) Shutdown() {
	s.internal.cancel()
}

// Config returns the current configuration of the service.
// It provides access to the internal configuration stored in the service.
func (s *Service) Config() *Config {
	return s.internal.config
}

// Handler exposes the service's HTTP handler so the routing surface can be
// exercised without binding a listener.
func (s *Service) Handler() http.Handler {
	return s.internal.router.Handler()
}

// AddEndpoint registers a new HTTP endpoint with the specified method (e.g., "GET", "POST")
// and relative path. It wraps the provided handler function so that the current Service
// instance is passed into the handler when the endpoint is invoked.
// If an error occurs while registering the endpoint, the function will log the error
// and terminate the program.
func (s *Service) AddEndpoint(method, relativePath string, handler EndpointHandler) {

	// Wrap the handler, so we can pass the service to it and handle sending the response
	wrappedHandler := func(w http.ResponseWriter, r *http.Request) {
		resp := handler(s, r)
		if resp == nil {
			resp = Text(500, "internal server error")
		}
		if err := router.SendResponse(w, resp.StatusCode, resp.Headers, resp.Body); err != nil {
			s.Log.Error("failed to send response", slog.Any("error", err))
		}
	}

	// Register the wrapped handler to the router to handle requests on the given relativePath.
	// Log a fatal error if the handler registration fails.
	if err := s.internal.router.RegisterHandler(method, relativePath, wrappedHandler); err != nil {
		s.Log.Error("failed to register handler", slog.Any("error", err), slog.Any("method", method), slog.Any("relative_path", relativePath))
		os.Exit(1)
	}
}

// ParseClaims decodes the payload segment of a JWT and unmarshals it into the
// provided claims struct WITHOUT VERIFYING THE SIGNATURE.
func ParseClaims(token string, claims interface{}) error {

	// Split the token into its components (header, payload, signature)
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return errors.New("invalid JWT token format")
	}

	// Base64-decode the payload (JWT uses base64url encoding without padding)
	decoded, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	// Unmarshal the payload into the claims
	if err := json.Unmarshal(decoded, claims); err != nil {
		return fmt.Errorf("failed to unmarshal claims: %w", err)
	}

	return nil
}
