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

package bucketlist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albeebe/bucketlist/internal/gcpauth"
	"github.com/albeebe/bucketlist/internal/gcs"
	"github.com/albeebe/bucketlist/internal/logger"
	"github.com/albeebe/bucketlist/internal/router"
)

// initializeLogger sets up the service's logger. On Google Cloud with a
// configured project the logs go to Google Cloud Logging; everywhere else a
// human-readable console logger is used.
func (s *Service) initializeLogger() (err error) {

	if runningInProduction() && s.internal.config.ProjectID != "" {
		s.Log, err = logger.NewGoogleCloudLogger(s.Context, logger.Config{
			GCPProjectID: s.internal.config.ProjectID,
			LogName:      s.Name,
			Level:        slog.LevelInfo,
		})
		return err
	}

	s.Log, err = logger.NewDevelopmentLogger(s.Context, logger.Config{
		Level: slog.LevelDebug,
	})
	return err
}

// setup initializes the service's components concurrently to enhance performance.
func (s *Service) setup() error {

	// Define the components we want to set up
	type Component struct {
		Name     string
		Function func() error
	}
	components := []Component{
		{"Credential Resolver", s.setupCredentials},
		{"Storage Client", s.setupStorage},
		{"Router", s.setupRouter},
	}

	// Set up the various components concurrently to enhance performance
	wg := sync.WaitGroup{}
	errCh := make(chan error, len(components))
	for _, component := range components {
		wg.Add(1)
		go func(c Component) {
			defer wg.Done()
			if err := c.Function(); err != nil {
				errCh <- fmt.Errorf("failed to set up %s: %w", c.Name, err)
			}
		}(component)
	}

	// Wait for the components to finish setting up
	go func() {
		wg.Wait()
		close(errCh)
	}()
	var finalErr error
	for err := range errCh {
		if err != nil {
			if finalErr == nil {
				finalErr = err
			}
		}
	}

	return finalErr
}

// setupCredentials initializes the credential resolver from the service
// configuration. All credential sources are optional; the resolver decides at
// request time which one is usable.
func (s *Service) setupCredentials() (err error) {
	s.Credentials, err = gcpauth.New(gcpauth.Config{
		CredentialsJSON:        s.internal.config.CredentialsJSON,
		CredentialsFile:        s.internal.config.CredentialsFile,
		AccessToken:            s.internal.config.AccessToken,
		ProjectID:              s.internal.config.ProjectID,
		DefaultCredentialsPath: s.internal.config.DefaultCredentialsPath,
		GcloudPath:             s.internal.config.GcloudPath,
		TokenURL:               s.internal.config.TokenURL,
		Timeout:                s.internal.config.RequestTimeout,
		Log:                    s.Log,
	})
	return err
}

// setupStorage initializes the Cloud Storage client for the service.
func (s *Service) setupStorage() (err error) {
	s.Storage, err = gcs.NewClient(gcs.Config{
		BaseURL: s.internal.config.StorageBaseURL,
		Timeout: s.internal.config.RequestTimeout,
		Log:     s.Log,
	})
	return err
}

// setupRouter initializes the HTTP router for the service.
func (s *Service) setupRouter() (err error) {
	notFound := notFoundHandler
	methodNotAllowed := methodNotAllowedHandler
	s.internal.router, err = router.NewRouter(s.Context, router.Config{
		Host: s.internal.config.Host,
		Cors: &router.Cors{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"*"},
			AllowHeaders: []string{"*"},
			MaxAge:       time.Hour,
		},
		NoRouteHandler:  &notFound,
		NoMethodHandler: &methodNotAllowed,
	})
	return err
}

// teardown gracefully shuts down the service components concurrently within a specified timeout.
// If the process exceeds the timeout, it stops waiting and returns. Any errors encountered are collected,
// with the first error being returned, if any.
func (s *Service) teardown(timeout time.Duration) error {

	// Define the components we want to tear down
	type Component struct {
		Name     string
		Function func() error
	}
	components := []Component{
		{"Logger", s.teardownLogger},
		{"Router", s.teardownRouter},
	}

	// Create a context with a timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	wg := sync.WaitGroup{}
	errCh := make(chan error, len(components))

	// Launch the teardown process for each component in a separate goroutine
	for _, component := range components {
		wg.Add(1)
		go func(c Component) {
			defer wg.Done()
			if err := c.Function(); err != nil {
				select {
				case errCh <- fmt.Errorf("failed to tear down %s: %w", c.Name, err):
				case <-ctx.Done():
					return
				}
			}
		}(component)
	}

	// Close the error channel when all goroutines are done
	go func() {
		wg.Wait()
		close(errCh)
	}()

	var finalErr error

	// Wait until either the timeout occurs or all components have finished tearing down, whichever happens first
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		finalErr = err
	}

	// Drain the remaining errors from the error channel
	for err := range errCh {
		if err != nil && finalErr == nil {
			finalErr = err
		}
	}

	return finalErr
}

// teardownLogger flushes any buffered log entries before the process exits.
func (s *Service) teardownLogger() (err error) {
	if s.Log != nil {
		return logger.FlushLogger(s.Log)
	}
	return nil
}

// teardownRouter gracefully shuts down the router, immediately stopping it from accepting
// new incoming connections while allowing existing connections to complete before returning.
func (s *Service) teardownRouter() (err error) {
	if s.internal.router != nil {
		return s.internal.router.Shutdown()
	}
	return nil
}
