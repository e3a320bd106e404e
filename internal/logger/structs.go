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

package logger

import (
	"fmt"
	"log/slog"

	"cloud.google.com/go/logging"
)

// Config holds configuration details for the loggers.
type Config struct {
	GCPProjectID string     // Project that receives Google Cloud log entries
	LogName      string     // Name of the log stream in Google Cloud Logging
	Level        slog.Level // Minimum level that will be emitted
}

// DevelopmentHandler is a custom slog handler that prints human-readable,
// color-coded log lines to the console.
type DevelopmentHandler struct {
	level slog.Level
}

// GoogleCloudLoggingHandler is a custom slog handler that forwards log
// records to Google Cloud Logging.
type GoogleCloudLoggingHandler struct {
	logger *logging.Logger
	level  slog.Level
}

// validate checks the Config struct for required fields and
// returns an error if any required fields are missing
func (c *Config) Validate() error {

	if c.GCPProjectID == "" {
		return fmt.Errorf("GCPProjectID is empty")
	}

	if c.LogName == "" {
		return fmt.Errorf("LogName is empty")
	}

	return nil
}
