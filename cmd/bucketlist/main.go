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
// Created: August 28, 2026

package main

import (
	"log"
	"time"

	"github.com/albeebe/bucketlist"
)

// env declares the environment variables the service consumes. The credential
// sources are all optional; the resolver tries them in priority order at
// request time.
var env struct {
	GCLOUD_PATH                    string `default:"gcloud" optional:"true"`
	GCP_ACCESS_TOKEN               string `default:"" optional:"true"`
	GCP_PROJECT_ID                 string `default:"" optional:"true"`
	GCP_SERVICE_ACCOUNT_JSON       string `default:"" optional:"true"`
	GOOGLE_APPLICATION_CREDENTIALS string `default:"" optional:"true"`
	HOST                           string `default:":8080"`
	REQUEST_TIMEOUT_SECONDS        int64  `default:"10" optional:"true"`
	SERVICE_ACCOUNT_PATH           string `default:"service-account.json" optional:"true"`
}

func main() {

	// Load the environment
	if err := bucketlist.Initialize(&env); err != nil {
		log.Fatalf("failed to initialize the environment: %s", err)
	}

	// Create the service
	s, err := bucketlist.New("bucketlist", bucketlist.Config{
		AccessToken:            env.GCP_ACCESS_TOKEN,
		CredentialsFile:        env.GOOGLE_APPLICATION_CREDENTIALS,
		CredentialsJSON:        env.GCP_SERVICE_ACCOUNT_JSON,
		DefaultCredentialsPath: env.SERVICE_ACCOUNT_PATH,
		GcloudPath:             env.GCLOUD_PATH,
		Host:                   env.HOST,
		ProjectID:              env.GCP_PROJECT_ID,
		RequestTimeout:         time.Duration(env.REQUEST_TIMEOUT_SECONDS) * time.Second,
	})
	if err != nil {
		log.Fatalf("failed to create the service: %s", err)
	}

	// Register the HTTP surface
	s.RegisterRoutes()

	// Run the service until it is signaled to stop
	s.Run(bucketlist.State{
		Starting: func() {
			s.Log.Info("service is starting")
		},
		Running: func() {
			s.Log.Info("service is running", "host", s.Config().Host)
		},
		Terminating: func(err error) {
			if err != nil {
				s.Log.Error("service is terminating due to an error", "error", err)
				return
			}
			s.Log.Info("service is terminating")
		},
	})
}
