// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package clientx is a thin outbound HTTP client wrapper over net/http,
// satisfying the ClientRequest/ClientResponse callback contract: a
// request is built up (method, host, path, headers, body), ended once,
// and a callback fires exactly once with either a response or an error.
package clientx

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
)

// Options mirrors the option list a ClientRequest may be constructed
// from: {method, schema, hostname, port, path, headers, username,
// password, maxRedirects, disableSSLVerification}.
type Options struct {
	Method                 string
	Schema                 string // "http" or "https"
	Hostname               string
	Port                   int
	Path                   string
	Headers                map[string]string
	Username, Password     string
	MaxRedirects           int
	DisableSSLVerification bool
}

// Request accumulates a request body via Write, then is sent once by
// End. The callback passed to End fires exactly once.
type Request struct {
	opts Options
	body bytes.Buffer
}

// NewRequest builds a Request from a URL string.
func NewRequest(rawURL string) *Request {
	return &Request{opts: Options{Method: "GET", Path: rawURL}}
}

// NewRequestWithOptions builds a Request from an explicit option set.
func NewRequestWithOptions(opts Options) *Request {
	if opts.Method == "" {
		opts.Method = "GET"
	}
	return &Request{opts: opts}
}

// Write appends to the request body.
func (r *Request) Write(p []byte) (int, error) { return r.body.Write(p) }

// Response is the ClientResponse companion: status, headers, and a
// streaming body reader.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// End sends the accumulated request and invokes done exactly once, with
// either a Response or an error (never both). close indicates whether
// the underlying connection should be closed instead of reused.
func (r *Request) End(close bool, done func(*Response, error)) {
	url := r.buildURL()

	req, err := http.NewRequest(r.opts.Method, url, &r.body)
	if err != nil {
		done(nil, err)
		return
	}
	for name, value := range r.opts.Headers {
		req.Header.Set(name, value)
	}
	if r.opts.Username != "" || r.opts.Password != "" {
		req.SetBasicAuth(r.opts.Username, r.opts.Password)
	}
	if close {
		req.Close = true
	}

	client := r.buildClient()
	resp, err := client.Do(req)
	if err != nil {
		done(nil, err)
		return
	}
	done(&Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: resp.Body}, nil)
}

func (r *Request) buildURL() string {
	if r.opts.Hostname == "" {
		return r.opts.Path // constructed from a raw URL string
	}
	schema := r.opts.Schema
	if schema == "" {
		schema = "http"
	}
	if r.opts.Port != 0 {
		return fmt.Sprintf("%s://%s:%d%s", schema, r.opts.Hostname, r.opts.Port, r.opts.Path)
	}
	return fmt.Sprintf("%s://%s%s", schema, r.opts.Hostname, r.opts.Path)
}

func (r *Request) buildClient() *http.Client {
	transport := &http.Transport{}
	if r.opts.DisableSSLVerification {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	client := &http.Client{Transport: transport}
	if r.opts.MaxRedirects > 0 {
		max := r.opts.MaxRedirects
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) > max {
				return http.ErrUseLastResponse
			}
			return nil
		}
	} else if r.opts.MaxRedirects < 0 {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}
