// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package clientx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestEndSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("missing X-Test header")
		}
		w.WriteHeader(201)
		w.Write([]byte("created"))
	}))
	defer srv.Close()

	req := NewRequest(srv.URL)
	req.opts.Headers = map[string]string{"X-Test": "yes"}

	done := make(chan struct{})
	req.End(false, func(resp *Response, err error) {
		defer close(done)
		if err != nil {
			t.Fatalf("End: %v", err)
		}
		if resp.StatusCode != 201 {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if string(body) != "created" {
			t.Fatalf("body = %q, want created", body)
		}
	})
	<-done
}

func TestRequestEndFailure(t *testing.T) {
	req := NewRequest("http://127.0.0.1:0/unreachable")
	done := make(chan struct{})
	req.End(false, func(resp *Response, err error) {
		defer close(done)
		if err == nil {
			t.Fatal("expected an error for an unreachable host")
		}
		if resp != nil {
			t.Fatal("resp should be nil on error")
		}
	})
	<-done
}

func TestMaxRedirectsCapsChain(t *testing.T) {
	hops := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, "/next", http.StatusFound)
	}))
	defer srv.Close()

	req := NewRequestWithOptions(Options{Path: srv.URL, MaxRedirects: 1})
	done := make(chan struct{})
	req.End(false, func(resp *Response, err error) {
		defer close(done)
		if err != nil {
			t.Fatalf("End: %v", err)
		}
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("status = %d, want 302 (redirect chain capped)", resp.StatusCode)
		}
	})
	<-done
}
