// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package wireparse

import "testing"

func TestTokenParserGetRequest(t *testing.T) {
	raw := []byte("GET /hello?x=1 HTTP/1.1\r\nHost: example.com\r\nConnection: keep-alive\r\n\r\n")
	b := NewBuilder()
	p := NewTokenParser(b, 0)

	headLen, err := p.ParseHead(raw)
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if headLen != len(raw) {
		t.Fatalf("headLen = %d, want %d", headLen, len(raw))
	}
	if b.Head.Method != "GET" {
		t.Fatalf("Method = %q, want GET", b.Head.Method)
	}
	if string(b.URL) != "/hello?x=1" {
		t.Fatalf("URL = %q, want /hello?x=1", b.URL)
	}
	if !b.Head.KeepAlive {
		t.Fatal("KeepAlive should be true")
	}
	found := false
	for i, name := range b.HeaderNames {
		if name == "Host" && b.HeaderVals[i] == "example.com" {
			found = true
		}
	}
	if !found {
		t.Fatal("Host header not captured")
	}
	p.Finish()
	if !b.Done {
		t.Fatal("Done should be true after Finish")
	}
}

func TestTokenParserConnectionClose(t *testing.T) {
	raw := []byte("POST /submit HTTP/1.1\r\nHost: example.com\r\nConnection: close\r\nContent-Length: 5\r\n\r\n")
	b := NewBuilder()
	p := NewTokenParser(b, 0)
	if _, err := p.ParseHead(raw); err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if b.Head.KeepAlive {
		t.Fatal("KeepAlive should be false when Connection: close is present")
	}
	n, ok := p.ContentLength()
	if !ok || n != 5 {
		t.Fatalf("ContentLength = %d,%v want 5,true", n, ok)
	}
	if p.IsChunked() {
		t.Fatal("IsChunked should be false")
	}
}

func TestTokenParserHeadTooLarge(t *testing.T) {
	huge := make([]byte, 0, 64)
	huge = append(huge, "GET / HTTP/1.1\r\nHost: "...)
	for i := 0; i < 64; i++ {
		huge = append(huge, 'a')
	}
	huge = append(huge, "\r\n\r\n"...)
	b := NewBuilder()
	p := NewTokenParser(b, 16)
	if _, err := p.ParseHead(huge); err != ErrHeaderTooLarge {
		t.Fatalf("err = %v, want ErrHeaderTooLarge", err)
	}
}
