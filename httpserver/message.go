// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package httpserver

import (
	"errors"
	"io"
	"strings"

	"github.com/hexinfra/httpcore/bytebuf"
	"github.com/hexinfra/httpcore/queryval"
)

// Request is a read-only view of one inbound HTTP message. It is
// constructed lazily as the parser fires headers-complete and is
// reused (via reset) across the keep-alive lifetime of a connection.
type Request struct {
	Method       string
	RawURL       string
	Path         string
	RawQuery     string
	Header       Header
	VersionMajor int
	VersionMinor int
	KeepAlive    bool

	body io.Reader // streams already-received plus arriving body bytes
}

func (r *Request) reset() {
	r.Method = ""
	r.RawURL = ""
	r.Path = ""
	r.RawQuery = ""
	r.Header.Reset()
	r.VersionMajor, r.VersionMinor = 0, 0
	r.KeepAlive = false
	r.body = nil
}

// setURL splits RawURL into Path and RawQuery the way a net/url.URL would,
// without pulling in a full URL parser: the parser adaptor already
// delivers the raw request-target verbatim.
func (r *Request) setURL(raw string) {
	r.RawURL = raw
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		r.Path = raw[:i]
		r.RawQuery = raw[i+1:]
	} else {
		r.Path = raw
		r.RawQuery = ""
	}
}

// Query parses RawQuery on demand into a nested QueryValue tree.
func (r *Request) Query() *queryval.Value {
	return queryval.Parse(r.RawQuery)
}

// Body streams the request body: bytes already buffered plus bytes
// arriving later on the same socket.
func (r *Request) Body() io.Reader { return r.body }

var ErrResponseEnded = errors.New("httpserver: response already ended")

// Response is the write-side companion to Request. Headers may not be
// mutated after the first body byte is flushed; End is an error, not a
// no-op, when called a second time.
type Response struct {
	StatusCode int
	Header     Header

	buf          *bytebuf.Buffer
	headersSent  bool
	ended        bool
	wantsChunked bool
	flush        func(p []byte) error // flushes buffered bytes to the socket
}

func (resp *Response) onUse() {
	resp.StatusCode = 200
	resp.Header.Reset()
	resp.headersSent = false
	resp.ended = false
	resp.wantsChunked = false
	if resp.buf == nil {
		resp.buf = bytebuf.Get(0)
	}
}

func (resp *Response) onEnd() {
	if resp.buf != nil {
		bytebuf.Put(resp.buf)
		resp.buf = nil
	}
}

// WriteHeader sets the status code. It is a no-op once headers have
// already been sent.
func (resp *Response) WriteHeader(statusCode int) {
	if resp.headersSent {
		return
	}
	resp.StatusCode = statusCode
}

// Write buffers p as response body bytes and marks the headers as sent,
// so later WriteHeader calls are ignored. Nothing reaches the socket
// before End, so changes made to Header after Write still go out.
func (resp *Response) Write(p []byte) (int, error) {
	if resp.ended {
		return 0, ErrResponseEnded
	}
	resp.headersSent = true
	return resp.buf.Write(p)
}

// SetChunked marks the response to be framed with Transfer-Encoding:
// chunked instead of a buffered Content-Length.
func (resp *Response) SetChunked() { resp.wantsChunked = true }

// End finalizes the response, flushing any buffered bytes through the
// connection's flush function. A second call reports ErrResponseEnded.
func (resp *Response) End() error {
	if resp.ended {
		return ErrResponseEnded
	}
	resp.ended = true
	if resp.flush == nil {
		return nil
	}
	return resp.flush(resp.buf.Bytes())
}

func (resp *Response) Ended() bool { return resp.ended }
