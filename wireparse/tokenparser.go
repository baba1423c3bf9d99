// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package wireparse

import (
	"bytes"
	"strconv"

	"github.com/evanphx/wildcat"
)

// TokenParser tokenizes one HTTP/1.x request-line-plus-headers block at a
// time and replays it through an EventSink. The request line and header
// block are handed to wildcat.HTTPParser in one shot (it wants the whole
// head in a contiguous buffer and reports back how many bytes it
// consumed); the body, if any, is delivered separately via FeedBody after
// HeadersComplete, since wildcat never looks past the head.
type TokenParser struct {
	sink   EventSink
	hp     *wildcat.HTTPParser
	maxLen int
}

// NewTokenParser returns a parser that reports to sink and refuses to
// buffer a head larger than maxHeadBytes.
func NewTokenParser(sink EventSink, maxHeadBytes int) *TokenParser {
	return &TokenParser{
		sink:   sink,
		hp:     wildcat.NewHTTPParser(),
		maxLen: maxHeadBytes,
	}
}

// ParseHead consumes buf up to and including the terminating CRLFCRLF,
// firing OnMessageBegin, OnURL, the OnHeaderField/OnHeaderValue pairs and
// OnHeadersComplete in order. It returns the number of bytes of buf that
// belonged to the head (the caller's body, if any, starts there) and
// ErrHeaderTooLarge if the head did not fit within maxHeadBytes.
func (p *TokenParser) ParseHead(buf []byte) (headLen int, err error) {
	if p.maxLen > 0 && len(buf) > p.maxLen {
		buf = buf[:p.maxLen]
	}

	p.sink.OnMessageBegin()

	bodyOffset, perr := p.hp.Parse(buf)
	if perr != nil {
		if p.maxLen > 0 && len(buf) >= p.maxLen {
			return 0, ErrHeaderTooLarge
		}
		return 0, ErrIncompleteHead
	}

	p.sink.OnURL(p.hp.Path)

	keepAlive := true
	for _, h := range p.hp.Headers[:p.hp.TotalHeaders] {
		p.sink.OnHeaderField(h.Name)
		p.sink.OnHeaderValue(h.Value)
		if bytes.EqualFold(h.Name, []byte("Connection")) {
			keepAlive = !bytes.EqualFold(bytes.TrimSpace(h.Value), []byte("close"))
		}
	}

	major, minor := parseVersion(p.hp.Version)

	p.sink.OnHeadersComplete(HeadInfo{
		Method:       string(p.hp.Method),
		VersionMajor: major,
		VersionMinor: minor,
		KeepAlive:    keepAlive,
	})

	return bodyOffset, nil
}

// parseVersion decodes an "HTTP/1.1"-shaped version token. It defaults to
// 1.1 if the token is malformed rather than failing the parse over it.
func parseVersion(v []byte) (major, minor int) {
	major, minor = 1, 1
	i := bytes.IndexByte(v, '/')
	if i < 0 || i+1 >= len(v) {
		return major, minor
	}
	dot := bytes.IndexByte(v[i+1:], '.')
	if dot < 0 {
		return major, minor
	}
	maj, err := strconv.Atoi(string(v[i+1 : i+1+dot]))
	if err != nil {
		return major, minor
	}
	min, err := strconv.Atoi(string(v[i+1+dot+1:]))
	if err != nil {
		return major, minor
	}
	return maj, min
}

// FeedBody replays a chunk of already-framed body bytes (sized content,
// or a decoded chunk from a Dechunker) through OnBody.
func (p *TokenParser) FeedBody(chunk []byte) {
	if len(chunk) > 0 {
		p.sink.OnBody(chunk)
	}
}

// Finish fires OnMessageComplete, ending the current message.
func (p *TokenParser) Finish() {
	p.sink.OnMessageComplete()
}

// ContentLength looks up the Content-Length header, if present.
func (p *TokenParser) ContentLength() (n int64, ok bool) {
	raw := p.hp.FindHeader([]byte("Content-Length"))
	if raw == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsChunked reports whether Transfer-Encoding names chunked.
func (p *TokenParser) IsChunked() bool {
	raw := p.hp.FindHeader([]byte("Transfer-Encoding"))
	return raw != nil && bytes.Contains(bytes.ToLower(raw), []byte("chunked"))
}
