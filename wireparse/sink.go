// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package wireparse adapts a byte-level HTTP/1.x tokenizer into an
// ordered event stream a connection handler can assemble a request from.
// The byte-level parser itself is treated as a swappable black box: this
// package defines the event contract and ships one concrete
// implementation, TokenParser, backed by a third-party tokenizer.
package wireparse

// EventSink receives the ordered callback stream a byte-level HTTP
// parser produces. Events for one message fire in this order:
// OnMessageBegin, OnURL (may fire multiple times; concatenated),
// interleaved OnHeaderField/OnHeaderValue pairs, OnHeadersComplete,
// OnBody (may fire multiple times), OnMessageComplete.
type EventSink interface {
	OnMessageBegin()
	OnURL(p []byte)
	OnHeaderField(p []byte)
	OnHeaderValue(p []byte)
	OnHeadersComplete(info HeadInfo)
	OnBody(p []byte)
	OnMessageComplete()
}

// HeadInfo carries the decoded request-line and keep-alive verdict
// delivered at OnHeadersComplete, per the parser adaptor's duty to
// "decode method and HTTP version from the parser's numeric outputs"
// and to "preserve the parser's stated keep-alive verdict".
type HeadInfo struct {
	Method       string
	VersionMajor int
	VersionMinor int
	KeepAlive    bool
}

// Builder is the default EventSink: it assembles headers as a multimap
// preserving first-seen order per name, and the raw URL bytes as they
// arrive, per the adaptor's stated duties. Embed it in a richer sink (a
// request builder) that overrides the methods it cares about, or call
// NewBuilder and drive it directly.
type Builder struct {
	URL         []byte
	HeaderNames []string
	HeaderVals  []string
	Head        HeadInfo
	Body        []byte
	Done        bool

	curName []byte
	curVal  []byte
	haveVal bool
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) OnMessageBegin() {
	b.URL = b.URL[:0]
	b.HeaderNames = b.HeaderNames[:0]
	b.HeaderVals = b.HeaderVals[:0]
	b.Body = b.Body[:0]
	b.Done = false
	b.curName, b.curVal, b.haveVal = nil, nil, false
}

func (b *Builder) OnURL(p []byte) { b.URL = append(b.URL, p...) }

func (b *Builder) OnHeaderField(p []byte) {
	if b.haveVal { // starting a new field; flush the previous pair
		b.flushHeader()
	}
	b.curName = append(b.curName, p...)
}

func (b *Builder) OnHeaderValue(p []byte) {
	b.curVal = append(b.curVal, p...)
	b.haveVal = true
}

func (b *Builder) flushHeader() {
	if len(b.curName) > 0 {
		b.HeaderNames = append(b.HeaderNames, string(b.curName))
		b.HeaderVals = append(b.HeaderVals, string(b.curVal))
	}
	b.curName = b.curName[:0]
	b.curVal = b.curVal[:0]
	b.haveVal = false
}

func (b *Builder) OnHeadersComplete(info HeadInfo) {
	b.flushHeader()
	b.Head = info
}

func (b *Builder) OnBody(p []byte) { b.Body = append(b.Body, p...) }

func (b *Builder) OnMessageComplete() { b.Done = true }
