// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package wireparse

import (
	"bufio"
	"errors"
	"io"
)

// chunkState is the FSM state of Dechunker, one state per line of RFC
// 7230 §4.1's chunked-body grammar: chunk-size [chunk-ext] CRLF
// chunk-data CRLF ... last-chunk trailer-section CRLF.
type chunkState int

const (
	stateSize chunkState = iota
	stateExt
	stateData
	stateDataCR
	stateDataLF
	stateTrailer
	stateDone
)

// Dechunker turns a chunked transfer-coded byte stream back into plain
// body bytes. It wraps a bufio.Reader rather than replaying the
// fixed-window fore/edge bookkeeping of a pooled buffer, since the
// caller already owns buffering (the connection handler hands it a
// *bufio.Reader sitting on the connection).
type Dechunker struct {
	src      *bufio.Reader
	state    chunkState
	size     int64 // bytes left in the chunk currently being read
	maxChunk int64
	err      error
}

var (
	ErrBadChunkSize   = errors.New("wireparse: invalid chunk size")
	ErrChunkTooLarge  = errors.New("wireparse: chunk size exceeds limit")
	ErrTruncatedChunk = errors.New("wireparse: truncated chunked body")
	ErrHeaderTooLarge = errors.New("wireparse: head exceeds maximum size")
	ErrIncompleteHead = errors.New("wireparse: incomplete head")
)

// NewDechunker wraps src. maxChunk bounds a single chunk's declared
// size; 0 means unbounded.
func NewDechunker(src *bufio.Reader, maxChunk int64) *Dechunker {
	return &Dechunker{src: src, maxChunk: maxChunk}
}

// Read implements io.Reader, returning io.EOF once the terminating
// last-chunk and trailer-section have been consumed.
func (d *Dechunker) Read(p []byte) (n int, err error) {
	if d.err != nil {
		return 0, d.err
	}
	for n == 0 {
		switch d.state {
		case stateSize:
			if err := d.readSize(); err != nil {
				return d.fail(err)
			}
		case stateExt:
			if err := d.skipExt(); err != nil {
				return d.fail(err)
			}
		case stateData:
			if d.size == 0 {
				d.state = stateDataCR
				continue
			}
			max := int64(len(p))
			if max > d.size {
				max = d.size
			}
			read, rerr := d.src.Read(p[:max])
			n += read
			d.size -= int64(read)
			if rerr != nil {
				return d.fail(ErrTruncatedChunk)
			}
			if d.size == 0 {
				d.state = stateDataCR
			}
		case stateDataCR:
			b, err := d.src.ReadByte()
			if err != nil {
				return d.fail(ErrTruncatedChunk)
			}
			if b != '\r' {
				if b == '\n' { // lenient: tolerate bare LF
					d.state = stateSize
					continue
				}
				return d.fail(ErrBadChunkSize)
			}
			d.state = stateDataLF
		case stateDataLF:
			b, err := d.src.ReadByte()
			if err != nil {
				return d.fail(ErrTruncatedChunk)
			}
			if b != '\n' {
				return d.fail(ErrBadChunkSize)
			}
			d.state = stateSize
		case stateTrailer:
			if err := d.skipTrailers(); err != nil {
				return d.fail(err)
			}
			d.state = stateDone
			return n, io.EOF
		case stateDone:
			return n, io.EOF
		}
	}
	return n, nil
}

func (d *Dechunker) fail(err error) (int, error) {
	d.err = err
	return 0, err
}

func (d *Dechunker) readSize() error {
	var size int64
	digits := 0
	for {
		b, err := d.src.ReadByte()
		if err != nil {
			return ErrTruncatedChunk
		}
		v, ok := hexVal(b)
		if !ok {
			if digits == 0 {
				return ErrBadChunkSize
			}
			d.src.UnreadByte()
			break
		}
		size = size<<4 | int64(v)
		digits++
		if digits > 16 || size < 0 {
			return ErrBadChunkSize
		}
	}
	if d.maxChunk > 0 && size > d.maxChunk {
		return ErrChunkTooLarge
	}
	d.size = size
	d.state = stateExt
	return nil
}

// skipExt discards an optional "; name=value" chunk-extension, then the
// terminating CRLF, landing on stateData (or stateTrailer for the
// zero-size last chunk).
func (d *Dechunker) skipExt() error {
	for {
		b, err := d.src.ReadByte()
		if err != nil {
			return ErrTruncatedChunk
		}
		if b == '\r' {
			nxt, err := d.src.ReadByte()
			if err != nil {
				return ErrTruncatedChunk
			}
			if nxt != '\n' {
				return ErrBadChunkSize
			}
			break
		}
		if b == '\n' { // lenient: bare LF
			break
		}
		// anything else is part of the chunk-ext; ignore it
	}
	if d.size == 0 {
		d.state = stateTrailer
	} else {
		d.state = stateData
	}
	return nil
}

// skipTrailers discards zero or more trailer field-lines up to and
// including the terminating blank line. Trailer values are not surfaced.
func (d *Dechunker) skipTrailers() error {
	for {
		line, err := d.src.ReadString('\n')
		if err != nil {
			return ErrTruncatedChunk
		}
		if line == "\r\n" || line == "\n" {
			return nil
		}
	}
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
