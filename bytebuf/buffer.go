// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package bytebuf implements a pooled, growable byte store with a read
// cursor. It backs both request ingress framing and response egress
// buffering.
package bytebuf

import "io"

// Buffer is a contiguous, growable sequence of bytes with a read cursor.
// Count is the total bytes appended minus bytes consumed by Reset; r is
// the read cursor, 0 <= r <= len(data). Not safe for concurrent use: a
// Buffer is exclusively owned by one connection handler at a time.
type Buffer struct {
	data []byte
	r    int
}

// New returns an empty Buffer with no preallocated storage.
func New() *Buffer {
	return new(Buffer)
}

// NewSize returns an empty Buffer with at least size bytes of capacity.
func NewSize(size int) *Buffer {
	b := new(Buffer)
	if size > 0 {
		b.data = make([]byte, 0, size)
	}
	return b
}

// Len returns the number of unread bytes (count - r).
func (b *Buffer) Len() int { return len(b.data) - b.r }

// Count returns the total number of bytes currently held (appended minus
// bytes dropped by Reset).
func (b *Buffer) Count() int { return len(b.data) }

// Cursor returns the current read cursor.
func (b *Buffer) Cursor() int { return b.r }

// Bytes returns the unread tail of the buffer. The slice aliases the
// Buffer's storage and is invalidated by the next Append/Grow/Reset.
func (b *Buffer) Bytes() []byte { return b.data[b.r:] }

// Append copies p to the tail. Amortised O(1): grows geometrically
// (>=1.5x) and never reallocates without preserving unread content.
func (b *Buffer) Append(p []byte) {
	b.Grow(len(p))
	b.data = append(b.data, p...)
}

// Write implements io.Writer by appending p.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p)
	return len(p), nil
}

// Grow pre-reserves capacity for at least n additional bytes using the
// same >=1.5x geometric strategy the pooled buffers use, centralized here
// since both ingress framing and egress buffering need it.
func (b *Buffer) Grow(n int) {
	if have := cap(b.data) - len(b.data); have >= n {
		return
	}
	need := len(b.data) + n
	newCap := cap(b.data) + cap(b.data)/2
	if newCap < need {
		newCap = need
	}
	if newCap < 64 {
		newCap = 64
	}
	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
}

// FillInto copies min(len(dst), count-r) bytes starting at the cursor
// into dst, advances r by n, and returns n. Returns 0 iff fully drained.
func (b *Buffer) FillInto(dst []byte) (n int) {
	n = copy(dst, b.data[b.r:])
	b.r += n
	return n
}

// Read implements io.Reader by draining from the cursor.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.Len() == 0 {
		return 0, io.EOF
	}
	return b.FillInto(p), nil
}

// FillIntoVec copies all unread bytes into dst, a growable sequence,
// advancing the cursor to the end.
func (b *Buffer) FillIntoVec(dst *[]byte) (n int) {
	n = b.Len()
	*dst = append(*dst, b.data[b.r:]...)
	b.r = len(b.data)
	return n
}

// Reset clears content: r = count = 0.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.r = 0
}

// Rewind sets r = 0; content is unchanged.
func (b *Buffer) Rewind() { b.r = 0 }
