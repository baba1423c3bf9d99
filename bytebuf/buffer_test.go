// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package bytebuf

import (
	"bytes"
	"testing"
)

func TestAppendFillFIFO(t *testing.T) {
	b := New()
	b.Append([]byte("hello "))
	b.Append([]byte("world"))

	dst := make([]byte, 5)
	n := b.FillInto(dst)
	if n != 5 || string(dst) != "hello" {
		t.Fatalf("got %q n=%d", dst, n)
	}

	rest := make([]byte, 32)
	n = b.FillInto(rest)
	if string(rest[:n]) != " world" {
		t.Fatalf("got %q", rest[:n])
	}

	if n := b.FillInto(dst); n != 0 {
		t.Fatalf("expected drained buffer, got n=%d", n)
	}
}

func TestResetRewind(t *testing.T) {
	b := New()
	b.Append([]byte("abc"))
	dst := make([]byte, 1)
	b.FillInto(dst)
	if b.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", b.Cursor())
	}

	b.Rewind()
	if b.Cursor() != 0 || b.Count() != 3 {
		t.Fatalf("rewind did not preserve content: cursor=%d count=%d", b.Cursor(), b.Count())
	}

	b.Reset()
	if b.Cursor() != 0 || b.Count() != 0 {
		t.Fatalf("reset left state: cursor=%d count=%d", b.Cursor(), b.Count())
	}
}

func TestGrowPreservesUnread(t *testing.T) {
	b := New()
	b.Append(bytes.Repeat([]byte("x"), 10))
	dst := make([]byte, 3)
	b.FillInto(dst)
	b.Grow(1000)
	if b.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", b.Len())
	}
}

func TestPoolBucketSelection(t *testing.T) {
	small := Get(100)
	if cap(small.data) != size4K {
		t.Fatalf("cap = %d, want %d", cap(small.data), size4K)
	}
	Put(small)

	mid := Get(size4K + 1)
	if cap(mid.data) != size16K {
		t.Fatalf("cap = %d, want %d", cap(mid.data), size16K)
	}
	Put(mid)

	huge := Get(size64K1 + 1)
	if cap(huge.data) <= size64K1 {
		t.Fatalf("huge buffer not sized past largest bucket: cap=%d", cap(huge.data))
	}
	Put(huge) // should not panic even though it won't be pooled
}

func TestIOReaderWriter(t *testing.T) {
	b := New()
	n, err := b.Write([]byte("payload"))
	if err != nil || n != 7 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	out := make([]byte, 7)
	n, err = b.Read(out)
	if err != nil || string(out[:n]) != "payload" {
		t.Fatalf("Read() = %q, %v", out[:n], err)
	}
	if _, err := b.Read(out); err == nil {
		t.Fatal("expected io.EOF on drained buffer")
	}
}
