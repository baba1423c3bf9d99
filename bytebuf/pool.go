// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package bytebuf

import "sync"

const (
	size4K   = 4 << 10
	size16K  = 16 << 10
	size64K1 = 64<<10 - 1
)

var (
	pool4K   sync.Pool
	pool16K  sync.Pool
	pool64K1 sync.Pool
)

// Get returns a pooled Buffer whose backing array has capacity in one of
// three buckets (4K/16K/64K-1) chosen to fit hint, mirroring gorox's
// GetNK/PutNK bucket pool. A hint larger than the largest bucket gets a
// plain allocation that Put will not return to the pool.
func Get(hint int) *Buffer {
	var pool *sync.Pool
	var size int
	switch {
	case hint <= size4K:
		pool, size = &pool4K, size4K
	case hint <= size16K:
		pool, size = &pool16K, size16K
	case hint <= size64K1:
		pool, size = &pool64K1, size64K1
	default:
		return &Buffer{data: make([]byte, 0, hint)}
	}
	if x := pool.Get(); x != nil {
		buf := x.(*Buffer)
		buf.Reset()
		return buf
	}
	return &Buffer{data: make([]byte, 0, size)}
}

// Put returns buf to the bucket pool whose size equals its capacity. A
// buffer whose capacity matches no bucket (it grew, or was allocated
// at another size) is simply dropped instead of pooled.
func Put(buf *Buffer) {
	switch cap(buf.data) {
	case size4K:
		pool4K.Put(buf)
	case size16K:
		pool16K.Put(buf)
	case size64K1:
		pool64K1.Put(buf)
	default:
		// capacity matches no bucket; let the GC have it.
	}
}
