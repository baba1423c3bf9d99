// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// IncomingSocketManager: owns the worker pool a gate hands accepted
// sockets to, and the socket->handler map used for liveness tracking.
// Grounded on gorox's httpxGate (web_httpx_server.go) for the
// connection-counting/barrier shape, extended with a bounded worker
// pool (s00inx-goserver/internal/epoll.go's jobs-channel pattern) and
// an xsync.MapOf in place of a mutex-guarded map.

package httpserver

import (
	"net"
	"sync/atomic"
	"syscall"

	"github.com/puzpuzpuz/xsync/v3"
)

type manager struct {
	subsWaiter_
	gate    *gate
	jobs    chan net.Conn
	sockets *xsync.MapOf[int64, *conn]
	nextID  atomic.Int64
}

func newManager(g *gate, workers int, queueDepth int) *manager {
	m := &manager{
		gate:    g,
		jobs:    make(chan net.Conn, queueDepth),
		sockets: xsync.NewMapOf[int64, *conn](),
	}
	for i := 0; i < workers; i++ {
		m.IncSub()
		go m.runWorker()
	}
	return m
}

// runWorker pulls accepted sockets from the channel and runs each
// connection's full keep-alive lifetime inline: the worker pool size is
// the bound on concurrent connections this manager will service, not a
// bound on per-request latency.
func (m *manager) runWorker() {
	defer m.DecSub()
	for netConn := range m.jobs {
		m.serveOne(netConn)
	}
}

func (m *manager) serveOne(netConn net.Conn) {
	var rawConn syscall.RawConn
	switch typed := netConn.(type) {
	case *net.TCPConn:
		rawConn, _ = typed.SyscallConn()
	case *net.UnixConn:
		rawConn, _ = typed.SyscallConn()
	}

	id := m.nextID.Add(1)

	c := acquireConn(id, m.gate, netConn, rawConn)
	m.sockets.Store(id, c)
	c.serve()
	m.sockets.Delete(id)
}

// enqueue hands an accepted socket to the worker pool. It blocks if
// every worker is busy and the queue is full, providing natural
// admission back-pressure at the manager boundary.
func (m *manager) enqueue(netConn net.Conn) {
	m.jobs <- netConn
}

func (m *manager) liveConns() int {
	n := 0
	m.sockets.Range(func(int64, *conn) bool {
		n++
		return true
	})
	return n
}

// shutdown closes the job queue and waits for every worker to drain.
func (m *manager) shutdown() {
	close(m.jobs)
	m.WaitSubs()
}
