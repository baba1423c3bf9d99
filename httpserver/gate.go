// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// gate owns one listening socket and its accept loop. Grounded on
// gorox's httpxGate (web_httpx_server.go): open() sets SO_REUSEPORT and
// TCP_DEFER_ACCEPT via sysnet, serveTCP/serveTLS/serveUDS distinguish
// shutdown-caused accept errors from real ones via isShutDown().

package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"os"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/hexinfra/httpcore/herror"
	"github.com/hexinfra/httpcore/sysnet"
)

type gate struct {
	subsWaiter_
	id       int32
	server   *Server
	listener net.Listener
	manager  *manager
	numConns atomic.Int32
	isShut   atomic.Bool
}

func newGate(id int32, server *Server) *gate {
	g := &gate{id: id, server: server}
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	g.manager = newManager(g, workers, 1024)
	return g
}

func (g *gate) markShut()        { g.isShut.Store(true) }
func (g *gate) isShutDown() bool { return g.isShut.Load() }

func (g *gate) reachLimit() bool {
	return g.numConns.Add(1) > g.server.config.MaxConnsPerGate
}
func (g *gate) onConnClosed() { g.numConns.Add(-1) }

// open binds the listening socket, UDS or TCP, wiring the per-OS
// socket options the same way httpxGate.Open does.
func (g *gate) open() error {
	address := g.server.config.Address
	if g.server.config.UDSMode {
		os.Remove(address)
		listener, err := net.Listen("unix", address)
		if err != nil {
			herr := herror.New(herror.BindFailed, err)
			g.server.config.Logger.Logf("gate %d: %v\n", g.id, herr)
			return herr
		}
		g.listener = listener
		return nil
	}

	listenConfig := net.ListenConfig{
		Control: func(network, address string, rawConn syscall.RawConn) error {
			if err := sysnet.SetReusePort(rawConn); err != nil {
				return err
			}
			return sysnet.SetDeferAccept(rawConn)
		},
	}
	listener, err := listenConfig.Listen(context.Background(), "tcp", address)
	if err != nil {
		herr := herror.New(herror.BindFailed, err)
		g.server.config.Logger.Logf("gate %d: %v\n", g.id, herr)
		return herr
	}
	g.listener = listener
	return nil
}

func (g *gate) shut() error {
	g.markShut()
	return g.listener.Close() // unblocks Accept
}

// serve runs the accept loop appropriate to this gate's transport, then
// waits for every accepted connection's worker to drain.
func (g *gate) serve() {
	switch {
	case g.server.config.IsTLS():
		g.serveTLS()
	case g.server.config.UDSMode:
		g.serveUDS()
	default:
		g.serveTCP()
	}
	g.manager.shutdown()
}

func (g *gate) serveTCP() {
	g.acceptLoop(func() (net.Conn, error) { return g.listener.Accept() }, false)
}

func (g *gate) serveUDS() {
	g.acceptLoop(func() (net.Conn, error) { return g.listener.Accept() }, false)
}

func (g *gate) serveTLS() {
	g.acceptLoop(func() (net.Conn, error) { return g.listener.Accept() }, true)
}

// acceptLoop accepts in a loop, backing off with a capped exponential
// delay on resource-exhaustion errors (EMFILE/ENFILE) instead of the
// teacher's bare continue, per the spec's "logged and paused with
// backoff" requirement.
func (g *gate) acceptLoop(accept func() (net.Conn, error), wantsTLS bool) {
	backoff := 5 * time.Millisecond
	const maxBackoff = 1 * time.Second
	for {
		netConn, err := accept()
		if err != nil {
			if g.isShutDown() {
				return
			}
			if isResourceExhausted(err) {
				g.server.config.Logger.Logf("gate %d: %v, backing off %s\n", g.id, herror.New(herror.AcceptFailed, err), backoff)
				time.Sleep(backoff)
				if backoff *= 2; backoff > maxBackoff {
					backoff = maxBackoff
				}
				continue
			}
			g.server.config.Logger.Logf("gate %d: %v\n", g.id, herror.New(herror.AcceptFailed, err))
			backoff = 5 * time.Millisecond
			continue
		}
		backoff = 5 * time.Millisecond

		if g.reachLimit() {
			g.onConnClosed()
			netConn.Close()
			continue
		}

		if wantsTLS {
			tlsConn := tls.Server(netConn, g.server.config.TLSConfig)
			if err := g.handshake(tlsConn); err != nil {
				g.onConnClosed()
				tlsConn.Close()
				continue
			}
			g.manager.enqueue(tlsConn)
		} else {
			g.manager.enqueue(netConn)
		}
	}
}

func (g *gate) handshake(tlsConn *tls.Conn) error {
	if err := tlsConn.SetDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return herror.New(herror.TLSHandshakeFailed, err)
	}
	if err := tlsConn.Handshake(); err != nil {
		return herror.New(herror.TLSHandshakeFailed, err)
	}
	return nil
}

func isResourceExhausted(err error) bool {
	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		return sysErr == syscall.EMFILE || sysErr == syscall.ENFILE
	}
	return false
}
