// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// HTTPServer: creates the listening gates, runs their accept loops,
// coordinates graceful shutdown. Grounded on gorox's httpxServer
// (web_httpx_server.go Serve method).

package httpserver

import (
	"sync/atomic"

	"github.com/hexinfra/httpcore/hconfig"
)

// Server is the top-level HTTP/1.x server: one Address, NumGates
// independent listening gates sharing one delegate.
type Server struct {
	subsWaiter_
	config    *hconfig.Config
	delegate  Delegate
	lifecycle LifecycleDelegate
	gates     []*gate
	stopped   atomic.Bool
}

// New validates address/opts into a Config and returns an unstarted
// Server. Call Serve to start accepting.
func New(address string, delegate Delegate, opts ...hconfig.Option) (*Server, error) {
	config, err := hconfig.New(address, opts...)
	if err != nil {
		return nil, err
	}
	if delegate == nil {
		delegate = DelegateFunc(func(resp *Response, req *Request) error {
			resp.WriteHeader(404)
			return nil
		})
	}
	return &Server{config: config, delegate: delegate, lifecycle: LifecycleDelegate_{}}, nil
}

// SetLifecycle installs lifecycle callbacks, replacing the no-op
// default. Call before Serve; the lifecycle list is appended only
// before listen per the concurrency model's "safe publication" note.
func (s *Server) SetLifecycle(lifecycle LifecycleDelegate) { s.lifecycle = lifecycle }

// Serve opens config.NumGates listening gates and blocks until every
// gate's accept loop and worker pool have drained (normally triggered
// by Stop).
func (s *Server) Serve() error {
	group := defaultListenerGroup()

	for id := int32(0); id < s.config.NumGates; id++ {
		g := newGate(id, s)
		if err := g.open(); err != nil {
			s.lifecycle.Failed(s, s.config.Address, err)
			return err
		}
		s.gates = append(s.gates, g)
	}

	s.lifecycle.Started(s, s.config.Address, s.gates[0].listener)

	for _, g := range s.gates {
		s.IncSub()
		group.enqueue()
		go func(g *gate) {
			defer s.DecSub()
			defer group.done()
			g.serve()
		}(g)
	}

	s.WaitSubs()
	s.lifecycle.Stopped(s, s.config.Address)
	return nil
}

// Stop is idempotent: the first call closes every gate's listener,
// which unblocks their accept loops. An open connection closes once its
// in-flight exchange completes; a connection waiting idle for its next
// request is not interrupted and stays open until that request is
// served, the peer closes, a read fails, or the idle timeout expires.
// Each gate's worker pool shuts down after all its connections close.
func (s *Server) Stop() error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}
	var firstErr error
	for _, g := range s.gates {
		if err := g.shut(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Addr reports the configured address.
func (s *Server) Addr() string { return s.config.Address }

// LiveConnections sums the live connection count across every gate,
// for basic observability.
func (s *Server) LiveConnections() int {
	n := 0
	for _, g := range s.gates {
		n += g.manager.liveConns()
	}
	return n
}
