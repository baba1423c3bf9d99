// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package httpserver

import "net"

// Delegate is invoked exactly once per completed request message.
// Concurrent calls for the same connection are forbidden by the
// handler's single-goroutine-per-connection model; calls for different
// connections may run concurrently.
type Delegate interface {
	Handle(resp *Response, req *Request) error
}

// DelegateFunc adapts a plain function to Delegate.
type DelegateFunc func(resp *Response, req *Request) error

func (f DelegateFunc) Handle(resp *Response, req *Request) error { return f(resp, req) }

// LifecycleDelegate receives server lifecycle events. Every method has
// a default no-op via LifecycleDelegate_, so implementers embed that
// and override only what they need.
type LifecycleDelegate interface {
	Started(server *Server, address string, listener net.Listener)
	Stopped(server *Server, address string)
	Failed(server *Server, address string, err error)
}

// LifecycleDelegate_ is a mixin providing no-op defaults for
// LifecycleDelegate, following the "optional methods via default no-op
// implementations" design note.
type LifecycleDelegate_ struct{}

func (LifecycleDelegate_) Started(*Server, string, net.Listener) {}
func (LifecycleDelegate_) Stopped(*Server, string)               {}
func (LifecycleDelegate_) Failed(*Server, string, error)         {}
