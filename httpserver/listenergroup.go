// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// ListenerGroup is the process-wide wait-for-listeners barrier from
// spec.md §4.6/§9: a singleton with lazy init on first enqueue and no
// explicit teardown, modeled directly on gorox's _subsWaiter_ mixin
// (IncSub/SubsAddn/WaitSubs/DecSub over a sync.WaitGroup).

package httpserver

import "sync"

type ListenerGroup struct {
	subsWaiter_
}

var (
	globalGroup     *ListenerGroup
	globalGroupOnce sync.Once
)

func defaultListenerGroup() *ListenerGroup {
	globalGroupOnce.Do(func() {
		globalGroup = &ListenerGroup{}
	})
	return globalGroup
}

func (g *ListenerGroup) enqueue() { g.IncSub() }
func (g *ListenerGroup) done()    { g.DecSub() }

// Wait blocks until every accept loop enqueued so far — across every
// Server in the process — has completed. Additions after Wait has
// entered are allowed and extend the wait, per the design note.
func Wait() { defaultListenerGroup().WaitSubs() }
