// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Barrier mixin, ported from gorox's _subsWaiter_ (mix_mixin.go). The
// shutdown flag that gorox keeps in _shutdownable_ lives on gate
// (markShut/isShutDown).

package httpserver

import "sync"

type subsWaiter_ struct {
	subs sync.WaitGroup
}

func (w *subsWaiter_) IncSub()        { w.subs.Add(1) }
func (w *subsWaiter_) SubsAddn(n int) { w.subs.Add(n) }
func (w *subsWaiter_) WaitSubs()      { w.subs.Wait() }
func (w *subsWaiter_) DecSub()        { w.subs.Done() }
