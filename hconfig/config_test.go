// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package hconfig

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	c, err := New(":3080")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.ReadTimeout != 60*time.Second || c.WriteTimeout != 60*time.Second {
		t.Fatalf("unexpected default timeouts: %v %v", c.ReadTimeout, c.WriteTimeout)
	}
	if c.NumGates <= 0 {
		t.Fatal("NumGates should default to a positive value")
	}
	if c.MaxConnsPerGate != 100000 {
		t.Fatalf("MaxConnsPerGate = %d, want 100000", c.MaxConnsPerGate)
	}
	if c.IsTLS() {
		t.Fatal("IsTLS should be false without WithTLSConfig")
	}
}

func TestNewRequiresAddress(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestOptionsOverrideDefaults(t *testing.T) {
	c, err := New(":3080", WithNumGates(4), WithMaxConnsPerGate(10), WithIdleTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.NumGates != 4 {
		t.Fatalf("NumGates = %d, want 4", c.NumGates)
	}
	if c.MaxConnsPerGate != 10 {
		t.Fatalf("MaxConnsPerGate = %d, want 10", c.MaxConnsPerGate)
	}
	if c.IdleTimeout != 5*time.Second {
		t.Fatalf("IdleTimeout = %v, want 5s", c.IdleTimeout)
	}
}

func TestInvalidOptionRejected(t *testing.T) {
	if _, err := New(":3080", WithNumGates(0)); err == nil {
		t.Fatal("expected error for NumGates(0)")
	}
	if _, err := New(":3080", WithReadTimeout(0)); err == nil {
		t.Fatal("expected error for ReadTimeout(0)")
	}
}

func TestWithUDS(t *testing.T) {
	c, err := New("/tmp/example.sock", WithUDS(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !c.UDSMode || !c.Abstract {
		t.Fatal("WithUDS should set UDSMode and Abstract")
	}
}
