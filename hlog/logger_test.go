// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package hlog

import "testing"

func TestNoopRegistered(t *testing.T) {
	if !Registered("noop") {
		t.Fatal("noop logger should be registered by init()")
	}
	l := Create("noop", nil)
	if l == nil {
		t.Fatal("Create(\"noop\", nil) returned nil")
	}
	l.Log("should not panic")
	l.Logln("should not panic")
	l.Logf("%s", "should not panic")
	l.Close()
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup-logger", func(c *Config) Logger { return noopLogger{} })
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	Register("test-dup-logger", func(c *Config) Logger { return noopLogger{} })
}

func TestUnregisteredCreateReturnsNil(t *testing.T) {
	if l := Create("does-not-exist", nil); l != nil {
		t.Fatal("Create() for unregistered sign should return nil")
	}
}
