// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package herror

import (
	"errors"
	"testing"
)

func TestIsAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := New(ClientDisconnected, cause)

	if !Is(err, ClientDisconnected) {
		t.Error("Is() should match ClientDisconnected")
	}
	if Is(err, ParseError) {
		t.Error("Is() should not match ParseError")
	}
	if !errors.Is(err, cause) && errors.Unwrap(err) != cause {
		t.Error("Unwrap() should return cause")
	}
}

func TestErrorStringWithoutCause(t *testing.T) {
	err := New(IdleTimeout, nil)
	if err.Error() != "IdleTimeout" {
		t.Errorf("Error() = %q", err.Error())
	}
}
