// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package queryval

import "testing"

func TestNestedArrayAndDict(t *testing.T) { // S4
	root := Parse("a=1&b[c]=2&b[d][]=3&b[d][]=4&x=true")

	if root.Get("a").Kind() != KindInt || root.Get("a").Int64() != 1 {
		t.Fatalf("a = %v, want int 1", root.Get("a"))
	}
	b := root.Get("b")
	if b.Kind() != KindDict {
		t.Fatalf("b kind = %v, want dict", b.Kind())
	}
	if b.Get("c").Int64() != 2 {
		t.Fatalf("b.c = %v, want 2", b.Get("c"))
	}
	d := b.Get("d")
	if d.Kind() != KindArray || d.Len() != 2 {
		t.Fatalf("b.d = %v, want array of 2", d)
	}
	if d.Index(0).Int64() != 3 || d.Index(1).Int64() != 4 {
		t.Fatalf("b.d = [%v, %v], want [3, 4]", d.Index(0), d.Index(1))
	}
	if x := root.Get("x"); x.Kind() != KindBool || !x.Bool() {
		t.Fatalf("x = %v, want bool true", x)
	}
}

func TestMalformedPairDropped(t *testing.T) { // S5
	root := Parse("a=1&bogus&c=2")

	if root.Get("a").Int64() != 1 || root.Get("c").Int64() != 2 {
		t.Fatalf("got a=%v c=%v", root.Get("a"), root.Get("c"))
	}
	if len(root.Keys()) != 2 {
		t.Fatalf("keys = %v, want exactly [a c]", root.Keys())
	}
}

func TestSubscriptMissNeverFails(t *testing.T) {
	root := Parse("a=1")
	if got := root.Get("missing"); got.Kind() != KindNull {
		t.Fatalf("Get(missing) kind = %v, want Null", got.Kind())
	}
	if got := root.Get("a").Index(0); got.Kind() != KindNull {
		t.Fatalf("Index on a scalar kind = %v, want Null", got.Kind())
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	root := Parse("z=1&a=2&m=3")
	want := []string{"z", "a", "m"}
	got := root.Keys()
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
}

func TestDeterministicParse(t *testing.T) {
	first := Parse("a[b][c]=1&a[b][d]=2")
	second := Parse("a[b][c]=1&a[b][d]=2")
	ab1, ab2 := first.Get("a").Get("b"), second.Get("a").Get("b")
	if ab1.Get("c").Int64() != ab2.Get("c").Int64() || ab1.Get("d").Int64() != ab2.Get("d").Int64() {
		t.Fatal("parse is not deterministic")
	}
	if len(ab1.Keys()) != 2 || ab1.Keys()[0] != "c" || ab1.Keys()[1] != "d" {
		t.Fatalf("nested dict keys = %v", ab1.Keys())
	}
}

func TestScalarCoercionPriority(t *testing.T) {
	root := Parse("i=42&f=3.14&t=true&f2=false&s=hello")
	if root.Get("i").Kind() != KindInt {
		t.Errorf("i kind = %v, want Int", root.Get("i").Kind())
	}
	if root.Get("f").Kind() != KindFloat {
		t.Errorf("f kind = %v, want Float", root.Get("f").Kind())
	}
	if root.Get("t").Kind() != KindBool || !root.Get("t").Bool() {
		t.Errorf("t = %v, want Bool true", root.Get("t"))
	}
	if root.Get("f2").Kind() != KindBool || root.Get("f2").Bool() {
		t.Errorf("f2 = %v, want Bool false", root.Get("f2"))
	}
	if root.Get("s").Kind() != KindString || root.Get("s").String() != "hello" {
		t.Errorf("s = %v, want String hello", root.Get("s"))
	}
}

func TestPercentDecodingAndPlus(t *testing.T) {
	root := Parse("name=John+Doe&note=a%20b")
	if got := root.Get("name").String(); got != "John Doe" {
		t.Errorf("name = %q, want %q", got, "John Doe")
	}
	if got := root.Get("note").String(); got != "a b" {
		t.Errorf("note = %q, want %q", got, "a b")
	}
}

func TestEmptyQueryString(t *testing.T) {
	root := Parse("")
	if root.Kind() != KindDict || len(root.Keys()) != 0 {
		t.Fatalf("empty query should parse to empty dict, got %v keys=%v", root.Kind(), root.Keys())
	}
}

func TestArrayAppendWithoutSubscript(t *testing.T) {
	root := Parse("tags[]=go&tags[]=http")
	tags := root.Get("tags")
	if tags.Kind() != KindArray || tags.Len() != 2 {
		t.Fatalf("tags = %v, want 2-element array", tags)
	}
	if tags.Index(0).String() != "go" || tags.Index(1).String() != "http" {
		t.Fatalf("tags = [%v, %v]", tags.Index(0), tags.Index(1))
	}
}
