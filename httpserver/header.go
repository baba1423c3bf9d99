// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

package httpserver

import "strings"

// Header is an ordered multimap: case-insensitive names, value order
// preserved within a name, first-seen name order preserved overall.
type Header struct {
	names  []string // as first seen, original case
	values [][]string
}

func (h *Header) indexOf(name string) int {
	for i, n := range h.names {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

// Add appends value under name, preserving any prior values.
func (h *Header) Add(name, value string) {
	if i := h.indexOf(name); i >= 0 {
		h.values[i] = append(h.values[i], value)
		return
	}
	h.names = append(h.names, name)
	h.values = append(h.values, []string{value})
}

// Set replaces all values under name with a single value.
func (h *Header) Set(name, value string) {
	if i := h.indexOf(name); i >= 0 {
		h.values[i] = h.values[i][:0]
		h.values[i] = append(h.values[i], value)
		return
	}
	h.Add(name, value)
}

// Get returns the first value under name, or "" if absent.
func (h *Header) Get(name string) string {
	if i := h.indexOf(name); i >= 0 && len(h.values[i]) > 0 {
		return h.values[i][0]
	}
	return ""
}

// Values returns every value under name, in first-seen order.
func (h *Header) Values(name string) []string {
	if i := h.indexOf(name); i >= 0 {
		return h.values[i]
	}
	return nil
}

// Has reports whether name was seen at all.
func (h *Header) Has(name string) bool { return h.indexOf(name) >= 0 }

// Names returns every distinct header name, in first-seen order.
func (h *Header) Names() []string { return h.names }

// Del removes every value under name.
func (h *Header) Del(name string) {
	if i := h.indexOf(name); i >= 0 {
		h.names = append(h.names[:i], h.names[i+1:]...)
		h.values = append(h.values[:i], h.values[i+1:]...)
	}
}

// Reset clears the header for reuse by a pooled connection.
func (h *Header) Reset() {
	h.names = h.names[:0]
	h.values = h.values[:0]
}
