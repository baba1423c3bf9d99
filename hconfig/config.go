// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package hconfig holds the Server's tunables. It carries the same
// settings the declarative stage/component config file used to supply
// through OnConfigure, but as plain functional options: there is no
// stage, no component tree, no config file to parse.
package hconfig

import (
	"crypto/tls"
	"errors"
	"runtime"
	"time"

	"github.com/hexinfra/httpcore/hlog"
)

// Config is the resolved, validated configuration for one Server. Build
// one with New plus a list of Options; do not construct it directly.
type Config struct {
	Address         string
	UDSMode         bool
	Abstract        bool
	TLSConfig       *tls.Config
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	NumGates        int32
	MaxConnsPerGate int32
	MaxHeaderBytes  int
	Logger          hlog.Logger
}

// Option mutates a Config under construction. Options apply in the
// order given to New, so a later WithX wins over an earlier one.
type Option func(*Config)

// defaults mirror the teacher's historical OnConfigure fallbacks:
// 60s read/write timeouts, one gate per CPU, 100000 conns per gate.
func defaults() *Config {
	return &Config{
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     60 * time.Second,
		NumGates:        int32(runtime.NumCPU()),
		MaxConnsPerGate: 100000,
		MaxHeaderBytes:  16 * 1024,
		Logger:          hlog.Create("noop", nil),
	}
}

// New resolves opts against address into a validated Config.
func New(address string, opts ...Option) (*Config, error) {
	c := defaults()
	c.Address = address
	for _, opt := range opts {
		opt(c)
	}
	if c.Address == "" {
		return nil, errors.New("hconfig: address is required")
	}
	if c.ReadTimeout <= 0 {
		return nil, errors.New("hconfig: ReadTimeout must be positive")
	}
	if c.WriteTimeout <= 0 {
		return nil, errors.New("hconfig: WriteTimeout must be positive")
	}
	if c.NumGates <= 0 {
		return nil, errors.New("hconfig: NumGates must be positive")
	}
	if c.MaxConnsPerGate <= 0 {
		return nil, errors.New("hconfig: MaxConnsPerGate must be positive")
	}
	if c.Logger == nil {
		return nil, errors.New("hconfig: Logger must not be nil")
	}
	return c, nil
}

func WithUDS(abstract bool) Option {
	return func(c *Config) {
		c.UDSMode = true
		c.Abstract = abstract
	}
}

func WithTLSConfig(tlsConfig *tls.Config) Option {
	return func(c *Config) { c.TLSConfig = tlsConfig }
}

func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) { c.ReadTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) { c.WriteTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *Config) { c.IdleTimeout = d }
}

func WithNumGates(n int32) Option {
	return func(c *Config) { c.NumGates = n }
}

func WithMaxConnsPerGate(n int32) Option {
	return func(c *Config) { c.MaxConnsPerGate = n }
}

func WithMaxHeaderBytes(n int) Option {
	return func(c *Config) { c.MaxHeaderBytes = n }
}

func WithLogger(logger hlog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

func (c *Config) IsTLS() bool { return c.TLSConfig != nil }
