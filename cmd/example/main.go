// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Command example starts an httpserver.Server with a tiny delegate and
// demonstrates stopping it gracefully on SIGINT/SIGTERM.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hexinfra/httpcore/hconfig"
	"github.com/hexinfra/httpcore/hlog"
	"github.com/hexinfra/httpcore/httpserver"
)

func main() {
	logger := hlog.Create("std", &hlog.Config{Target: "stdout"})

	delegate := httpserver.DelegateFunc(func(resp *httpserver.Response, req *httpserver.Request) error {
		logger.Logf("%s %s\n", req.Method, req.Path)
		resp.WriteHeader(200)
		resp.Write([]byte("hello from httpcore\n"))
		return nil
	})

	server, err := httpserver.New(":3080", delegate,
		hconfig.WithLogger(logger),
		hconfig.WithIdleTimeout(60*time.Second),
		hconfig.WithNumGates(4),
	)
	if err != nil {
		logger.Logf("configure failed: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		server.Stop()
	}()

	if err := server.Serve(); err != nil {
		logger.Logf("serve failed: %v\n", err)
		os.Exit(1)
	}
	httpserver.Wait()
}
