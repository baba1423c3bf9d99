// Copyright (c) 2020-2024 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Per-connection state machine. Grounded on gorox's server1Conn/
// server1Stream (web_http1_server.go): one conn per accepted socket,
// pooled, running a for-persistent loop of request/response exchanges.
// teardown carries the RFC 7230 §6.6 half-close path, taken only when
// closeSafe is false.

package httpserver

import (
	"bufio"
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hexinfra/httpcore/herror"
	"github.com/hexinfra/httpcore/wireparse"
)

type connState int32

const (
	stateIdle connState = iota
	stateReadingHeaders
	stateReadingBody
	stateHandlerRunning
	stateWriting
	stateClosing
)

var poolConn sync.Pool

func acquireConn(id int64, g *gate, netConn net.Conn, rawConn syscall.RawConn) *conn {
	var c *conn
	if x := poolConn.Get(); x == nil {
		c = new(conn)
		c.sink = wireparse.NewBuilder()
	} else {
		c = x.(*conn)
	}
	c.onGet(id, g, netConn, rawConn)
	return c
}

func releaseConn(c *conn) {
	c.onPut()
	poolConn.Put(c)
}

// conn is the IncomingSocketHandler: it owns exactly one accepted
// socket across its keep-alive lifetime.
type conn struct {
	id      int64
	gate    *gate
	netConn net.Conn
	rawConn syscall.RawConn

	reader *bufio.Reader
	sink   *wireparse.Builder
	parser *wireparse.TokenParser

	request  Request
	response Response

	state        connState
	persistent   bool
	closeSafe    bool
	lastActivity time.Time
}

func (c *conn) onGet(id int64, g *gate, netConn net.Conn, rawConn syscall.RawConn) {
	c.id = id
	c.gate = g
	c.netConn = netConn
	c.rawConn = rawConn
	c.reader = bufio.NewReaderSize(netConn, 16*1024)
	c.parser = wireparse.NewTokenParser(c.sink, g.server.config.MaxHeaderBytes)
	c.state = stateIdle
	c.persistent = true
	c.closeSafe = true
	c.lastActivity = time.Now()
}

func (c *conn) onPut() {
	c.gate = nil
	c.netConn = nil
	c.rawConn = nil
	c.reader = nil
	c.parser = nil
}

// serve runs the connection's request/response loop until the peer
// closes, an error occurs, the handler decides not to persist, or the
// gate has been shut and the current exchange is done.
func (c *conn) serve() {
	defer releaseConn(c)
	defer c.gate.onConnClosed()

	for c.persistent && !c.gate.isShutDown() {
		if err := c.setReadDeadline(c.gate.server.config.IdleTimeout); err != nil {
			break
		}
		if !c.readAndHandleOne() {
			break
		}
	}
	c.teardown()
}

func (c *conn) setReadDeadline(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return c.netConn.SetReadDeadline(time.Now().Add(d))
}

// readAndHandleOne drives one request/response exchange. It returns
// false when the connection should move to CLOSING.
func (c *conn) readAndHandleOne() (ok bool) {
	c.state = stateReadingHeaders
	headBuf, headLen, err := c.readHead()
	if err != nil {
		return false
	}
	c.lastActivity = time.Now()

	c.request.reset()
	c.request.Method = c.sink.Head.Method
	c.request.setURL(string(c.sink.URL))
	c.request.VersionMajor = c.sink.Head.VersionMajor
	c.request.VersionMinor = c.sink.Head.VersionMinor
	for i, name := range c.sink.HeaderNames {
		c.request.Header.Add(name, c.sink.HeaderVals[i])
	}
	c.persistent = c.computeKeepAlive()

	c.state = stateReadingBody
	leftover := append([]byte(nil), headBuf[headLen:]...)
	c.request.body = c.buildBodyReader(leftover)

	c.state = stateHandlerRunning
	c.response.onUse()
	c.response.flush = c.writeResponse
	c.runDelegate()

	if !c.response.Ended() {
		c.response.End()
	}

	c.state = stateWriting
	io.Copy(io.Discard, c.request.body) // drain any unread body before reuse
	c.response.onEnd()
	c.sink.OnMessageComplete()

	if !c.persistent {
		return false
	}
	c.state = stateIdle
	return true
}

// readHead accumulates bytes from the connection until a full head
// (request line + headers, terminated CRLFCRLF) has arrived, then
// tokenizes it. It returns the buffer holding the head plus any
// pipelined bytes that followed it, and how many of those bytes
// belong to the head.
func (c *conn) readHead() (buf []byte, headLen int, err error) {
	buf = make([]byte, 0, 2*1024)
	tmp := make([]byte, 4*1024)
	for {
		n, rerr := c.reader.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
			headLen, perr := c.parser.ParseHead(buf)
			if perr == nil {
				return buf, headLen, nil
			}
			if perr == wireparse.ErrHeaderTooLarge {
				return nil, 0, herror.New(herror.ParseError, perr)
			}
			// ErrIncompleteHead: keep reading
		}
		if rerr != nil {
			return nil, 0, rerr
		}
		if c.gate.server.config.MaxHeaderBytes > 0 && len(buf) > c.gate.server.config.MaxHeaderBytes {
			return nil, 0, herror.New(herror.ParseError, wireparse.ErrHeaderTooLarge)
		}
	}
}

func (c *conn) computeKeepAlive() bool {
	connValue := strings.TrimSpace(c.request.Header.Get("Connection"))
	if c.request.VersionMajor == 1 && c.request.VersionMinor >= 1 {
		return !strings.EqualFold(connValue, "close")
	}
	return strings.EqualFold(connValue, "keep-alive")
}

func (c *conn) buildBodyReader(leftover []byte) io.Reader {
	prefix := bytes.NewReader(leftover)
	full := io.MultiReader(prefix, c.reader)

	if c.parser.IsChunked() {
		return wireparse.NewDechunker(bufio.NewReader(full), 0)
	}
	if n, ok := c.parser.ContentLength(); ok && n > 0 {
		return io.LimitReader(full, n)
	}
	return bytes.NewReader(nil)
}

// runDelegate invokes the user delegate, translating a returned error
// or a recovered panic into a best-effort 500, per the "capture any
// error raised by the delegate" contract.
func (c *conn) runDelegate() {
	defer func() {
		if x := recover(); x != nil {
			c.onDelegateFailure(fmt.Errorf("panic: %v", x))
		}
	}()
	if err := c.gate.server.delegate.Handle(&c.response, &c.request); err != nil {
		c.onDelegateFailure(err)
	}
}

func (c *conn) onDelegateFailure(err error) {
	herr := herror.New(herror.DelegateRaised, err)
	c.gate.server.config.Logger.Logf("conn %d: %v\n", c.id, herr)
	if c.response.headersSent {
		// body bytes were already written: End still sends them with the
		// current status, then the connection closes.
		c.persistent = false
		return
	}
	c.response.StatusCode = 500
	c.response.Header.Reset()
	c.response.buf.Reset()
}

// writeResponse serializes the status line, headers and body to the
// socket. Content-Length is added when the body is fully buffered;
// Transfer-Encoding: chunked is honored when the handler opted in via
// Response.SetChunked.
func (c *conn) writeResponse(body []byte) error {
	if err := c.netConn.SetWriteDeadline(time.Now().Add(c.gate.server.config.WriteTimeout)); err != nil {
		return err
	}
	var out bytes.Buffer
	fmt.Fprintf(&out, "HTTP/1.1 %d %s\r\n", c.response.StatusCode, statusText(c.response.StatusCode))
	for _, name := range c.response.Header.Names() {
		for _, value := range c.response.Header.Values(name) {
			fmt.Fprintf(&out, "%s: %s\r\n", name, value)
		}
	}
	if c.response.wantsChunked {
		out.WriteString("Transfer-Encoding: chunked\r\n\r\n")
		writeChunk(&out, body)
	} else {
		fmt.Fprintf(&out, "Content-Length: %d\r\n\r\n", len(body))
		out.Write(body)
	}
	_, err := c.netConn.Write(out.Bytes())
	return err
}

func writeChunk(w *bytes.Buffer, body []byte) {
	if len(body) > 0 {
		fmt.Fprintf(w, "%x\r\n", len(body))
		w.Write(body)
		w.WriteString("\r\n")
	}
	w.WriteString("0\r\n\r\n")
}

func statusText(code int) string {
	if text, ok := statusTexts[code]; ok {
		return text
	}
	return "Status " + strconv.Itoa(code)
}

var statusTexts = map[int]string{
	200: "OK",
	204: "No Content",
	400: "Bad Request",
	404: "Not Found",
	500: "Internal Server Error",
}

// teardown closes the connection. When closeSafe is false it first
// drains per RFC 7230 §6.6: half-close the write side, give the client a
// chance to read the last response, then fully close. onGet sets
// closeSafe to true and nothing clears it, so the direct Close is the
// path taken.
func (c *conn) teardown() {
	netConn := c.netConn
	if !c.closeSafe {
		if tlsConn, ok := netConn.(*tls.Conn); ok {
			tlsConn.CloseWrite()
		} else if tcpConn, ok := netConn.(*net.TCPConn); ok {
			tcpConn.CloseWrite()
		} else if unixConn, ok := netConn.(*net.UnixConn); ok {
			unixConn.CloseWrite()
		}
		time.Sleep(time.Second)
	}
	netConn.Close()
}
