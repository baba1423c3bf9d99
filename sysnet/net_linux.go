// Copyright (c) 2020-2025 Zhang Jingcheng <diogin@gmail.com>.
// Copyright (c) 2022-2024 HexInfra Co., Ltd.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Net for Linux. Not carried over from the upstream library — which only
// shipped darwin and freebsd variants — but written against the same
// syscall.RawConn.Control shape, swapping raw syscall.SetsockoptInt calls
// for golang.org/x/sys/unix constants and its TCPInfo helper.

package sysnet

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func SetReusePort(rawConn syscall.RawConn) (err error) {
	rawConn.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	return
}

// SetDeferAccept sets TCP_DEFER_ACCEPT so the kernel holds a new
// connection back from accept until the client sends data, waiting for
// up to about one second.
func SetDeferAccept(rawConn syscall.RawConn) (err error) {
	rawConn.Control(func(fd uintptr) {
		err = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_DEFER_ACCEPT, 1)
	})
	return
}

func SetBuffered(rawConn syscall.RawConn, buffered bool) {
	rawConn.Control(func(fd uintptr) {
		value := 0
		if buffered {
			value = 1
		}
		unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_CORK, value)
	})
}

// TCPState mirrors the kernel's TCP FSM state, linux/include/net/tcp_states.h.
type TCPState uint8

const (
	TCPStateClosed TCPState = iota
	TCPStateListen
	TCPStateSynSent
	TCPStateSynRcvd
	TCPStateEstablished
	TCPStateCloseWait
	TCPStateFinWait1
	TCPStateClosing
	TCPStateLastAck
	TCPStateFinWait2
	TCPStateTimeWait
)

// fromUnixState maps the kernel's tcp_states.h numbering (which
// golang.org/x/sys/unix does not export) onto TCPState.
func fromUnixState(state uint8) TCPState {
	switch state {
	case 1: // TCP_ESTABLISHED
		return TCPStateEstablished
	case 2: // TCP_SYN_SENT
		return TCPStateSynSent
	case 3: // TCP_SYN_RECV
		return TCPStateSynRcvd
	case 4: // TCP_FIN_WAIT1
		return TCPStateFinWait1
	case 5: // TCP_FIN_WAIT2
		return TCPStateFinWait2
	case 6: // TCP_TIME_WAIT
		return TCPStateTimeWait
	case 7: // TCP_CLOSE
		return TCPStateClosed
	case 8: // TCP_CLOSE_WAIT
		return TCPStateCloseWait
	case 9: // TCP_LAST_ACK
		return TCPStateLastAck
	case 10: // TCP_LISTEN
		return TCPStateListen
	case 11: // TCP_CLOSING
		return TCPStateClosing
	default:
		return TCPStateClosed
	}
}

// TCPInfo is TCP statistics for a given socket.
type TCPInfo struct {
	State TCPState
}

func (t *TCPInfo) IsEstablished() bool { return t.State == TCPStateEstablished }
func (t *TCPInfo) CanWrite() bool      { return t.IsEstablished() || t.State == TCPStateCloseWait }

func GetTCPInfo(sockfd uintptr) (*TCPInfo, error) {
	raw, err := unix.GetsockoptTCPInfo(int(sockfd), unix.SOL_TCP, unix.TCP_INFO)
	if err != nil {
		return nil, err
	}
	return &TCPInfo{State: fromUnixState(raw.State)}, nil
}
