//go:build linux
// +build linux

// File: server/socket_linux.go
// Raw non-blocking TCP socket setup, grounded on the original server's
// setup_socket_options/set_non_blocking helpers.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

const sendRecvBufferBytes = 1024 * 1024 // 1MB, matches the original server.

// listenTCP creates, binds, and listens on a non-blocking IPv4 TCP
// socket, returning its raw file descriptor.
func listenTCP(ip string, port int, backlog int) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		return -1, fmt.Errorf("socket: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}

	addr, err := parseIPv4(ip)
	if err != nil {
		unix.Close(fd)
		return -1, err
	}
	sa := &unix.SockaddrInet4{Port: port, Addr: addr}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("bind %s:%d: %w", ip, port, err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("listen: %w", err)
	}
	return fd, nil
}

func parseIPv4(ip string) ([4]byte, error) {
	var out [4]byte
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return out, fmt.Errorf("invalid ip address %q", ip)
	}
	v4 := parsed.To4()
	if v4 == nil {
		return out, fmt.Errorf("ip address %q is not IPv4", ip)
	}
	copy(out[:], v4)
	return out, nil
}

// setSocketOptions applies the gateway's low-latency socket tuning:
// TCP_NODELAY, SO_KEEPALIVE, and 1MB send/receive buffers.
func setSocketOptions(fd int) error {
	if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
		return fmt.Errorf("setsockopt TCP_NODELAY: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1); err != nil {
		return fmt.Errorf("setsockopt SO_KEEPALIVE: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, sendRecvBufferBytes); err != nil {
		return fmt.Errorf("setsockopt SO_SNDBUF: %w", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, sendRecvBufferBytes); err != nil {
		return fmt.Errorf("setsockopt SO_RCVBUF: %w", err)
	}
	return nil
}

// acceptConn accepts one pending connection off listenFD as a
// non-blocking socket, returning its fd and formatted remote address.
func acceptConn(listenFD int) (int, string, error) {
	fd, sa, err := unix.Accept4(listenFD, unix.SOCK_NONBLOCK)
	if err != nil {
		return -1, "", err
	}
	remote := formatSockaddr(sa)
	return fd, remote, nil
}

func formatSockaddr(sa unix.Sockaddr) string {
	if v4, ok := sa.(*unix.SockaddrInet4); ok {
		ip := net.IP(v4.Addr[:])
		return fmt.Sprintf("%s:%d", ip.String(), v4.Port)
	}
	return "unknown"
}
