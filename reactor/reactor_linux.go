//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor implementation and factory. Client
// sockets are armed edge-triggered with EPOLLONESHOT so at most one
// worker ever observes a given fd's readiness between drains; the
// listener stays level-triggered so any idle worker can accept.

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// linuxReactor is an epoll-based event reactor.
type linuxReactor struct {
	epfd int
}

// NewReactor constructs a new platform-specific EventReactor for Linux.
func NewReactor() (EventReactor, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &linuxReactor{epfd: epfd}, nil
}

func epollEventsFor(mode Mode) uint32 {
	switch mode {
	case EdgeTriggeredOneShot:
		return unix.EPOLLIN | unix.EPOLLET | unix.EPOLLONESHOT
	default:
		return unix.EPOLLIN
	}
}

// buildEvent stores fd directly in the kernel event's Fd field. Every
// caller in this package passes uintptr(fd) as udata, so Wait recovers
// UserData from the same field instead of packing a second value into
// epoll_event's data union (EpollEvent.Fd/Pad together are exactly 8
// bytes on amd64 with no spare room for a second uintptr).
func buildEvent(mode Mode, fd int) *unix.EpollEvent {
	return &unix.EpollEvent{
		Events: epollEventsFor(mode),
		Fd:     int32(fd),
	}
}

// Register adds fd to epoll under mode.
func (r *linuxReactor) Register(fd int, mode Mode, udata uintptr) error {
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, buildEvent(mode, fd))
}

// Rearm re-arms a previously-registered fd, required after every drain
// of an EdgeTriggeredOneShot socket.
func (r *linuxReactor) Rearm(fd int, mode Mode, udata uintptr) error {
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, fd, buildEvent(mode, fd))
}

// Deregister removes fd from epoll without closing it.
func (r *linuxReactor) Deregister(fd int) error {
	return unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// Wait waits up to timeout for epoll events and fills the result into
// the events slice.
func (r *linuxReactor) Wait(events []Event, timeout time.Duration) (int, error) {
	rawEvents := make([]unix.EpollEvent, len(events))
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}
	n, err := unix.EpollWait(r.epfd, rawEvents, ms)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	for i := 0; i < n; i++ {
		events[i] = Event{
			Fd:       int(rawEvents[i].Fd),
			UserData: uintptr(rawEvents[i].Fd),
		}
	}
	return n, nil
}

// Close closes the epoll instance.
func (r *linuxReactor) Close() error {
	return unix.Close(r.epfd)
}
