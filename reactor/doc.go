// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the core poll-mode event reactor abstraction and its epoll implementation for Linux. Other non-Windows platforms get a stub whose NewReactor returns an error; there is no Windows implementation.
package reactor
