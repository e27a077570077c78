// Copyright 2025 The SCE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build unix

package notify

import (
	"syscall"

	"fortio.org/safecast"
	"golang.org/x/sys/unix"
)

// pollReadable reports whether the connection has data that can be read
// without blocking. It polls the descriptor with a zero timeout. A closed peer
// also reports as readable.
func pollReadable(conn syscall.Conn) bool {
	raw, err := conn.SyscallConn()
	if err != nil {
		return false
	}

	ready := false

	ctrlErr := raw.Control(func(fd uintptr) {
		pfd, err := safecast.Conv[int32](fd)
		if err != nil {
			return
		}

		fds := []unix.PollFd{{Fd: pfd, Events: unix.POLLIN, Revents: 0}}

		n, err := unix.Poll(fds, 0)
		ready = err == nil && n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0
	})
	if ctrlErr != nil {
		return false
	}

	return ready
}
