//go:build linux || darwin

package transport

import "golang.org/x/sys/unix"

// readFD and writeFD back the FD transport's Input/Output on Unix,
// grounded on eventloop's own split (fd_unix.go) of raw unix.Read/
// unix.Write calls from its portable poller code.
func readFD(fd int, buf []byte) (int, error) {
	return unix.Read(fd, buf)
}

func writeFD(fd int, buf []byte) (int, error) {
	return unix.Write(fd, buf)
}

func closeFD(fd int) error {
	return unix.Close(fd)
}
