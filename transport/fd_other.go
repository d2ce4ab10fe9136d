//go:build !linux && !darwin

package transport

import (
	"errors"
	"os"
)

var errFDUnsupported = errors.New("transport: raw fd transport is only implemented for linux/darwin")

func readFD(fd int, buf []byte) (int, error) {
	return 0, errFDUnsupported
}

func writeFD(fd int, buf []byte) (int, error) {
	return 0, errFDUnsupported
}

func closeFD(fd int) error {
	return os.NewSyscallError("close", errFDUnsupported)
}
