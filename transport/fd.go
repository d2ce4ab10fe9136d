package transport

import "sync"

// fdTransport wraps a raw Unix file descriptor (a pipe end, for example)
// as a Transport without going through net.Conn or os.File, the Go
// analogue of original_source's chanBlbTrnFd.c, which original_source's
// pipeproxy.c uses on the two ends of a pipe(2) pair.
type fdTransport struct {
	fd int

	closeOnce sync.Once
	closeErr  error
}

// FD wraps a raw file descriptor as a Transport. Reads and writes go
// straight to the syscall layer (golang.org/x/sys/unix on linux/darwin);
// on other platforms Input/Output/Close return an unsupported error.
func FD(fd int) Transport {
	return &fdTransport{fd: fd}
}

func (f *fdTransport) Input(buf []byte) (int, error) {
	return readFD(f.fd, buf)
}

func (f *fdTransport) Output(buf []byte) (int, error) {
	return writeFD(f.fd, buf)
}

func (f *fdTransport) Close() error {
	f.closeOnce.Do(func() { f.closeErr = closeFD(f.fd) })
	return f.closeErr
}
