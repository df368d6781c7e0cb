package driver

import "io"

// Port defines the byte-stream interface the console reader consumes
type Port interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
}
