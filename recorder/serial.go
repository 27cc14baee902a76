// Package recorder is the reference front-end collaborator for the
// categorizer: it turns a stream of raw rising/falling-edge timestamps
// (from a serial-attached OOK receiver, or from a file for testing) into
// the flagged duration array the categorizer package consumes. It owns no
// classification logic of its own.
package recorder

import (
	"fmt"

	"github.com/pkg/term"
)

// Port wraps a serial device opened in raw mode, returning errors to the
// caller instead of logging and swallowing them.
type Port struct {
	fd *term.Term
}

// OpenPort opens devicename at the given baud rate. baud of 0 leaves the
// port's current speed alone.
func OpenPort(devicename string, baud int) (*Port, error) {
	fd, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("recorder: opening serial port %s: %w", devicename, err)
	}

	switch baud {
	case 0:
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		if err := fd.SetSpeed(baud); err != nil {
			fd.Close()
			return nil, fmt.Errorf("recorder: setting speed %d on %s: %w", baud, devicename, err)
		}
	default:
		return nil, fmt.Errorf("recorder: unsupported baud rate %d", baud)
	}

	return &Port{fd: fd}, nil
}

// ReadByte blocks for the next byte from the port.
func (p *Port) ReadByte() (byte, error) {
	buf := make([]byte, 1)
	n, err := p.fd.Read(buf)
	if n != 1 {
		return 0, fmt.Errorf("recorder: short read from serial port: %w", err)
	}
	return buf[0], nil
}

// Write sends data to the port, returning an error if the whole buffer
// wasn't accepted.
func (p *Port) Write(data []byte) error {
	n, err := p.fd.Write(data)
	if err != nil {
		return fmt.Errorf("recorder: writing to serial port: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("recorder: short write to serial port: wrote %d of %d bytes", n, len(data))
	}
	return nil
}

// Close releases the underlying device.
func (p *Port) Close() error {
	if p.fd == nil {
		return nil
	}
	return p.fd.Close()
}
