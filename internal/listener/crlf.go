package listener

import (
	"bytes"
	"io"
)

// lineConn normalizes line endings for line-based terminals. Reads turn
// \r\n and bare \r into \n; writes turn \n into \r\n.
type lineConn struct {
	rw io.ReadWriter
	// afterCR is set when the last byte read was \r, so a \n that starts
	// the next read belongs to the same line ending.
	afterCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &lineConn{rw: rw}
}

func (c *lineConn) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)
	out := 0
	for _, b := range p[:n] {
		switch {
		case b == '\n' && c.afterCR:
			c.afterCR = false
			continue
		case b == '\r':
			c.afterCR = true
			b = '\n'
		default:
			c.afterCR = false
		}
		p[out] = b
		out++
	}
	return out, err
}

func (c *lineConn) Write(p []byte) (int, error) {
	_, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	// Report the caller's length; the expansion is invisible to them.
	return len(p), err
}
