// cat/cat010/dataitems/v105/callsign.go
package v105

import (
	"bytes"
	"fmt"
)

// CallSign implements I010/245
// Target identification, six-bit IA-5 characters packed four per three
// bytes, identical encoding to the Cat021/Cat048 analogues.
type CallSign struct {
	Ident string
}

var callSignAlphabet = []byte(" ABCDEFGHIJKLMNOPQRSTUVWXYZ????? ???????????????0123456789??????")

// Decode implements the DataItem interface
func (c *CallSign) Decode(buf *bytes.Buffer) (int, error) {
	data := make([]byte, 6)
	n, err := buf.Read(data)
	if err != nil {
		return n, fmt.Errorf("reading callsign: %w", err)
	}
	if n != 6 {
		return n, fmt.Errorf("insufficient data for callsign: got %d bytes, want 6", n)
	}

	codes := [8]byte{
		(data[0] & 0xFC) >> 2,
		((data[0] & 0x03) << 4) | ((data[1] & 0xF0) >> 4),
		((data[1] & 0x0F) << 2) | ((data[2] & 0xC0) >> 6),
		data[2] & 0x3F,
		(data[3] & 0xFC) >> 2,
		((data[3] & 0x03) << 4) | ((data[4] & 0xF0) >> 4),
		((data[4] & 0x0F) << 2) | ((data[5] & 0xC0) >> 6),
		data[5] & 0x3F,
	}

	chars := make([]byte, 8)
	for i, code := range codes {
		ch := callSignAlphabet[code]
		if ch == '?' {
			ch = ' '
		}
		chars[i] = ch
	}
	c.Ident = string(bytes.TrimRight(chars, " "))

	return n, nil
}

// Encode implements the DataItem interface
func (c *CallSign) Encode(buf *bytes.Buffer) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	ident := fmt.Sprintf("%-8s", c.Ident)
	var codes [8]byte
	for i := 0; i < 8; i++ {
		idx := bytes.IndexByte(callSignAlphabet, ident[i])
		if idx < 0 {
			return 0, fmt.Errorf("invalid character %q at position %d", ident[i], i)
		}
		codes[i] = byte(idx)
	}

	data := make([]byte, 6)
	data[0] = (codes[0] << 2) | (codes[1] >> 4)
	data[1] = ((codes[1] & 0x0F) << 4) | (codes[2] >> 2)
	data[2] = ((codes[2] & 0x03) << 6) | codes[3]
	data[3] = (codes[4] << 2) | (codes[5] >> 4)
	data[4] = ((codes[5] & 0x0F) << 4) | (codes[6] >> 2)
	data[5] = ((codes[6] & 0x03) << 6) | codes[7]

	n, err := buf.Write(data)
	if err != nil {
		return n, fmt.Errorf("writing callsign: %w", err)
	}
	return n, nil
}

// Validate implements the DataItem interface
func (c *CallSign) Validate() error {
	if len(c.Ident) > 8 {
		return fmt.Errorf("callsign too long: %d characters (max 8)", len(c.Ident))
	}
	for _, ch := range c.Ident {
		if bytes.IndexByte(callSignAlphabet, byte(ch)) < 0 {
			return fmt.Errorf("invalid character %q in callsign", ch)
		}
	}
	return nil
}

// String returns a human-readable representation
func (c *CallSign) String() string {
	return c.Ident
}
