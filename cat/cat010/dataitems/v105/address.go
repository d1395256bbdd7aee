// cat/cat010/dataitems/v105/address.go
package v105

import (
	"bytes"
	"fmt"
)

// TargetAddress implements I010/220
// 24-bit Mode S target address, encoded identically to the Cat048/Cat021
// analogues.
type TargetAddress struct {
	Address uint32
}

// Decode implements the DataItem interface
func (a *TargetAddress) Decode(buf *bytes.Buffer) (int, error) {
	data := make([]byte, 3)
	n, err := buf.Read(data)
	if err != nil {
		return n, fmt.Errorf("reading target address: %w", err)
	}
	if n != 3 {
		return n, fmt.Errorf("insufficient data for target address: got %d bytes, want 3", n)
	}

	a.Address = uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])
	return n, a.Validate()
}

// Encode implements the DataItem interface
func (a *TargetAddress) Encode(buf *bytes.Buffer) (int, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}

	data := []byte{byte(a.Address >> 16), byte(a.Address >> 8), byte(a.Address)}
	n, err := buf.Write(data)
	if err != nil {
		return n, fmt.Errorf("writing target address: %w", err)
	}
	return n, nil
}

// Validate implements the DataItem interface
func (a *TargetAddress) Validate() error {
	if a.Address > 0xFFFFFF {
		return fmt.Errorf("target address exceeds 24 bits: %X", a.Address)
	}
	return nil
}

// String returns a human-readable representation
func (a *TargetAddress) String() string {
	return fmt.Sprintf("%06X", a.Address)
}
