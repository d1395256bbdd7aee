// cat/cat048/dataitems/v132/radial_doppler_speed.go
package v132

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// RadialDopplerSpeed implements I048/120
// Radial Doppler speed, 1 kt LSB, signed, fixed 2-byte length.
type RadialDopplerSpeed struct {
	Speed int16 // kt, positive = receding
}

// Decode implements the DataItem interface
func (r *RadialDopplerSpeed) Decode(buf *bytes.Buffer) (int, error) {
	if err := binary.Read(buf, binary.BigEndian, &r.Speed); err != nil {
		return 0, fmt.Errorf("reading radial doppler speed: %w", err)
	}
	return 2, nil
}

// Encode implements the DataItem interface
func (r *RadialDopplerSpeed) Encode(buf *bytes.Buffer) (int, error) {
	if err := binary.Write(buf, binary.BigEndian, r.Speed); err != nil {
		return 0, fmt.Errorf("writing radial doppler speed: %w", err)
	}
	return 2, nil
}

// Validate implements the DataItem interface
func (r *RadialDopplerSpeed) Validate() error {
	return nil
}

// String returns a human-readable representation
func (r *RadialDopplerSpeed) String() string {
	return fmt.Sprintf("%d kt", r.Speed)
}
