// cat/cat048/dataitems/v132/track_number.go
package v132

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// TrackNumber implements I048/161
// An integer value representing a unique reference to a track record
// within a particular track file.
type TrackNumber struct {
	Value uint16
}

// Decode implements the DataItem interface
func (t *TrackNumber) Decode(buf *bytes.Buffer) (int, error) {
	if err := binary.Read(buf, binary.BigEndian, &t.Value); err != nil {
		return 0, fmt.Errorf("reading track number: %w", err)
	}
	return 2, nil
}

// Encode implements the DataItem interface
func (t *TrackNumber) Encode(buf *bytes.Buffer) (int, error) {
	if err := binary.Write(buf, binary.BigEndian, t.Value); err != nil {
		return 0, fmt.Errorf("writing track number: %w", err)
	}
	return 2, nil
}

// Validate implements the DataItem interface
func (t *TrackNumber) Validate() error {
	return nil
}

// String returns a human-readable representation
func (t *TrackNumber) String() string {
	return fmt.Sprintf("%d", t.Value)
}
