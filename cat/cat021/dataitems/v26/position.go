// cat/cat021/dataitems/v26/position.go
package v26

import (
	"bytes"
	"fmt"
	"math"

	"github.com/kallerwest/trackfusion/asterix"
)

// Position implements I021/040 (WGS-84 position).
// Latitude and longitude each have an LSB of 180/2^23 degrees, signed.
type Position struct {
	Latitude  float64 // Latitude in degrees (-90° to +90°)
	Longitude float64 // Longitude in degrees (-180° to +180°)
}

// Decode reads the position data from the buffer
func (p *Position) Decode(buf *bytes.Buffer) (int, error) {
	if err := asterix.CheckBuffer(buf, 6, "I021/040"); err != nil {
		return 0, err
	}
	data := buf.Next(6)

	latRaw := int32(data[0])<<16 | int32(data[1])<<8 | int32(data[2])
	if latRaw > 0x7FFFFF {
		latRaw -= 0x1000000
	}
	p.Latitude = float64(latRaw) * 180.0 / 8388608.0

	lonRaw := int32(data[3])<<16 | int32(data[4])<<8 | int32(data[5])
	if lonRaw > 0x7FFFFF {
		lonRaw -= 0x1000000
	}
	p.Longitude = float64(lonRaw) * 180.0 / 8388608.0

	return 6, p.Validate()
}

// Encode writes the position data to the buffer
func (p *Position) Encode(buf *bytes.Buffer) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("validating position: %w", err)
	}

	latRaw := int32(math.Round(p.Latitude * 8388608.0 / 180.0))
	if latRaw < 0 {
		latRaw += 0x1000000
	}
	lonRaw := int32(math.Round(p.Longitude * 8388608.0 / 180.0))
	if lonRaw < 0 {
		lonRaw += 0x1000000
	}

	data := make([]byte, 6)
	data[0] = byte(latRaw >> 16)
	data[1] = byte(latRaw >> 8)
	data[2] = byte(latRaw)
	data[3] = byte(lonRaw >> 16)
	data[4] = byte(lonRaw >> 8)
	data[5] = byte(lonRaw)

	n, err := buf.Write(data)
	if err != nil {
		return n, fmt.Errorf("writing position: %w", err)
	}
	return n, nil
}

// Validate checks if the position values are valid
func (p *Position) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f outside [-90,90]", asterix.ErrOutOfRange, p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f outside [-180,180]", asterix.ErrOutOfRange, p.Longitude)
	}
	return nil
}

// String returns a string representation of the position
func (p *Position) String() string {
	return fmt.Sprintf("Lat: %.6f°, Lon: %.6f°", p.Latitude, p.Longitude)
}
