// cat/cat048/dataitems/v132/target_report_descriptor.go
package v132

import (
	"bytes"
	"fmt"
	"strings"
)

// TargetReportDescriptor implements I048/020
// Type and properties of the target report.
type TargetReportDescriptor struct {
	// Primary Part
	TYP uint8 // Type of detection, 0-7
	SIM bool  // Actual/Simulated target
	RDP bool  // Report from RDP Chain 1/2
	SPI bool  // Absence/Presence of SPI
	RAB bool  // Report from aircraft/field monitor

	// First Extension
	TST bool // Real/Test target report

	hasExtension bool
}

// Decode implements the DataItem interface
func (t *TargetReportDescriptor) Decode(buf *bytes.Buffer) (int, error) {
	bytesRead := 0

	b, err := buf.ReadByte()
	if err != nil {
		return bytesRead, fmt.Errorf("reading target report descriptor: %w", err)
	}
	bytesRead++

	t.TYP = (b >> 5) & 0x07 // bits 8-6
	t.SIM = (b & 0x10) != 0 // bit 5
	t.RDP = (b & 0x08) != 0 // bit 4
	t.SPI = (b & 0x04) != 0 // bit 3
	t.RAB = (b & 0x02) != 0 // bit 2
	fx := (b & 0x01) != 0   // bit 1 (FX)

	if fx {
		t.hasExtension = true
		b, err = buf.ReadByte()
		if err != nil {
			return bytesRead, fmt.Errorf("reading target report descriptor first extension: %w", err)
		}
		bytesRead++

		t.TST = (b & 0x80) != 0 // bit 8
		// remaining bits (ERR/XPP/ME/MI/FOE/FX) are not part of the
		// supported subset and are discarded.
	}

	return bytesRead, t.Validate()
}

// Encode implements the DataItem interface
func (t *TargetReportDescriptor) Encode(buf *bytes.Buffer) (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	bytesWritten := 0

	b := (t.TYP & 0x07) << 5
	if t.SIM {
		b |= 0x10
	}
	if t.RDP {
		b |= 0x08
	}
	if t.SPI {
		b |= 0x04
	}
	if t.RAB {
		b |= 0x02
	}
	if t.hasExtension {
		b |= 0x01
	}

	if err := buf.WriteByte(b); err != nil {
		return bytesWritten, fmt.Errorf("writing target report descriptor: %w", err)
	}
	bytesWritten++

	if t.hasExtension {
		b = 0
		if t.TST {
			b |= 0x80
		}
		if err := buf.WriteByte(b); err != nil {
			return bytesWritten, fmt.Errorf("writing target report descriptor first extension: %w", err)
		}
		bytesWritten++
	}

	return bytesWritten, nil
}

// Validate implements the DataItem interface
func (t *TargetReportDescriptor) Validate() error {
	if t.TYP > 7 {
		return fmt.Errorf("invalid TYP value: %d", t.TYP)
	}
	return nil
}

// String returns a human-readable representation
func (t *TargetReportDescriptor) String() string {
	var parts []string

	typDesc := "Unknown"
	switch t.TYP {
	case 0:
		typDesc = "No detection"
	case 1:
		typDesc = "Single PSR detection"
	case 2:
		typDesc = "Single SSR detection"
	case 3:
		typDesc = "SSR + PSR detection"
	case 4:
		typDesc = "Single ModeS All-Call"
	case 5:
		typDesc = "Single ModeS Roll-Call"
	case 6:
		typDesc = "ModeS All-Call + PSR"
	case 7:
		typDesc = "ModeS Roll-Call + PSR"
	}
	parts = append(parts, fmt.Sprintf("TYP: %s", typDesc))

	if t.SIM {
		parts = append(parts, "Simulated")
	}
	if t.SPI {
		parts = append(parts, "SPI")
	}
	if t.RAB {
		parts = append(parts, "Field Monitor")
	}
	if t.hasExtension && t.TST {
		parts = append(parts, "Test")
	}

	return strings.Join(parts, ", ")
}

// SetExtension marks the first extension octet as present when TST is set
// and as absent otherwise.
func (t *TargetReportDescriptor) SetExtension() {
	t.hasExtension = t.TST
}
