// klv/st0601.go
package klv

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/kallerwest/trackfusion/asterix"
)

// UASDatalink is the subset of ST 0601 (UAS Datalink Local Set) items this
// package encodes and decodes.
type UASDatalink struct {
	TimestampUnixMicro int64
	MissionID          string
	TailNumber         string
	HeadingDeg         float64
	HasHeading         bool
	LatDeg             float64
	LonDeg             float64
	HasPosition        bool
	ElevationM         float64
	HasElevation       bool
}

// EncodeUASDatalink builds a complete ST 0601 KLV packet: Universal Key,
// BER length, Local Set (Checksum item first).
func EncodeUASDatalink(d UASDatalink) []byte {
	var localSet []byte

	localSet = append(localSet, encodeItem(2, putUint64(uint64(d.TimestampUnixMicro)))...)
	if d.MissionID != "" {
		localSet = append(localSet, encodeItem(3, []byte(d.MissionID))...)
	}
	if d.TailNumber != "" {
		localSet = append(localSet, encodeItem(4, []byte(d.TailNumber))...)
	}
	if d.HasHeading {
		raw := uint16(normalizeDeg(d.HeadingDeg) * 65536.0 / 360.0)
		localSet = append(localSet, encodeItem(5, putUint16(raw))...)
	}
	if d.HasPosition {
		localSet = append(localSet, encodeItem(40, putInt32(encodeLatLonInt32(d.LatDeg, 90)))...)
		localSet = append(localSet, encodeItem(41, putInt32(encodeLatLonInt32(d.LonDeg, 180)))...)
		if d.HasElevation {
			elev := d.ElevationM
			if elev < 0 {
				elev = 0
			}
			if elev > 65535 {
				elev = 65535
			}
			localSet = append(localSet, encodeItem(42, putUint16(uint16(elev)))...)
		}
	}
	localSet = append(localSet, encodeItem(65, []byte{16})...)

	cs := checksum(append(append([]byte{}, UASDatalinkKey[:]...), localSet...))
	localSet = append(encodeItem(1, putUint16(cs)), localSet...)

	packet := append([]byte{}, UASDatalinkKey[:]...)
	packet = append(packet, encodeBERLength(len(localSet))...)
	packet = append(packet, localSet...)
	return packet
}

func normalizeDeg(v float64) float64 {
	v = mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v
}

func mod(a, b float64) float64 {
	m := a - float64(int64(a/b))*b
	return m
}

// DecodeUASDatalink parses an ST 0601 packet, verifying its checksum.
func DecodeUASDatalink(packet []byte) (UASDatalink, error) {
	if len(packet) < 16 {
		return UASDatalink{}, fmt.Errorf("%w: packet shorter than universal key", asterix.ErrShortItem)
	}
	var key [16]byte
	copy(key[:], packet[:16])
	if key != UASDatalinkKey {
		return UASDatalink{}, fmt.Errorf("klv: unrecognised universal key %x", key)
	}

	length, lenLen, err := decodeBERLength(packet[16:])
	if err != nil {
		return UASDatalink{}, err
	}
	start := 16 + lenLen
	end := start + length
	if end > len(packet) {
		return UASDatalink{}, fmt.Errorf("%w: local set truncated", asterix.ErrShortItem)
	}
	localSet := packet[start:end]

	if err := verifyChecksum(packet[:16], localSet); err != nil {
		return UASDatalink{}, err
	}

	var d UASDatalink
	offset := 0
	for offset < len(localSet) {
		key, value, consumed, err := decodeItem(localSet[offset:])
		if err != nil {
			return UASDatalink{}, err
		}
		switch key {
		case 2:
			if len(value) >= 8 {
				d.TimestampUnixMicro = int64(binary.BigEndian.Uint64(value))
			}
		case 3:
			d.MissionID = string(value)
		case 4:
			d.TailNumber = string(value)
		case 5:
			if len(value) >= 2 {
				raw := binary.BigEndian.Uint16(value)
				d.HeadingDeg = float64(raw) * 360.0 / 65536.0
				d.HasHeading = true
			}
		case 40:
			if len(value) >= 4 {
				raw := int32(binary.BigEndian.Uint32(value))
				d.LatDeg = decodeLatLonInt32(raw, 90)
				d.HasPosition = true
			}
		case 41:
			if len(value) >= 4 {
				raw := int32(binary.BigEndian.Uint32(value))
				d.LonDeg = decodeLatLonInt32(raw, 180)
			}
		case 42:
			if len(value) >= 2 {
				d.ElevationM = float64(binary.BigEndian.Uint16(value))
				d.HasElevation = true
			}
		}
		offset += consumed
	}
	return d, nil
}

// verifyChecksum locates the mandatory, first Checksum item (Key 1) in the
// local set and validates it against the checksum of the universal key
// followed by the rest of the local set (the BER length and the checksum
// item itself are not covered), matching the encoder's construction.
func verifyChecksum(universalKey []byte, localSet []byte) error {
	key, value, consumed, err := decodeItem(localSet)
	if err != nil {
		return err
	}
	if key != 1 || len(value) < 2 {
		return fmt.Errorf("klv: local set does not begin with a checksum item")
	}
	want := binary.BigEndian.Uint16(value)

	rest := localSet[consumed:]
	got := checksum(append(append([]byte{}, universalKey...), rest...))
	if got != want {
		return fmt.Errorf("%w: want %04x got %04x", asterix.ErrChecksumFailure, want, got)
	}
	return nil
}

// UASDatalinkFromTime seeds the timestamp field from a time.Time.
func UASDatalinkFromTime(d UASDatalink, t time.Time) UASDatalink {
	d.TimestampUnixMicro = t.UnixMicro()
	return d
}
