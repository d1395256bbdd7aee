// klv/st0902.go
package klv

import (
	"encoding/binary"
	"fmt"

	"github.com/kallerwest/trackfusion/asterix"
)

// VMTiTarget is one nested target entry inside the VMTi Data Set (item 101).
type VMTiTarget struct {
	TargetID    int
	LatDeg      float64
	LonDeg      float64
	HasPosition bool
	ElevationM  float64
	HasElevation bool
	Priority    int
	Confidence  int // 0-100
	VelNorthMS  float64
	VelEastMS   float64
	HasVelocity bool
}

// VMTi is the subset of ST 0902 (VMTI Local Set) items this package encodes
// and decodes.
type VMTi struct {
	Checksum        uint16
	SensorLatDeg    float64
	SensorLonDeg    float64
	HasSensorPos    bool
	SensorAltM      float64
	HasSensorAlt    bool
	SystemName      string
	NumTargetsDetected int
	NumTargetsReported int
	FrameNumber     int
	Targets         []VMTiTarget
}

// EncodeST0902 builds a complete ST 0902 KLV packet.
func EncodeST0902(v VMTi) []byte {
	var localSet []byte

	if v.SystemName != "" {
		localSet = append(localSet, encodeItem(7, []byte(v.SystemName))...)
	}
	localSet = append(localSet, encodeItem(9, putUint16(uint16(v.NumTargetsDetected)))...)
	localSet = append(localSet, encodeItem(10, putUint16(uint16(v.NumTargetsReported)))...)
	localSet = append(localSet, encodeItem(11, putUint16(uint16(v.FrameNumber)))...)
	if v.HasSensorPos {
		localSet = append(localSet, encodeItem(14, putInt32(encodeLatLonInt32(v.SensorLatDeg, 90)))...)
		localSet = append(localSet, encodeItem(15, putInt32(encodeLatLonInt32(v.SensorLonDeg, 180)))...)
	}
	if v.HasSensorAlt {
		localSet = append(localSet, encodeItem(16, putUint16(uint16(v.SensorAltM)))...)
	}
	for _, target := range v.Targets {
		localSet = append(localSet, encodeItem(101, encodeVMTiTarget(target))...)
	}

	cs := checksum(append(append([]byte{}, VMTiKey[:]...), localSet...))
	localSet = append(encodeItem(1, putUint16(cs)), localSet...)

	packet := append([]byte{}, VMTiKey[:]...)
	packet = append(packet, encodeBERLength(len(localSet))...)
	packet = append(packet, localSet...)
	return packet
}

// encodeVMTiTarget assembles one nested target sub-local-set:
// lat/lon/elevation, priority, confidence and signed north/east velocity.
// TargetID is not encoded.
func encodeVMTiTarget(t VMTiTarget) []byte {
	var out []byte
	if t.HasPosition {
		out = append(out, encodeItem(5, putInt32(encodeLatLonInt32(t.LatDeg, 90)))...)
		out = append(out, encodeItem(6, putInt32(encodeLatLonInt32(t.LonDeg, 180)))...)
	}
	if t.HasElevation {
		out = append(out, encodeItem(7, putUint16(uint16(t.ElevationM)))...)
	}
	out = append(out, encodeItem(12, []byte{byte(t.Priority)})...)
	conf := t.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 100 {
		conf = 100
	}
	out = append(out, encodeItem(13, []byte{byte(conf)})...)
	if t.HasVelocity {
		out = append(out, encodeItem(19, putInt16(int16(t.VelNorthMS*100)))...)
		out = append(out, encodeItem(20, putInt16(int16(t.VelEastMS*100)))...)
	}
	return out
}

// DecodeST0902 parses an ST 0902 packet, verifying its checksum.
func DecodeST0902(packet []byte) (VMTi, error) {
	if len(packet) < 16 {
		return VMTi{}, fmt.Errorf("%w: packet shorter than universal key", asterix.ErrShortItem)
	}
	var key [16]byte
	copy(key[:], packet[:16])
	if key != VMTiKey {
		return VMTi{}, fmt.Errorf("klv: unrecognised universal key %x", key)
	}

	length, lenLen, err := decodeBERLength(packet[16:])
	if err != nil {
		return VMTi{}, err
	}
	start := 16 + lenLen
	end := start + length
	if end > len(packet) {
		return VMTi{}, fmt.Errorf("%w: local set truncated", asterix.ErrShortItem)
	}
	localSet := packet[start:end]

	if err := verifyChecksum(packet[:16], localSet); err != nil {
		return VMTi{}, err
	}

	var v VMTi
	offset := 0
	first := true
	for offset < len(localSet) {
		key, value, consumed, err := decodeItem(localSet[offset:])
		if err != nil {
			return VMTi{}, err
		}
		if first {
			if key == 1 && len(value) >= 2 {
				v.Checksum = binary.BigEndian.Uint16(value)
			}
			first = false
			offset += consumed
			continue
		}
		switch key {
		case 7:
			v.SystemName = string(value)
		case 9:
			if len(value) >= 2 {
				v.NumTargetsDetected = int(binary.BigEndian.Uint16(value))
			}
		case 10:
			if len(value) >= 2 {
				v.NumTargetsReported = int(binary.BigEndian.Uint16(value))
			}
		case 11:
			if len(value) >= 2 {
				v.FrameNumber = int(binary.BigEndian.Uint16(value))
			}
		case 14:
			if len(value) >= 4 {
				raw := int32(binary.BigEndian.Uint32(value))
				v.SensorLatDeg = decodeLatLonInt32(raw, 90)
				v.HasSensorPos = true
			}
		case 15:
			if len(value) >= 4 {
				raw := int32(binary.BigEndian.Uint32(value))
				v.SensorLonDeg = decodeLatLonInt32(raw, 180)
			}
		case 16:
			if len(value) >= 2 {
				v.SensorAltM = float64(binary.BigEndian.Uint16(value))
				v.HasSensorAlt = true
			}
		case 101:
			target, err := decodeVMTiTarget(value)
			if err != nil {
				return VMTi{}, err
			}
			v.Targets = append(v.Targets, target)
		}
		offset += consumed
	}
	return v, nil
}

func decodeVMTiTarget(data []byte) (VMTiTarget, error) {
	var t VMTiTarget
	offset := 0
	for offset < len(data) {
		key, value, consumed, err := decodeItem(data[offset:])
		if err != nil {
			return VMTiTarget{}, err
		}
		switch key {
		case 5:
			if len(value) >= 4 {
				raw := int32(binary.BigEndian.Uint32(value))
				t.LatDeg = decodeLatLonInt32(raw, 90)
				t.HasPosition = true
			}
		case 6:
			if len(value) >= 4 {
				raw := int32(binary.BigEndian.Uint32(value))
				t.LonDeg = decodeLatLonInt32(raw, 180)
			}
		case 7:
			if len(value) >= 2 {
				t.ElevationM = float64(binary.BigEndian.Uint16(value))
				t.HasElevation = true
			}
		case 12:
			if len(value) >= 1 {
				t.Priority = int(value[0])
			}
		case 13:
			if len(value) >= 1 {
				t.Confidence = int(value[0])
			}
		case 19:
			if len(value) >= 2 {
				t.VelNorthMS = float64(int16(binary.BigEndian.Uint16(value))) / 100
				t.HasVelocity = true
			}
		case 20:
			if len(value) >= 2 {
				t.VelEastMS = float64(int16(binary.BigEndian.Uint16(value))) / 100
			}
		}
		offset += consumed
	}
	return t, nil
}
