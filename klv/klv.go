// klv/klv.go
package klv

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/kallerwest/trackfusion/asterix"
)

// UASDatalinkKey and VMTiKey are the 16-byte Universal Keys recognised by
// the decoder.
var (
	UASDatalinkKey = [16]byte{0x06, 0x0E, 0x2B, 0x34, 0x02, 0x0B, 0x01, 0x01, 0x0E, 0x01, 0x03, 0x01, 0x01, 0x00, 0x00, 0x00}
	VMTiKey        = [16]byte{0x06, 0x0E, 0x2B, 0x34, 0x02, 0x0B, 0x01, 0x01, 0x0E, 0x01, 0x03, 0x03, 0x06, 0x00, 0x00, 0x00}
)

// encodeBEROID encodes a Local Set key using BER-OID continuation encoding.
func encodeBEROID(key int) []byte {
	if key <= 127 {
		return []byte{byte(key)}
	}
	var out []byte
	temp := key
	out = append(out, byte(temp&0x7F))
	temp >>= 7
	for temp > 0 {
		out = append([]byte{byte(temp&0x7F) | 0x80}, out...)
		temp >>= 7
	}
	return out
}

// decodeBEROID decodes a BER-OID key, returning the key and bytes consumed.
func decodeBEROID(data []byte) (int, int, error) {
	key := 0
	offset := 0
	for offset < len(data) {
		b := data[offset]
		key = (key << 7) | int(b&0x7F)
		offset++
		if b&0x80 == 0 {
			return key, offset, nil
		}
	}
	return 0, 0, fmt.Errorf("klv: truncated BER-OID key")
}

// encodeBERLength encodes a length using BER short/long form.
func encodeBERLength(length int) []byte {
	if length <= 127 {
		return []byte{byte(length)}
	}
	var bytesOut []byte
	temp := length
	for temp > 0 {
		bytesOut = append([]byte{byte(temp & 0xFF)}, bytesOut...)
		temp >>= 8
	}
	return append([]byte{0x80 | byte(len(bytesOut))}, bytesOut...)
}

// decodeBERLength decodes a BER length, returning the length and bytes
// consumed.
func decodeBERLength(data []byte) (int, int, error) {
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("klv: empty length field")
	}
	if data[0] <= 127 {
		return int(data[0]), 1, nil
	}
	numOctets := int(data[0] & 0x7F)
	if numOctets == 0 {
		return 0, 0, fmt.Errorf("klv: indefinite length not supported")
	}
	if len(data) < 1+numOctets {
		return 0, 0, fmt.Errorf("%w: truncated BER length", asterix.ErrShortItem)
	}
	length := 0
	for i := 1; i <= numOctets; i++ {
		length = (length << 8) | int(data[i])
	}
	return length, numOctets + 1, nil
}

// encodeItem encodes one Local Set element as BER-OID key, BER length and
// value, concatenated in that order.
func encodeItem(key int, value []byte) []byte {
	out := encodeBEROID(key)
	out = append(out, encodeBERLength(len(value))...)
	out = append(out, value...)
	return out
}

// decodeItem decodes one Local Set element, returning the key, value, and
// total bytes consumed.
func decodeItem(data []byte) (key int, value []byte, consumed int, err error) {
	key, keyLen, err := decodeBEROID(data)
	if err != nil {
		return 0, nil, 0, err
	}
	if keyLen >= len(data) {
		return 0, nil, 0, fmt.Errorf("%w: truncated KLV item after key", asterix.ErrShortItem)
	}
	length, lenLen, err := decodeBERLength(data[keyLen:])
	if err != nil {
		return 0, nil, 0, err
	}
	start := keyLen + lenLen
	end := start + length
	if end > len(data) {
		return 0, nil, 0, fmt.Errorf("%w: truncated KLV item value", asterix.ErrShortItem)
	}
	return key, data[start:end], end, nil
}

// checksum computes the MISB ST 0601/0902 16-bit checksum: the
// sum of 16-bit big-endian words, subtracted from 0x10000, mod 0x10000.
func checksum(data []byte) uint16 {
	var sum uint32
	for i := 0; i < len(data); i += 2 {
		var word uint32
		if i+1 < len(data) {
			word = uint32(data[i])<<8 | uint32(data[i+1])
		} else {
			word = uint32(data[i]) << 8
		}
		sum = (sum + word) & 0xFFFF
	}
	return uint16((0x10000 - sum) & 0xFFFF)
}

// encodeLatLonInt32 scales a lat/lon degree value to the ST 0601/0902
// signed-32-bit representation, raw = value * (2^31 - 1) / scale.
func encodeLatLonInt32(valueDeg, scaleDeg float64) int32 {
	return int32(math.Round(valueDeg * float64(int64(1)<<31-1) / scaleDeg))
}

func decodeLatLonInt32(raw int32, scaleDeg float64) float64 {
	return float64(raw) * scaleDeg / float64(int64(1)<<31-1)
}

func putUint16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func putUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func putUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func putInt16(v int16) []byte { return putUint16(uint16(v)) }
func putInt32(v int32) []byte { return putUint32(uint32(v)) }
