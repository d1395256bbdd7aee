package klv

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/kallerwest/trackfusion/asterix"
)

func sampleUASDatalink() UASDatalink {
	return UASDatalink{
		MissionID:    "TRACKFUSION",
		TailNumber:   "N12345",
		HeadingDeg:   92.3,
		HasHeading:   true,
		LatDeg:       28.1,
		LonDeg:       -80.7,
		HasPosition:  true,
		ElevationM:   1500,
		HasElevation: true,
	}
}

func TestUASDatalinkRoundTrip(t *testing.T) {
	d := UASDatalinkFromTime(sampleUASDatalink(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	packet := EncodeUASDatalink(d)

	if string(packet[:16]) != string(UASDatalinkKey[:]) {
		t.Fatalf("packet does not start with the UAS Datalink universal key")
	}

	decoded, err := DecodeUASDatalink(packet)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.MissionID != d.MissionID {
		t.Errorf("mission id mismatch: %q", decoded.MissionID)
	}
	if decoded.TailNumber != d.TailNumber {
		t.Errorf("tail number mismatch: %q", decoded.TailNumber)
	}
	if math.Abs(decoded.HeadingDeg-d.HeadingDeg) > 0.01 {
		t.Errorf("heading mismatch: %f", decoded.HeadingDeg)
	}
	if math.Abs(decoded.LatDeg-d.LatDeg) > 1e-6 {
		t.Errorf("lat mismatch: %f", decoded.LatDeg)
	}
	if math.Abs(decoded.LonDeg-d.LonDeg) > 1e-6 {
		t.Errorf("lon mismatch: %f", decoded.LonDeg)
	}
	if decoded.TimestampUnixMicro != d.TimestampUnixMicro {
		t.Errorf("timestamp mismatch: %d vs %d", decoded.TimestampUnixMicro, d.TimestampUnixMicro)
	}
}

// TestChecksumDetectsCorruption covers testable property #8: flipping any
// payload byte after the checksum item must trigger ChecksumFailure.
func TestChecksumDetectsCorruption(t *testing.T) {
	d := sampleUASDatalink()
	packet := EncodeUASDatalink(d)

	corrupted := append([]byte{}, packet...)
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err := DecodeUASDatalink(corrupted)
	if !errors.Is(err, asterix.ErrChecksumFailure) {
		t.Fatalf("expected ErrChecksumFailure, got %v", err)
	}
}

func TestChecksumSelfVerifies(t *testing.T) {
	packet := EncodeUASDatalink(sampleUASDatalink())
	if _, err := DecodeUASDatalink(packet); err != nil {
		t.Fatalf("freshly encoded packet must verify its own checksum: %v", err)
	}
}

// TestScenarioS6EncodesStraightLineTrack mirrors the S3 straight-line track
// at t=10s (1000m east of the station, 100 m/s, heading 090) through the
// ST 0601 encoder and checks the universal key, checksum, and Target
// Location Latitude/Longitude round-trip within 1e-6 degrees.
func TestScenarioS6EncodesStraightLineTrack(t *testing.T) {
	const stationLat = 28.1
	const lat = 28.1 // S3 track travels due east, latitude unchanged
	const lon = -80.688 // approx 1000m east at this latitude

	d := UASDatalink{
		LatDeg:       lat,
		LonDeg:       lon,
		HasPosition:  true,
		HeadingDeg:   90,
		HasHeading:   true,
		ElevationM:   0,
		HasElevation: true,
	}
	packet := EncodeUASDatalink(d)

	var key [16]byte
	copy(key[:], packet[:16])
	if key != UASDatalinkKey {
		t.Fatalf("expected UAS Datalink universal key, got %x", key)
	}

	decoded, err := DecodeUASDatalink(packet)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(decoded.LatDeg-lat) > 1e-6 {
		t.Errorf("target location latitude mismatch: %f", decoded.LatDeg)
	}
	if math.Abs(decoded.LonDeg-lon) > 1e-6 {
		t.Errorf("target location longitude mismatch: %f", decoded.LonDeg)
	}
	if math.Abs(decoded.HeadingDeg-90) > 0.01 {
		t.Errorf("heading mismatch: %f", decoded.HeadingDeg)
	}
	_ = stationLat
}

func TestVMTiRoundTrip(t *testing.T) {
	v := VMTi{
		SystemName:         "trackfusion",
		NumTargetsDetected: 2,
		NumTargetsReported: 1,
		FrameNumber:        42,
		SensorLatDeg:       28.0836,
		SensorLonDeg:       -80.6081,
		HasSensorPos:       true,
		SensorAltM:         120,
		HasSensorAlt:       true,
		Targets: []VMTiTarget{
			{
				LatDeg:       28.1,
				LonDeg:       -80.7,
				HasPosition:  true,
				ElevationM:   300,
				HasElevation: true,
				Priority:     1,
				Confidence:   87,
				VelNorthMS:   12.5,
				VelEastMS:    -3.25,
				HasVelocity:  true,
			},
		},
	}
	packet := EncodeST0902(v)

	var key [16]byte
	copy(key[:], packet[:16])
	if key != VMTiKey {
		t.Fatalf("expected VMTi universal key, got %x", key)
	}

	decoded, err := DecodeST0902(packet)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.SystemName != v.SystemName {
		t.Errorf("system name mismatch: %q", decoded.SystemName)
	}
	if decoded.FrameNumber != v.FrameNumber {
		t.Errorf("frame number mismatch: %d", decoded.FrameNumber)
	}
	if len(decoded.Targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(decoded.Targets))
	}
	got := decoded.Targets[0]
	if math.Abs(got.LatDeg-v.Targets[0].LatDeg) > 1e-6 {
		t.Errorf("target lat mismatch: %f", got.LatDeg)
	}
	if got.Confidence != v.Targets[0].Confidence {
		t.Errorf("confidence mismatch: %d", got.Confidence)
	}
	if math.Abs(got.VelNorthMS-v.Targets[0].VelNorthMS) > 0.02 {
		t.Errorf("velocity north mismatch: %f", got.VelNorthMS)
	}
}

func TestVMTiChecksumDetectsCorruption(t *testing.T) {
	packet := EncodeST0902(VMTi{SystemName: "x", NumTargetsDetected: 1, NumTargetsReported: 1})
	corrupted := append([]byte{}, packet...)
	corrupted[len(corrupted)-1] ^= 0xFF

	_, err := DecodeST0902(corrupted)
	if !errors.Is(err, asterix.ErrChecksumFailure) {
		t.Fatalf("expected ErrChecksumFailure, got %v", err)
	}
}
