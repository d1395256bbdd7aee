package plot

import (
	"testing"

	"github.com/kallerwest/trackfusion/asterix"
	"github.com/kallerwest/trackfusion/cat/cat048"
	v132 "github.com/kallerwest/trackfusion/cat/cat048/dataitems/v132"
	common "github.com/kallerwest/trackfusion/cat/common/dataitems"
	"github.com/kallerwest/trackfusion/geo"
)

func defaultOrigin() geo.Origin {
	return geo.Origin{LatDeg: 28.0836, LonDeg: -80.6081}
}

func encodeCat048Block(t *testing.T, items map[string]asterix.DataItem) []byte {
	t.Helper()

	uap, err := cat048.NewUAP(cat048.LatestVersion())
	if err != nil {
		t.Fatalf("creating CAT048 UAP: %v", err)
	}

	db, err := asterix.NewDataBlock(asterix.Cat048, uap)
	if err != nil {
		t.Fatalf("creating data block: %v", err)
	}
	if err := db.EncodeRecord(items); err != nil {
		t.Fatalf("encoding record: %v", err)
	}

	data, err := db.Encode()
	if err != nil {
		t.Fatalf("encoding block: %v", err)
	}
	return data
}

func TestDecodeCat048PolarPlot(t *testing.T) {
	items := map[string]asterix.DataItem{
		"I048/010": &common.DataSourceIdentifier{SAC: 1, SIC: 2},
		"I048/140": &v132.TimeOfDay{Time: 3600},
		"I048/020": &v132.TargetReportDescriptor{TYP: 1},
		"I048/040": &v132.MeasuredPosition{RHO: 10.5, THETA: 90.0},
		"I048/070": &v132.Mode3ACode{Code: 1234},
	}

	block := encodeCat048Block(t, items)

	dec, err := NewDecoder(defaultOrigin(), nil)
	if err != nil {
		t.Fatalf("creating decoder: %v", err)
	}

	plots, err := dec.Decode(block)
	if err != nil {
		t.Fatalf("decoding block: %v", err)
	}
	if len(plots) != 1 {
		t.Fatalf("got %d plots, want 1", len(plots))
	}

	p := plots[0]
	if diff := p.RangeM - 10.5*1852.0; diff > 1 || diff < -1 {
		t.Errorf("range_m = %v, want ~%v", p.RangeM, 10.5*1852.0)
	}
	if diff := p.AzimuthDeg - 90.0; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("azimuth_deg = %v, want 90", p.AzimuthDeg)
	}
	if p.Mode3AOctal != "1234" {
		t.Errorf("mode_3a_octal = %q, want 1234", p.Mode3AOctal)
	}
	if diff := p.LatDeg - 28.0836; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("lat = %v, want ~28.0836", p.LatDeg)
	}
	if diff := p.LonDeg - (-80.455); diff > 1e-3 || diff < -1e-3 {
		t.Errorf("lon = %v, want ~-80.455", p.LonDeg)
	}
}

func TestDecodeUnsupportedCategoryDropped(t *testing.T) {
	payload := []byte{62, 0, 4, 0xFF}

	dec, err := NewDecoder(defaultOrigin(), nil)
	if err != nil {
		t.Fatalf("creating decoder: %v", err)
	}

	plots, err := dec.Decode(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plots) != 0 {
		t.Errorf("got %d plots, want 0", len(plots))
	}
	if dec.Counts.UnsupportedCatDrops != 1 {
		t.Errorf("UnsupportedCatDrops = %d, want 1", dec.Counts.UnsupportedCatDrops)
	}
}

func TestDecodeMalformedFrameRejected(t *testing.T) {
	payload := []byte{48, 0, 200, 1, 2, 3}

	dec, err := NewDecoder(defaultOrigin(), nil)
	if err != nil {
		t.Fatalf("creating decoder: %v", err)
	}

	_, err = dec.Decode(payload)
	if err == nil {
		t.Fatal("expected malformed frame error")
	}
	if dec.Counts.MalformedFrames != 1 {
		t.Errorf("MalformedFrames = %d, want 1", dec.Counts.MalformedFrames)
	}
}
