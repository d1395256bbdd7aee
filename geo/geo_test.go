package geo

import "testing"

func TestPolarToWGS84ZeroRange(t *testing.T) {
	origin := Origin{LatDeg: 28.0836, LonDeg: -80.6081}
	lat, lon := PolarToWGS84(origin, 0, 45)
	if diff := lat - origin.LatDeg; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("lat = %v, want %v within 1e-9", lat, origin.LatDeg)
	}
	if diff := lon - origin.LonDeg; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("lon = %v, want %v within 1e-9", lon, origin.LonDeg)
	}
}

func TestPolarWGS84RoundTrip(t *testing.T) {
	origin := Origin{LatDeg: 28.0836, LonDeg: -80.6081}
	cases := []struct {
		rangeNM, azimuthDeg float64
	}{
		{10.5, 90},
		{1.0, 0},
		{50.0, 270},
		{0.01, 359.9},
	}

	for _, c := range cases {
		lat, lon := PolarToWGS84(origin, c.rangeNM, c.azimuthDeg)
		gotRange, gotAzimuth := WGS84ToPolar(origin, lat, lon)

		if diff := gotRange - c.rangeNM; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("range round-trip: got %v, want %v", gotRange, c.rangeNM)
		}
		if diff := gotAzimuth - c.azimuthDeg; diff > 1e-4 || diff < -1e-4 {
			t.Errorf("azimuth round-trip: got %v, want %v", gotAzimuth, c.azimuthDeg)
		}
	}
}

func TestS1KnownPosition(t *testing.T) {
	origin := Origin{LatDeg: 28.0836, LonDeg: -80.6081}
	lat, lon := PolarToWGS84(origin, 10.5, 90)

	if diff := lat - 28.0836; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("lat = %v, want ~28.0836", lat)
	}
	if diff := lon - (-80.455); diff > 1e-3 || diff < -1e-3 {
		t.Errorf("lon = %v, want ~-80.455", lon)
	}
}
