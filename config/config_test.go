package config

import (
	"errors"
	"testing"

	"github.com/kallerwest/trackfusion/asterix"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.StationLat != 28.0836 || cfg.StationLon != -80.6081 {
		t.Errorf("unexpected default station origin: %f,%f", cfg.StationLat, cfg.StationLon)
	}
	if cfg.TrackTerminationThreshold <= cfg.CoastingThreshold {
		t.Errorf("termination threshold must exceed coasting threshold")
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg, _ := Load("")
	cfg.Port = 0
	err := cfg.Validate()
	if !errors.Is(err, asterix.ErrConfigError) {
		t.Fatalf("expected ErrConfigError, got %v", err)
	}
}

func TestValidateRejectsInvertedThresholds(t *testing.T) {
	cfg, _ := Load("")
	cfg.CoastingThreshold = 10
	cfg.TrackTerminationThreshold = 5
	if err := cfg.Validate(); !errors.Is(err, asterix.ErrConfigError) {
		t.Fatalf("expected ErrConfigError, got %v", err)
	}
}
