// config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/kallerwest/trackfusion/asterix"
	"github.com/kallerwest/trackfusion/geo"
	"github.com/kallerwest/trackfusion/track"
)

// Config is the fully-resolved, validated configuration for one pipeline
// process: station origin, association/estimation/lifecycle tuning, and
// ingress settings.
type Config struct {
	Host string
	Port int

	StationLat float64
	StationLon float64

	PDAGateThreshold        float64
	PDAEnabled              bool
	ClutterDensity          float64
	MaxAssociationDistanceM float64

	TrackConfirmationThreshold int
	CoastingThreshold          int
	TrackTerminationThreshold  int

	MinSpeedThreshold float64
	MaxSpeedThreshold float64

	ProcessNoiseStd      float64
	MeasurementNoiseStd  float64
	AccelerationNoiseStd float64
	ManeuverThresholdG   float64

	SensorFusionEnabled    bool
	SensorTimeThresholdSec float64

	PositionWeight float64
	CourseWeight   float64

	ArchiveCapacity int
}

// Load reads configuration from the given file path (if non-empty),
// environment variables prefixed TRACKFUSION_, and defaults, in that order
// of increasing precedence for env over file, and returns a validated
// Config.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TRACKFUSION")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: reading config file %s: %v", asterix.ErrConfigError, path, err)
		}
	}

	cfg := Config{
		Host:                       v.GetString("host"),
		Port:                       v.GetInt("port"),
		StationLat:                 v.GetFloat64("station_lat"),
		StationLon:                 v.GetFloat64("station_lon"),
		PDAGateThreshold:           v.GetFloat64("pda_gate_threshold"),
		PDAEnabled:                 v.GetBool("pda_enabled"),
		ClutterDensity:             v.GetFloat64("clutter_density"),
		MaxAssociationDistanceM:    v.GetFloat64("max_association_distance"),
		TrackConfirmationThreshold: v.GetInt("track_confirmation_threshold"),
		CoastingThreshold:          v.GetInt("coasting_threshold"),
		TrackTerminationThreshold:  v.GetInt("track_termination_threshold"),
		MinSpeedThreshold:          v.GetFloat64("min_speed_threshold"),
		MaxSpeedThreshold:          v.GetFloat64("max_speed_threshold"),
		ProcessNoiseStd:            v.GetFloat64("process_noise_std"),
		MeasurementNoiseStd:        v.GetFloat64("measurement_noise_std"),
		AccelerationNoiseStd:       v.GetFloat64("acceleration_noise_std"),
		ManeuverThresholdG:         v.GetFloat64("maneuver_threshold"),
		SensorFusionEnabled:        v.GetBool("sensor_fusion_enabled"),
		SensorTimeThresholdSec:     v.GetFloat64("sensor_time_threshold"),
		PositionWeight:             v.GetFloat64("position_weight"),
		CourseWeight:               v.GetFloat64("course_weight"),
		ArchiveCapacity:            v.GetInt("archive_capacity"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults installs every default named in the configuration surface.
// Two Open Questions in the source material left conflicting defaults for
// coasting_threshold (3 vs 8) and track_termination_threshold (5 vs 15);
// both are resolved here to the more conservative (larger) value, and
// remain fully overridable.
func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)

	v.SetDefault("station_lat", 28.0836)
	v.SetDefault("station_lon", -80.6081)

	v.SetDefault("pda_gate_threshold", 15.0)
	v.SetDefault("pda_enabled", true)
	v.SetDefault("clutter_density", 1e-7)
	v.SetDefault("max_association_distance", 10000.0)

	v.SetDefault("track_confirmation_threshold", 3)
	v.SetDefault("coasting_threshold", 8)
	v.SetDefault("track_termination_threshold", 15)

	v.SetDefault("min_speed_threshold", 2.0)
	v.SetDefault("max_speed_threshold", 400.0)

	v.SetDefault("process_noise_std", 10.0)
	v.SetDefault("measurement_noise_std", 20.0)
	v.SetDefault("acceleration_noise_std", 2.0)
	v.SetDefault("maneuver_threshold", 1.5)

	v.SetDefault("sensor_fusion_enabled", true)
	v.SetDefault("sensor_time_threshold", 10.0)

	v.SetDefault("position_weight", 0.3)
	v.SetDefault("course_weight", 0.7)

	v.SetDefault("archive_capacity", 500)
}

// Validate checks the configuration's invariants, returning ErrConfigError
// wrapped with the offending field on failure.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", asterix.ErrConfigError, c.Port)
	}
	if c.StationLat < -90 || c.StationLat > 90 {
		return fmt.Errorf("%w: station_lat %f out of range", asterix.ErrConfigError, c.StationLat)
	}
	if c.StationLon < -180 || c.StationLon > 180 {
		return fmt.Errorf("%w: station_lon %f out of range", asterix.ErrConfigError, c.StationLon)
	}
	if c.PDAGateThreshold <= 0 {
		return fmt.Errorf("%w: pda_gate_threshold must be positive", asterix.ErrConfigError)
	}
	if c.TrackConfirmationThreshold <= 0 {
		return fmt.Errorf("%w: track_confirmation_threshold must be positive", asterix.ErrConfigError)
	}
	if c.CoastingThreshold <= 0 || c.TrackTerminationThreshold <= c.CoastingThreshold {
		return fmt.Errorf("%w: track_termination_threshold must exceed coasting_threshold", asterix.ErrConfigError)
	}
	if c.MinSpeedThreshold < 0 || c.MaxSpeedThreshold <= c.MinSpeedThreshold {
		return fmt.Errorf("%w: speed thresholds invalid", asterix.ErrConfigError)
	}
	if c.ProcessNoiseStd <= 0 || c.MeasurementNoiseStd <= 0 {
		return fmt.Errorf("%w: noise parameters must be positive", asterix.ErrConfigError)
	}
	if c.ArchiveCapacity <= 0 {
		return fmt.Errorf("%w: archive_capacity must be positive", asterix.ErrConfigError)
	}
	return nil
}

// Origin returns the configured station origin for the polar→WGS-84
// transform.
func (c Config) Origin() geo.Origin {
	return geo.Origin{LatDeg: c.StationLat, LonDeg: c.StationLon}
}

// TrackConfig adapts the flat configuration into the estimator's own
// nested configuration shape.
func (c Config) TrackConfig() track.Config {
	return track.Config{
		Origin: c.Origin(),
		Associator: track.AssociatorConfig{
			PDAGateThreshold:        c.PDAGateThreshold,
			PDAEnabled:              c.PDAEnabled,
			ClutterDensity:          c.ClutterDensity,
			MaxAssociationDistanceM: c.MaxAssociationDistanceM,
			SensorTimeThresholdSec:  c.SensorTimeThresholdSec,
		},
		Estimator: track.EstimatorConfig{
			ProcessNoiseStd:      c.ProcessNoiseStd,
			AccelerationNoiseStd: c.AccelerationNoiseStd,
			MeasurementNoiseStd:  c.MeasurementNoiseStd,
			ManeuverThresholdG:   c.ManeuverThresholdG,
		},
		Lifecycle: track.LifecycleConfig{
			ConfirmationThreshold: c.TrackConfirmationThreshold,
			CoastingThreshold:     c.CoastingThreshold,
			TerminationThreshold:  c.TrackTerminationThreshold,
			MinSpeedThreshold:     c.MinSpeedThreshold,
			MaxSpeedThreshold:     c.MaxSpeedThreshold,
		},
		ArchiveSize: c.ArchiveCapacity,
	}
}
