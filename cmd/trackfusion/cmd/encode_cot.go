// cmd/trackfusion/cmd/encode_cot.go
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kallerwest/trackfusion/cot"
	"github.com/kallerwest/trackfusion/plot"
	"github.com/kallerwest/trackfusion/track"
	"github.com/spf13/cobra"
)

func init() {
	encodeCotCmd := &cobra.Command{
		Use:   "encode-cot FILE",
		Short: "Encode decoded plots as Cursor on Target XML",
		Long: `Read FILE as a JSON array of plots (as produced by "decode") and emit
a CoT <events> batch, one event per plot, to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: runEncodeCot,
	}
	rootCmd.AddCommand(encodeCotCmd)
}

func runEncodeCot(cmd *cobra.Command, args []string) error {
	logger := ConfigureLogger(Verbose, JSONLogs)

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return exitError{code: 1, err: fmt.Errorf("reading %s: %w", args[0], err)}
	}

	var plots []*plot.Plot
	if err := json.Unmarshal(raw, &plots); err != nil {
		return exitError{code: 1, err: fmt.Errorf("parsing %s as plot JSON: %w", args[0], err)}
	}

	now := time.Now().UTC()
	items := make([]cot.BatchItem, 0, len(plots))
	for _, p := range plots {
		items = append(items, cot.BatchItem{
			Snapshot: plotSnapshot(p),
			LatDeg:   p.LatDeg,
			LonDeg:   p.LonDeg,
			Options:  plotCotOptions(p),
		})
	}

	data, err := cot.EncodeBatchXML(items, now)
	if err != nil {
		return exitError{code: 1, err: fmt.Errorf("encoding CoT batch: %w", err)}
	}
	logger.Debug("encoded CoT batch", "events", len(items))

	if _, err := os.Stdout.Write(data); err != nil {
		return exitError{code: 1, err: fmt.Errorf("writing CoT output: %w", err)}
	}
	return nil
}

// plotSnapshot adapts a single decoded plot into the minimal Snapshot shape
// the CoT encoder needs, since a standalone plot has not yet been through
// the associator/estimator.
func plotSnapshot(p *plot.Plot) track.Snapshot {
	speed := 0.0
	if p.DopplerVelocityMS != nil {
		speed = *p.DopplerVelocityMS
	}
	return track.Snapshot{
		TrackID:    p.PlotID,
		SpeedMS:    speed,
		HeadingDeg: p.AzimuthDeg,
		HasHeading: true,
		AltitudeFt: p.AltitudeFt,
		Callsign:   p.Callsign,
		PlotCount:  1,
	}
}

func plotCotOptions(p *plot.Plot) cot.Options {
	switch p.SensorType {
	case plot.SensorADSB:
		return cot.Options{TrackType: cot.Aircraft, IsADSB: true, ICAO24: p.AircraftAddress, Squawk: p.Squawk}
	default:
		return cot.Options{TrackType: cot.Aircraft}
	}
}
