// cmd/trackfusion/cmd/encode_klv.go
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kallerwest/trackfusion/klv"
	"github.com/kallerwest/trackfusion/plot"
	"github.com/spf13/cobra"
)

func init() {
	encodeKlvCmd := &cobra.Command{
		Use:   "encode-klv FILE",
		Short: "Encode decoded plots as MISB ST 0601 KLV packets",
		Long: `Read FILE as a JSON array of plots (as produced by "decode") and emit
one ST 0601 UAS Datalink KLV packet per plot, concatenated, to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: runEncodeKlv,
	}
	rootCmd.AddCommand(encodeKlvCmd)
}

func runEncodeKlv(cmd *cobra.Command, args []string) error {
	logger := ConfigureLogger(Verbose, JSONLogs)

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return exitError{code: 1, err: fmt.Errorf("reading %s: %w", args[0], err)}
	}

	var plots []*plot.Plot
	if err := json.Unmarshal(raw, &plots); err != nil {
		return exitError{code: 1, err: fmt.Errorf("parsing %s as plot JSON: %w", args[0], err)}
	}

	var out []byte
	for _, p := range plots {
		d := plotUASDatalink(p)
		out = append(out, klv.EncodeUASDatalink(d)...)
	}
	logger.Debug("encoded KLV packets", "count", len(plots), "bytes", len(out))

	if _, err := os.Stdout.Write(out); err != nil {
		return exitError{code: 1, err: fmt.Errorf("writing KLV output: %w", err)}
	}
	return nil
}

func plotUASDatalink(p *plot.Plot) klv.UASDatalink {
	d := klv.UASDatalink{
		MissionID:   p.SensorID,
		TailNumber:  p.AircraftAddress,
		HeadingDeg:  p.AzimuthDeg,
		HasHeading:  true,
		LatDeg:      p.LatDeg,
		LonDeg:      p.LonDeg,
		HasPosition: true,
	}
	if p.AltitudeFt != nil {
		d.ElevationM = *p.AltitudeFt * 0.3048
		d.HasElevation = true
	}
	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return klv.UASDatalinkFromTime(d, ts)
}
