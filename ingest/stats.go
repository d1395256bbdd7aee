// ingest/stats.go
package ingest

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kallerwest/trackfusion/plot"
)

// Stats tracks per-process counters for observability, mirroring the
// decoder's drop counters alongside per-category plot throughput.
type Stats struct {
	TotalPlots int
	Cat010     int
	Cat021     int
	Cat048     int
	StartTime  time.Time
}

// NewStats creates a Stats struct with its clock started now.
func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Observe records a decoded plot batch.
func (s *Stats) Observe(plots []*plot.Plot) {
	for _, p := range plots {
		s.TotalPlots++
		switch p.SensorType {
		case plot.SensorRadar:
			s.Cat048++
		case plot.SensorADSB:
			s.Cat021++
		default:
			s.Cat010++
		}
	}
}

// Log emits the current counters through logger, including the decoder's
// own drop accounting.
func (s *Stats) Log(logger *slog.Logger, drops plot.DropCounters, final bool) {
	duration := time.Since(s.StartTime)
	var rate float64
	if duration.Seconds() > 0 {
		rate = float64(s.TotalPlots) / duration.Seconds()
	}

	level := "Statistics"
	if final {
		level = "Final statistics"
	}

	logger.Info(level,
		"duration", duration.Round(time.Second).String(),
		"total_plots", s.TotalPlots,
		"cat010", s.Cat010,
		"cat021", s.Cat021,
		"cat048", s.Cat048,
		"rate", fmt.Sprintf("%.1f plots/s", rate),
		"malformed_frames", drops.MalformedFrames,
		"unsupported_category_drops", drops.UnsupportedCatDrops,
		"short_item_records", drops.ShortItemRecords,
		"out_of_range_fields", drops.OutOfRangeFields,
	)
}
