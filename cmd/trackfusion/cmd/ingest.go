// cmd/trackfusion/cmd/ingest.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kallerwest/trackfusion/ingest"
	"github.com/kallerwest/trackfusion/plot"
	"github.com/kallerwest/trackfusion/track"
	"github.com/spf13/cobra"
)

var (
	ingestStatsEvery int
	ingestTimeout    int
)

func init() {
	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Start the UDP ingest pipeline and track estimator",
		Long: `Listen for ASTERIX CAT010/021/048 datagrams, associate plots into
tracks, and run them through the configured lifecycle. Runs until
interrupted (SIGINT/SIGTERM) or --timeout elapses.`,
		RunE: runIngest,
	}
	ingestCmd.Flags().IntVar(&ingestStatsEvery, "stats", 0, "Print stats every N seconds (0 = no stats)")
	ingestCmd.Flags().IntVar(&ingestTimeout, "timeout", 0, "Timeout in seconds (0 = no timeout)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	logger := ConfigureLogger(Verbose, JSONLogs)

	cfg, err := loadConfig(logger)
	if err != nil {
		return exitError{code: 2, err: err}
	}

	decoder, err := plot.NewDecoder(cfg.Origin(), logger)
	if err != nil {
		return exitError{code: 1, err: fmt.Errorf("initializing plot decoder: %w", err)}
	}
	estimator := track.NewEstimator(cfg.TrackConfig())

	liveStats := ingest.NewStats()
	onUpdate := func(snaps []track.Snapshot) {}

	pipeline, err := ingest.NewPipeline(cfg.Host, cfg.Port, decoder, estimator, logger, onUpdate)
	if err != nil {
		return exitError{code: 1, err: fmt.Errorf("starting ingest pipeline: %w", err)}
	}
	pipeline.OnBatch(liveStats.Observe)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if ingestTimeout > 0 {
		go func() {
			select {
			case <-time.After(time.Duration(ingestTimeout) * time.Second):
				logger.Info("timeout reached, initiating shutdown", "timeout_seconds", ingestTimeout)
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	if ingestStatsEvery > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(ingestStatsEvery) * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					liveStats.Log(logger, decoder.Counts, false)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	runErr := make(chan error, 1)
	go func() { runErr <- pipeline.Run(ctx) }()

	var result error
	select {
	case <-sigCh:
		logger.Info("received shutdown signal, terminating")
		cancel()
		select {
		case err := <-runErr:
			result = err
		case <-time.After(2 * time.Second):
			logger.Info("forced shutdown after timeout")
		}
	case err := <-runErr:
		result = err
	}

	liveStats.Log(logger, decoder.Counts, true)
	if result != nil {
		return exitError{code: 1, err: result}
	}
	return nil
}

// exitError tags an error with the process exit code it should produce,
// per the CLI's 0/1/2 convention.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) Unwrap() error { return e.err }

var _ error = exitError{}
