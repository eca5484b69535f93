package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/simwire/bridge"
	"github.com/teranos/simwire/extract"
	"github.com/teranos/simwire/logger"
	"github.com/teranos/simwire/sink"
	"github.com/teranos/simwire/throttle"
)

// RunCmd starts the bridge in the foreground.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the telemetry bridge",
	Long: `Start the bridge in foreground mode.

The bridge will:
- Verify sink connectivity (fail fast with exit code 1)
- Poll the configured text source for new serial output
- Extract JSON telemetry records from the stream
- Deliver records to the sink, capped at the configured send rate
- Run until interrupted (Ctrl+C), then print session statistics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := validatedConfig(cmd)
		if err != nil {
			return err
		}
		cfg.PrintSummary()

		limiter, err := throttle.New(cfg.Bridge.MaxSendHz)
		if err != nil {
			return err
		}

		src, err := buildSource(cmd, cfg)
		if err != nil {
			return err
		}

		pipeline := bridge.New(cfg, src, extract.New(), limiter, sink.New(cfg.Sink))

		// Cooperative cancellation: the first interrupt stops the loop
		// between ticks; an in-flight send finishes within its timeout.
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			pterm.Info.Println("Stopping bridge...")
			cancel()
		}()

		defer logger.Sync()

		if err := pipeline.Run(ctx); err != nil {
			return err
		}
		pterm.Success.Println("Bridge stopped cleanly")
		return nil
	},
}
