package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/tickwatch/internal/stopwatch"
	"github.com/zjrosen/tickwatch/internal/ui/styles"
)

var (
	runFor    time.Duration
	runReport time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the stopwatch without the interactive display",
	Long: `Start the stopwatch immediately and print elapsed time at a fixed
interval. The clock stops after --for, or on interrupt when --for is 0,
and the final elapsed time is printed.`,
	Args: cobra.NoArgs,
	RunE: runHeadless,
}

func init() {
	runCmd.Flags().DurationVar(&runFor, "for", 0, "stop after this long (0 runs until interrupted)")
	runCmd.Flags().DurationVar(&runReport, "report", time.Second, "how often to print elapsed time (0 disables)")
	rootCmd.AddCommand(runCmd)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if runFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runFor)
		defer cancel()
	}

	dispatcher, worker := newCues(cfg)
	if worker != nil {
		defer worker.Close()
	}

	sw := stopwatch.NewSynchronized(stopwatch.New(stopwatch.Config{
		Cues:        dispatcher,
		CueDuration: cfg.Cue.Duration,
	}))
	runner := stopwatch.NewRunner(sw, stopwatch.RunnerConfig{Interval: cfg.Poll.Interval})

	out := cmd.OutOrStdout()
	precision := cfg.Display.Precision

	sw.Start()
	runner.Start(ctx)

	var report <-chan time.Time
	if runReport > 0 {
		ticker := time.NewTicker(runReport)
		defer ticker.Stop()
		report = ticker.C
	}

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-report:
			fmt.Fprintln(out, styles.FormatElapsed(sw.Snapshot().Elapsed, precision))
		}
	}

	runner.Stop()
	sw.Stop()
	fmt.Fprintf(out, "final %s\n", styles.FormatElapsed(sw.Poll(), precision))
	return nil
}
