package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docgen-cli/internal/core/domain"
	"github.com/custodia-labs/docgen-cli/internal/logger"
)

var debounceFlag time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate documentation whenever a source file changes",
	Long: `Run a full generation, then watch the source root and regenerate after
every burst of changes to .py files. New directories are picked up
automatically.

Runs until interrupted with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&debounceFlag, "debounce", 300*time.Millisecond,
		"quiet period after the last change before regenerating")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	rt, err := prepare(cmd, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	regenerate := func() error {
		report, err := rt.generator.Generate(ctx)
		if err != nil {
			return err
		}
		return printRunReport(cmd, report, false)
	}
	if err := regenerate(); err != nil {
		return err
	}

	changes, err := rt.tree.Watch(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s for changes. Press Ctrl+C to stop.\n", rt.tree.Root())

	return watchLoop(ctx, changes, debounceFlag, regenerate)
}

// watchLoop calls run once changes have been quiet for delay. It returns
// when ctx is done or the change channel is closed. Errors from run are
// logged and do not stop the loop.
func watchLoop(ctx context.Context, changes <-chan domain.SourceChange, delay time.Duration, run func() error) error {
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Info("%s: %s", change.Type, change.Path)
			timer.Reset(delay)
			fire = timer.C
		case <-fire:
			fire = nil
			if err := run(); err != nil {
				logger.Warn("regenerate: %v", err)
			}
		}
	}
}
