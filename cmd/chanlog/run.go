package main

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"go.jacobcolvin.com/chanlog"
)

func newRunCmd(cfg *chanlog.Config) *cobra.Command {
	var (
		workers  int
		messages int
		tui      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a concurrent demonstration workload through the logger",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDemo(cfg, workers, messages, tui)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 6, "number of concurrent workers")
	cmd.Flags().IntVar(&messages, "messages", 20, "messages emitted per worker")
	cmd.Flags().BoolVar(&tui, "tui", false, "show a live tail of the rendered output")

	return cmd
}

func runDemo(cfg *chanlog.Config, workers, messages int, tui bool) error {
	// --max-columns 0 sizes banners to the terminal when attached; without
	// a terminal the engine falls back to its default width.
	if cfg.MaxColumns <= 0 {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			cfg.MaxColumns = w
		}
	}

	var sub *chanlog.Subscription

	if tui {
		pub := chanlog.NewPublisher(chanlog.WithSubscriptionBuffer(256))
		sub = pub.Subscribe()
		cfg.Publisher = pub

		defer pub.Close()
	} else if cfg.LogDirectory == "" {
		// Without a log directory the default destination goes to the
		// terminal. The tail view owns the terminal, so this only applies
		// in plain mode.
		cfg.DefaultWriter = os.Stdout
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	if !tui {
		workload(logger, workers, messages)
		logger.Close()

		return nil
	}

	go func() {
		workload(logger, workers, messages)
		logger.Close()
		cfg.Publisher.Close()
	}()

	p := tea.NewProgram(newTailModel(sub))

	_, err = p.Run()
	if err != nil {
		return fmt.Errorf("running tail view: %w", err)
	}

	return nil
}

// workload drives the logger the way a task-parallel application would: a
// root context on the default destination, plus one named destination per
// worker with its own breadcrumb trail.
func workload(logger *chanlog.Logger, workers, messages int) {
	root := chanlog.NewContext(chanlog.DefaultDestination)
	root.PushFrame("main")

	logger.Header(root, "chanlog demo")
	logger.Log(root, "starting", strconv.Itoa(workers), "workers")

	var wg sync.WaitGroup

	for w := range workers {
		wg.Go(func() {
			name := fmt.Sprintf("worker-%d", w)

			ctx := chanlog.NewContext(name)
			ctx.TaskTag = strconv.Itoa(w)
			ctx.PushFrame("main")
			ctx.PushFrame(name)

			logger.Debug(ctx, "worker started")

			for m := range messages {
				step := ctx.WithFrame(fmt.Sprintf("step-%d", m))

				switch {
				case m%7 == 3:
					logger.Warning(step, "step", strconv.Itoa(m), "retried")
				case m%5 == 1:
					logger.Log(step, "step", strconv.Itoa(m), "checkpoint")
				default:
					logger.Debug(step, "step", strconv.Itoa(m), "done")
				}
			}

			logger.Log(ctx, "worker finished")
		})
	}

	wg.Wait()

	logger.Log(root, "all workers finished")
}
