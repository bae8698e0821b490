package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/glowfield/internal/term"
)

var (
	termLogFile string
	termInspect bool
	termSeed    uint64
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Run the field in the terminal",
	Long: `Draws the field with terminal cells as coarse pixels. Move the mouse to
stir it; q, Esc or Ctrl-C quits. Zones can be added through the inspection
API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("inspect") {
			cfg.Inspect.Enabled = termInspect
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = termSeed
		}

		// The screen owns stdout, so logs go to a file or nowhere.
		var out io.Writer = io.Discard
		if termLogFile != "" {
			f, err := os.OpenFile(termLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer f.Close()
			out = f
		}
		logger := newLogger(out, cfg)

		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("creating screen: %w", err)
		}

		opts := []term.Option{term.WithLogger(logger)}
		insp := startInspect(cfg, logger)
		defer insp.shutdown(logger)
		if insp != nil {
			opts = append(opts, term.WithInspect(insp.queue, insp.feed), term.WithLocator(insp.server))
		}

		d, err := term.New(screen, *cfg, opts...)
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()
		return d.Start(ctx)
	},
}

func init() {
	termCmd.Flags().StringVar(&termLogFile, "log-file", "", "append logs to this file")
	termCmd.Flags().BoolVar(&termInspect, "inspect", false, "serve the inspection API")
	termCmd.Flags().Uint64Var(&termSeed, "seed", 0, "random seed, 0 for time based")
	rootCmd.AddCommand(termCmd)
}
