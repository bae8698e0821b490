package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iburimskiy/glowfield/internal/audio"
	"github.com/iburimskiy/glowfield/internal/game"
)

var (
	windowChime   string
	windowInspect bool
	windowSeed    uint64
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Run the field in a desktop window",
	Long: `Opens a resizable window with a scrollable document of cards. Hover a card
to pull the field toward it, right click to close it, press S to pick a burst
chime and Esc or Q to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("chime") {
			cfg.Audio.ChimePath = windowChime
		}
		if cmd.Flags().Changed("inspect") {
			cfg.Inspect.Enabled = windowInspect
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = windowSeed
		}
		logger := newLogger(os.Stderr, cfg)

		opts := []game.Option{
			game.WithLogger(logger),
			game.WithPlayer(audio.NewPlayer(logger)),
		}
		insp := startInspect(cfg, logger)
		defer insp.shutdown(logger)
		if insp != nil {
			opts = append(opts, game.WithInspect(insp.queue, insp.feed), game.WithLocator(insp.server))
		}

		d, err := game.New(*cfg, opts...)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()
		go func() {
			<-ctx.Done()
			d.Stop()
		}()

		logger.Infof("window: %dx%d, %d cards", cfg.Window.Width, cfg.Window.Height, len(d.Board().Cards()))
		return d.Start()
	},
}

func init() {
	windowCmd.Flags().StringVar(&windowChime, "chime", "", "sound file played on bursts (wav, mp3, flac)")
	windowCmd.Flags().BoolVar(&windowInspect, "inspect", false, "serve the inspection API")
	windowCmd.Flags().Uint64Var(&windowSeed, "seed", 0, "random seed, 0 for time based")
	rootCmd.AddCommand(windowCmd)
}
