package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "glowfield",
	Short: "Interactive glowing particle field",
	Long: `glowfield animates a field of glowing particles that link up when close,
swirl around the pointer and orbit hovered cards. It runs in a desktop
window or a terminal and can expose a small HTTP API for inspection.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "glowfield.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
