// Package cmd contains the droidspec CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/droidspec/droidspec/cmd/droidspec/internal/config"
)

// Version information set at build time via -ldflags.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// DefaultSpecName is the file the commands operate on when no argument is
// given.
const DefaultSpecName = "buildozer.spec"

var (
	verbose bool
	cfgFile string

	// cfg is the loaded tool configuration, available to all commands.
	cfg = config.DefaultConfig()

	rootCmd = &cobra.Command{
		Use:   "droidspec",
		Short: "Toolkit for buildozer.spec Android packaging files",
		Long: TitleStyle.Render("droidspec") + SubtitleStyle.Render(" - toolkit for buildozer.spec packaging files") + `

droidspec parses, validates, and rewrites the INI-with-append configuration
format that Buildozer and python-for-android consume, so spec problems
surface in milliseconds instead of at the end of a full packaging run.

` + SubtitleStyle.Render("Examples:") + `
  droidspec check                   Validate ./buildozer.spec
  droidspec check --watch           Re-validate on every save
  droidspec show                    Print the resolved configuration
  droidspec diff local.spec ci.spec Compare two spec copies
  droidspec convert --to json       Emit the spec as JSON`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "tool config file (default is the platform config dir)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(iconsCmd)
}

// Execute runs the CLI. Called by main.main.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func versionString() string {
	if Version == "0.1.0-dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (built %s)", Version, BuildTime)
}

func initConfig() {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		return
	}
	cfg = loaded
	applyStyles(cfg.Color)
	log.Debug("loaded tool config", "format", cfg.Format, "strict", cfg.Strict, "color", cfg.Color)
}

// specArg returns the spec path from args, defaulting to ./buildozer.spec.
func specArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return DefaultSpecName
}
