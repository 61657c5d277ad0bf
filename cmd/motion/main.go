package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/motion/internal/config"
	"github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/headless"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	noColor    bool
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError reports a command failure, including the hint of any coded error.
func printError(w io.Writer, err error) {
	errors.Fprint(w, err, colorEnabled())
}

// colorEnabled honors --no-color and the NO_COLOR convention.
func colorEnabled() bool {
	if noColor {
		return false
	}
	_, set := os.LookupEnv("NO_COLOR")
	return !set
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "motion",
		Short: "Headless layout animation toolkit",
		Long: `Motion runs FLIP layout projection without a browser.

Scenarios describe elements and the layout changes applied to them over
time. Motion plays them on a headless document and produces:

  • Recordings of the style patches written every frame
  • HTML snapshots of the final frame
  • A live WebSocket stream for devtools renderers`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to motion.json (default: nearest project root)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		simulateCmd(),
		serveCmd(),
		recordingsCmd(),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads --config, or motion.json from the nearest project root,
// falling back to defaults.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.LoadOrDefault(".")
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
}

// documentOptions applies the config to headless documents.
func documentOptions(cfg *config.Config, logger *slog.Logger) []headless.Option {
	return []headless.Option{
		headless.WithLogger(logger),
		headless.WithFrameRate(cfg.FrameRate),
		headless.WithTreeOptions(cfg.TreeOptions()...),
	}
}

func readScenarioFile(path string) (*headless.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return headless.ReadScenario(f)
}

// success prints a success message.
func success(format string, args ...any) {
	mark := "✓"
	if colorEnabled() {
		mark = "\033[32m✓\033[0m"
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s\n", fmt.Sprintf(format, args...))
}
