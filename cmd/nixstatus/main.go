package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nixstatus/nixstatus/internal/checker"
	"github.com/nixstatus/nixstatus/internal/version"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nixstatus <channel>",
		Short: "Report missed NixOS channel updates",
		Long: `nixstatus compares the revision of the running system with the latest
revision published on a channel and prints whether the system is synced, or
how many channel updates it has missed so far.

A channel named like a subcommand (state, version, ...) must follow "--".

Examples:
  nixstatus nixos-unstable
  nixstatus -u "⟳ %" -s "✓" nixos-24.05
  nixstatus -- state`,
		Version: version.Detailed(),
		Args:    cobra.ExactArgs(1),
		// stdout carries only the status line
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			setupLogging(cmd.ErrOrStderr(), verbose)
			slog.Debug("nixstatus", "version", version.Short())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			system, err := cfg.SystemCommand()
			if err != nil {
				return err
			}

			c := checker.New(cfg.ChannelClient(), system, cfg.Store())
			res, err := c.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), cfg.Messages().Render(res.Record))
			return err
		},
	}

	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().String("url-template", "", "Channel revision URL, {channel} is replaced by the channel name")
	rootCmd.Flags().String("revision-cmd", "", "Command printing the current system revision")
	rootCmd.Flags().Duration("timeout", 0, "Timeout for the channel request")

	rootCmd.PersistentFlags().StringP("synced-msg", "s", "", "Message printed when the system is synced")
	rootCmd.PersistentFlags().StringP("unsynced-msg", "u", "", "Message printed when the system is behind, % is replaced by the missed count")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding the state (default: per-user data directory)")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug information to stderr")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newStateCmd())
	rootCmd.AddCommand(newStatePathCmd())
	rootCmd.AddCommand(newConfigPathCmd())

	return rootCmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    noColor,
	})
	slog.SetDefault(slog.New(handler))
}

// execute runs cmd and maps a failure to the literal "error" on stdout, the
// cause on stderr and exit code 1.
func execute(ctx context.Context, cmd *cobra.Command, stdout, stderr io.Writer) int {
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SilenceErrors = true

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stdout, "error")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, newRootCmd(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
