package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-fab-history/internal/config"
	"github.com/pable/go-fab-history/internal/logger"
)

var (
	cfg = config.Load()

	dbPath      string
	logLevel    string
	columnsPath string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fabhistory",
	Short: "Flesh and Blood match history statistics",
	Long: `Load a match-history CSV export, work out whose history it is, and report
win rates overall, per opponent and per round, filtered by rated/unrated play.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(logLevel, os.Stderr)
	},
}

// Execute runs the root command.
// Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", cfg.DBPath, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&columnsPath, "columns", cfg.ColumnsPath, "YAML file mapping CSV header names")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(opponentsCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(analyzeCmd)
}
