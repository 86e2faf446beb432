package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mini-rodalies-3d/stopboard/internal/board"
	"github.com/mini-rodalies-3d/stopboard/internal/config"
	"github.com/mini-rodalies-3d/stopboard/internal/errors"
	"github.com/mini-rodalies-3d/stopboard/internal/logger"
)

const defaultConfigPath = "stopboard.yml"

var (
	configPath string
	jsonLogs   bool
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "stopboard",
	Short: "Bus arrivals on a character display",
	Long: `stopboard polls arrival predictions for one or more stops and renders
them onto a small character display, refreshing on a fixed interval.

Examples:
  stopboard                        # run forever with ./stopboard.yml
  stopboard --config home.yml -v   # debug logging
  stopboard once                   # fetch once, print arrivals and the board`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(resolveConfigPath(cmd))
		if err != nil {
			return err
		}

		verbose, _ := cmd.Flags().GetCount("verbose")
		level := cfg.Log.Level
		if verbose > 0 {
			level = "debug"
		}
		if err := logger.Initialize(jsonLogs || cfg.Log.JSON, level); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	RunE: runBoard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $STOPBOARD_CONFIG or ./"+defaultConfigPath+")")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "log as JSON")
	rootCmd.PersistentFlags().CountP("verbose", "v", "enable debug logging")

	rootCmd.AddCommand(onceCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath picks the flag, then STOPBOARD_CONFIG, then the default
// file if it exists. An empty result means defaults plus environment only.
func resolveConfigPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("config") {
		return configPath
	}
	if p := os.Getenv("STOPBOARD_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func runBoard(cmd *cobra.Command, args []string) error {
	log := logger.ComponentLogger("main")
	log.Infow("Starting stopboard",
		"sources", len(cfg.Sources),
		"poll_interval", cfg.PollInterval(),
		"mode", cfg.Display.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Infow("Shutting down...")
		cancel()
	}()

	surface := buildSurface(cfg, os.Stdout)
	b := board.New(orch, surface, board.NewLogIndicator(logger.ComponentLogger("indicator")),
		board.RealClock{}, boardOptions(cfg), logger.ComponentLogger("board"))

	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	surface.Clear()
	surface.Power(false)
	log.Infow("Goodbye!")
	return nil
}
