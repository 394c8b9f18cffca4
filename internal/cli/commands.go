package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/dyike/ButterflyBrain/config"
	"github.com/dyike/ButterflyBrain/internal/debug"
	"github.com/dyike/ButterflyBrain/internal/logging"
	"github.com/dyike/ButterflyBrain/internal/server"
	"github.com/dyike/ButterflyBrain/internal/service"
)

// NewRootCmd creates the root command. Without a subcommand it serves HTTP.
func NewRootCmd() *cobra.Command {
	var (
		cfg    *config.Config
		logger arbor.ILogger
	)

	rootCmd := &cobra.Command{
		Use:   "butterfly",
		Short: "Butterfly Brain - single-ticker deep analysis and scoped chat",
		Long: `Butterfly Brain computes volatility, put/call ratio and 52-week range for a stock,
finds its largest single-day moves with a likely news cause, and answers questions
about that stock only.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				if err := os.Setenv("BUTTERFLY_CONFIG", path); err != nil {
					return err
				}
			}
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if level, _ := cmd.Flags().GetString("log-level"); level != "" {
				loaded.LogLevel = level
			}
			cfg = loaded
			logger = logging.Init(cfg.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg, logger)
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg, logger)
		},
	})
	rootCmd.AddCommand(newAnalyzeCmd(&cfg, &logger))
	rootCmd.AddCommand(newChatCmd(&cfg, &logger))
	rootCmd.AddCommand(newConfigCmd(&cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().String("config", "", "YAML configuration file path")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	return rootCmd
}

func runServe(ctx context.Context, cfg *config.Config, logger arbor.ILogger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := debug.NewEinoDebugger(cfg, logger).Initialize(ctx); err != nil {
		logger.Warn().Err(err).Msg("eino debug disabled")
	}
	if !cfg.LLMConfigured() {
		logger.Warn().Str("provider", cfg.LLMProvider).Msg("LLM api key not set, /chat will fail")
	}

	analyst := service.NewAnalyst(cfg, logger)
	return server.New(cfg, analyst, logger).Run(ctx)
}

func newAnalyzeCmd(cfg **config.Config, logger *arbor.ILogger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [TICKER]",
		Short: "Run a deep analysis once and print the report",
		Long: `Run the deep analysis pipeline for one ticker.
Example: butterfly analyze AAPL --market NASDAQ`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			market, _ := cmd.Flags().GetString("market")
			analyst := service.NewAnalyst(*cfg, *logger)

			result, err := analyst.DeepAnalysis(commandContext(cmd), args[0], market)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("Analysis failed: "+err.Error()))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderAnalysis(result))
			return nil
		},
	}

	cmd.Flags().String("market", "US", "Market or exchange the ticker is listed on")
	return cmd
}

func newChatCmd(cfg **config.Config, logger *arbor.ILogger) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive analysis followed by scoped chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChatSession(commandContext(cmd), cmd.OutOrStdout(), service.NewAnalyst(*cfg, *logger))
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Butterfly Brain v%s\n", Version)
		},
	}
}

func newConfigCmd(cfg **config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), RenderConfig(*cfg))
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and report missing credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if err := c.Validate(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render("✗ "+err.Error()))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), completedStyle.Render("✓ configuration is valid"))
			if !c.LLMConfigured() {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("! no API key for LLM provider "+c.LLMProvider))
			}
			if !c.SearchConfigured() {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("! search backend not configured, anomaly causes disabled"))
			}
			return nil
		},
	})

	return configCmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
