package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"welfare-mcp/internal/app"
	"welfare-mcp/internal/config"
	"welfare-mcp/internal/logging"
	"welfare-mcp/internal/mcp"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
	svc     *app.App
)

// NewRootCmd builds the command tree. Without a subcommand it serves MCP.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "welfare-mcp",
		Short: "Welfare-MCP is a racehorse welfare trend and risk analytics MCP Server",
		Long: `A specialized MCP Server and CLI that tracks race and training history per horse,
classifies wellness readings into risk categories and surfaces statistically significant
changes (z-scores, trends, correlations, process shifts) as welfare alerts.

Run without a subcommand to serve MCP over stdio.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Init(verbose); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
			}

			// Load configuration
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			svc, err = app.New(cfg)
			if err != nil {
				return err
			}

			log.Info().
				Str("version", Version).
				Str("commit", Commit).
				Str("buildDate", BuildDate).
				Str("command", cmd.Name()).
				Msg("Welfare-MCP starting")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Msg("MCP Server starting Stdio loop")
			server := mcp.NewServer(svc, Version)
			if err := server.Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)

	rootCmd.AddCommand(
		newHorsesCmd(),
		newAnalyzeCmd(),
		newHistoryCmd(),
		newExportCmd(),
		newReportCmd(),
		newImportCmd(),
		newFleetCmd(),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}
