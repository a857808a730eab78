package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/takeoff/pkg/runtime/app"
	"github.com/de-tools/takeoff/pkg/server"
	"github.com/de-tools/takeoff/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	profilesPath string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the takeoff web API",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a takeoff config file (yaml)")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", config.DefaultProfilesPath(),
		"Path to the catalog profiles file (default is $HOME/.takeoffcfg)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := app.NewLogger(cfg.Logging, os.Stdout)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())

	a, err := app.Open(ctx, cfg, profilesPath)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close catalog database")
		}
	}()

	types, err := a.Resolver.ProposalTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list proposal types: %w", err)
	}
	logger.Info().Msgf("Catalog loaded with %d proposal type(s): %v", len(types), types)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Mapping:      a.Mapping,
			Parameters:   a.Parameters,
			Partition:    a.Partition,
			Ventilation:  a.Ventilation,
			Availability: a.Availability,
			Logger:       logger,
		},
	})

	return api.Start()
}
