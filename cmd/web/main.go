package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	handlers "github.com/fin-tools/value-atlas/pkg/handlers/valuation"
	"github.com/fin-tools/value-atlas/pkg/server"
	"github.com/fin-tools/value-atlas/pkg/services/config"
	"github.com/fin-tools/value-atlas/pkg/services/earnings"
	"github.com/fin-tools/value-atlas/pkg/services/marketdata"
	"github.com/fin-tools/value-atlas/pkg/services/rates"
	"github.com/fin-tools/value-atlas/pkg/services/simulation"
	"github.com/fin-tools/value-atlas/pkg/services/valuation"
)

var profilePath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Value Atlas valuation API server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&profilePath, "profile", "p", "",
		"Path to a YAML parameter profile (defaults apply when omitted)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	params, err := config.LoadParams(profilePath)
	if err != nil {
		return fmt.Errorf("failed to load parameters: %w", err)
	}
	if profilePath != "" {
		logger.Info().Msgf("Parameter profile at `%s` successfully loaded.", profilePath)
	}

	evaluator := valuation.NewEvaluator(
		marketdata.NewClient(params),
		earnings.NewEstimator(params, os.Getenv("ALPHAVANTAGE_API_KEY")),
		rates.NewCalculator(params),
		simulation.NewDriver(simulation.WithWorkers(params.Workers)),
	)

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Valuations: handlers.NewHandler(evaluator, params),
		},
	})

	return api.Start()
}
