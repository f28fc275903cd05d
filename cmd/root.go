// Package cmd defines and implements the CLI commands for the travelhub executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/travelhub/internal/api"
	"github.com/JakeFAU/travelhub/internal/app"
	"github.com/JakeFAU/travelhub/internal/config"
	"github.com/JakeFAU/travelhub/internal/country"
	"github.com/JakeFAU/travelhub/internal/logging"
	"github.com/JakeFAU/travelhub/internal/places"
	"github.com/JakeFAU/travelhub/internal/summary"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application services that commands use.
type App interface {
	Close()
	GetLogger() *zap.Logger
	Config() config.Config
	Countries() *country.Service
	Places() *places.Client
	Summaries() *summary.Client
	Server() *api.Server
}

// appFactory builds the App from an optional config file path.
type appFactory func(configPath string) (App, error)

func defaultAppFactory(configPath string) (App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(cfg, nil)
}

func newRootCmd(newApp appFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "travelhub",
		Short: "Country data and travel enrichment service.",
		Long: `travelhub fetches country metadata, nearby restaurants and hotels, and
short encyclopedia summaries from public APIs, caches the country dataset for
the life of the process, and serves the result as JSON.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("read config flag: %w", err)
			}
			appInstance, err := newApp(configPath)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (YAML/TOML/JSON); env vars use the TRAVELHUB_ prefix")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCountriesCmd())
	cmd.AddCommand(newCountryCmd())

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd(defaultAppFactory).ExecuteContext(context.Background()); err != nil {
		logger, lerr := logging.New(false)
		if lerr != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger.Fatal("command execution failed", zap.Error(err))
	}
}
