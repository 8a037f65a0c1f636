package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/manzanit0/mapsmoke/pkg/credential"
	"github.com/manzanit0/mapsmoke/pkg/gmaps"
	"github.com/manzanit0/mapsmoke/pkg/logger"
	"github.com/manzanit0/mapsmoke/pkg/smoke"
	"github.com/manzanit0/mapsmoke/pkg/whttp"
)

const ServiceName = "mapsmoke"

var (
	configFile string
	keyPath    string
	format     string
	record     bool
	timeout    time.Duration
	verbose    bool
	baseURL    = gmaps.DefaultBaseURL
)

var rootCmd = &cobra.Command{
	Use:   "mapsmoke",
	Short: "Smoke-test a Google Maps API key",
	Long: `mapsmoke issues a fixed handful of Google Maps web service calls and prints
a JSON summary of the response statuses. The API key is never printed.

The key is read from GOOGLE_MAPS_API_KEY (a .env file in the working directory
is honoured) or, failing that, from the JSON file given by --config or
MAPSMOKE_CONFIG.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger.InitGlobalSlog(ServiceName, level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "JSON file holding the API key (defaults to $MAPSMOKE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&keyPath, "key-path", "mcpServers.google_maps_server.env.GOOGLE_MAPS_API_KEY", "Dotted path of the key inside --config")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", smoke.FormatJSON, "Report format: json or table")
	rootCmd.PersistentFlags().BoolVar(&record, "record", false, "Store the report in the database at $DATABASE_URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", whttp.DefaultTimeout, "Timeout for each outbound request")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log response bodies")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", baseURL, "Maps web service host")
	_ = rootCmd.PersistentFlags().MarkHidden("base-url")

	rootCmd.AddCommand(samplesCmd, geocodeCmd, keycheckCmd, crosscheckCmd, serveCmd, historyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("mapsmoke failed", "error", err.Error())
		os.Exit(1)
	}
}

func resolveKey() (string, error) {
	return credential.Resolve(credential.Source{
		DotEnv:     []string{".env"},
		ConfigFile: configFile,
		KeyPath:    credential.ParseKeyPath(keyPath),
	})
}
